package main

import (
	"flag"
	"os"

	"github.com/antonkh/eventory/internal/bootstrap"
	"github.com/antonkh/eventory/internal/config"
	"github.com/antonkh/eventory/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/stats.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	app, err := bootstrap.NewStatsApplication(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize telemetry service")
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}
}
