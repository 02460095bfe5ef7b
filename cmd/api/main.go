package main

import (
	"flag"
	"os"

	"github.com/antonkh/eventory/internal/bootstrap"
	"github.com/antonkh/eventory/internal/config"
	"github.com/antonkh/eventory/internal/pkg/logger"
)

// @title Eventory API
// @version 1.0
// @description Event management platform: event lifecycle, participation and moderation

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	app, err := bootstrap.NewApplication(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}
}
