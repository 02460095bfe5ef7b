package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/antonkh/eventory/internal/config"
	"github.com/antonkh/eventory/internal/db"
	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/logger"
	"github.com/antonkh/eventory/internal/server"
	"github.com/antonkh/eventory/internal/stats"
)

// NewStatsApplication wires the telemetry service
func NewStatsApplication(cfg *config.Config) (*Application, error) {
	configureLogging(cfg)

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	service := stats.NewService(stats.NewHitRepository(database.Pool), log)

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	stats.SetupRoutes(router, stats.NewController(service))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return &Application{
		Config:   cfg,
		Database: database,
		Server:   server.New(cfg.Server.Port, router),
	}, nil
}
