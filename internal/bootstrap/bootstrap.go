package bootstrap

import (
	"github.com/gin-gonic/gin"

	_ "github.com/antonkh/eventory/docs"
	"github.com/antonkh/eventory/internal/app/controllers"
	"github.com/antonkh/eventory/internal/app/repositories"
	"github.com/antonkh/eventory/internal/app/routes"
	"github.com/antonkh/eventory/internal/app/services"
	"github.com/antonkh/eventory/internal/config"
	"github.com/antonkh/eventory/internal/db"
	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/logger"
	"github.com/antonkh/eventory/internal/server"
	"github.com/antonkh/eventory/internal/statsclient"
)

// Application holds the wired main service
type Application struct {
	Config   *config.Config
	Database *db.PostgresDB
	Server   *server.Server
}

// NewApplication wires the main service from configuration down to routes
func NewApplication(cfg *config.Config) (*Application, error) {
	configureLogging(cfg)

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	repos := repositories.NewRepositories(database.Pool)

	stats := statsclient.New(cfg.Stats.ServiceURL, cfg.Stats.AppName, cfg.StatsClientTimeout(), log)

	userService := services.NewUserService(repos.Users, log)
	categoryService := services.NewCategoryService(repos.Categories, repos.Events, log)
	eventService := services.NewEventService(repos.Events, repos.Categories, repos.Users, repos.Requests, stats, log)
	requestService := services.NewRequestService(database, repos.Requests, repos.Events, repos.Users, log)
	commentService := services.NewCommentService(repos.Comments, repos.Events, repos.Users, log)
	compilationService := services.NewCompilationService(database, repos.Compilations, repos.Events, repos.Requests, stats, log)

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	routes.SetupRouter(
		router,
		controllers.NewUserController(userService),
		controllers.NewCategoryController(categoryService),
		controllers.NewEventController(eventService),
		controllers.NewRequestController(requestService),
		controllers.NewCompilationController(compilationService),
		controllers.NewCommentController(commentService),
		stats,
	)

	return &Application{
		Config:   cfg,
		Database: database,
		Server:   server.New(cfg.Server.Port, router),
	}, nil
}

// Run starts the application and blocks until shutdown
func (a *Application) Run() error {
	defer a.Database.Close()
	return a.Server.Run()
}

func configureLogging(cfg *config.Config) {
	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "pretty",
	})
}
