package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/antonkh/eventory/internal/app/controllers"
	"github.com/antonkh/eventory/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	userController *controllers.UserController,
	categoryController *controllers.CategoryController,
	eventController *controllers.EventController,
	requestController *controllers.RequestController,
	compilationController *controllers.CompilationController,
	commentController *controllers.CommentController,
	hitRecorder middleware.HitRecorder,
) {
	// --- Admin routes ---
	admin := router.Group("/admin")
	{
		admin.POST("/users", userController.RegisterUser)
		admin.GET("/users", userController.ListUsers)
		admin.DELETE("/users/:userId", userController.DeleteUser)

		admin.POST("/categories", categoryController.CreateCategory)
		admin.PATCH("/categories/:catId", categoryController.UpdateCategory)
		admin.DELETE("/categories/:catId", categoryController.DeleteCategory)

		admin.GET("/events", eventController.FindEventsAdmin)
		admin.PATCH("/events/:eventId", eventController.UpdateEventAdmin)

		admin.POST("/compilations", compilationController.CreateCompilation)
		admin.PATCH("/compilations/:compId", compilationController.UpdateCompilation)
		admin.DELETE("/compilations/:compId", compilationController.DeleteCompilation)

		admin.GET("/comments", commentController.ListCommentsAdmin)
		admin.PATCH("/comments/:commentId", commentController.ModerateComment)
		admin.PATCH("/comments/:commentId/restrict", commentController.RestrictComment)
	}

	// --- Private routes, scoped to the acting user ---
	users := router.Group("/users/:userId")
	{
		users.POST("/events", eventController.CreateEvent)
		users.GET("/events", eventController.ListOwnEvents)
		users.GET("/events/:eventId", eventController.GetOwnEvent)
		users.PATCH("/events/:eventId", eventController.UpdateOwnEvent)
		users.GET("/events/:eventId/requests", requestController.ListEventRequests)
		users.PATCH("/events/:eventId/requests", requestController.UpdateRequestStatus)

		users.POST("/requests", requestController.CreateRequest)
		users.GET("/requests", requestController.ListOwnRequests)
		users.PATCH("/requests/:requestId/cancel", requestController.CancelRequest)

		users.POST("/comments/:eventId", commentController.CreateComment)
		users.GET("/comments", commentController.ListOwnComments)
		users.PATCH("/comments/:commentId", commentController.UpdateComment)
		users.DELETE("/comments/:commentId", commentController.DeleteComment)
	}

	// --- Public routes ---
	// Event reads feed the telemetry service; view counters derive from the
	// recorded hits.
	events := router.Group("/events")
	events.Use(middleware.RecordHits(hitRecorder))
	{
		events.GET("", eventController.FindEventsPublic)
		events.GET("/:id", eventController.GetEventPublic)
		events.GET("/:id/comments", commentController.ListEventComments)
	}

	router.GET("/categories", categoryController.ListCategories)
	router.GET("/categories/:catId", categoryController.GetCategory)

	router.GET("/compilations", compilationController.ListCompilations)
	router.GET("/compilations/:compId", compilationController.GetCompilation)

	router.GET("/comments/:commentId", commentController.GetComment)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
