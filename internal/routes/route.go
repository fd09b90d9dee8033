package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/evently/internal/container"
	"github.com/joshua-takyi/evently/internal/handlers"
	"github.com/joshua-takyi/evently/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	requireAuth := middleware.RequireBearer(container.TokenValidator, container.Logger)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "evently-api",
			})
		})

		// direct-upload signing; clients sign with timestamp=expire-3600, see handlers.UploadAuth
		api.GET("/upload-auth", requireAuth, handlers.UploadAuth(container.UploadAuthService, container.Logger))
	}

	eventRoutes := api.Group("/events")
	{
		eventRoutes.POST("", requireAuth, handlers.CreateEvent(container.EventService, container.Config.MaxUploadBytes))
		eventRoutes.GET("", handlers.ListEvents(container.EventService))
		eventRoutes.GET("/:slug", handlers.GetEventBySlug(container.EventService))
		eventRoutes.GET("/:slug/similar", handlers.ListSimilarEvents(container.EventService))
	}

	return r
}
