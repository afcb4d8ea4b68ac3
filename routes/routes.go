package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/haseeb/volunteer-hub-go/config"
	controllers "github.com/haseeb/volunteer-hub-go/controllers"
	middleware "github.com/haseeb/volunteer-hub-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "NGO Volunteer Hub API is running!"})
	})

	// public
	api.POST("/auth/register", controllers.Register(cfg))
	api.POST("/auth/login", controllers.Login(cfg))

	// protected
	auth := middleware.AuthMiddleware(cfg)

	api.GET("/auth/me", auth, controllers.Me(cfg))

	events := api.Group("/events")
	{
		events.GET("", controllers.ListEvents(cfg))
		events.GET("/:id", controllers.GetEvent(cfg))
		events.POST("", auth, middleware.RequireRole("ngo"), controllers.CreateEvent(cfg))
		events.PUT("/:id", auth, middleware.RequireRole("ngo"), controllers.UpdateEvent(cfg))
		events.DELETE("/:id", auth, middleware.RequireRole("ngo"), controllers.DeleteEvent(cfg))
		events.GET("/ngo/myevents", auth, middleware.RequireRole("ngo"), controllers.ListMyEvents(cfg))
		events.POST("/:id/images", auth, middleware.RequireRole("ngo"), controllers.UploadEventImages(cfg))
	}

	registrations := api.Group("/registrations")
	registrations.Use(auth)
	{
		registrations.POST("", middleware.RequireRole("volunteer"), controllers.CreateRegistration(cfg))
		registrations.GET("/myregistrations", middleware.RequireRole("volunteer"), controllers.ListMyRegistrations(cfg))
		registrations.DELETE("/:id", middleware.RequireRole("volunteer"), controllers.CancelRegistration(cfg))
		registrations.GET("/event/:eventId", middleware.RequireRole("ngo"), controllers.ListEventRegistrations(cfg))
		registrations.PUT("/:id", middleware.RequireRole("ngo"), controllers.UpdateRegistrationStatus(cfg))
	}
}
