package http

import (
	"fleettrack_server/internal/http/controllers"
	"fleettrack_server/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine) {
	// Initialize controllers
	authController := controllers.NewAuthController()
	deviceController := controllers.NewDeviceController()
	groupController := controllers.NewGroupController()
	retentionController := controllers.NewRetentionController()

	// WebSocket endpoint for sweep progress (no auth required for now)
	router.GET("/ws", HandleWebSocket)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "FleetTrack Server",
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := router.Group("/api/v1")
	{
		// Public authentication routes (no middleware)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authController.Login)
		}

		// Protected authentication routes (require auth)
		authProtected := v1.Group("/auth")
		authProtected.Use(middleware.AuthMiddleware())
		{
			authProtected.POST("/logout", authController.Logout)
			authProtected.GET("/me", authController.Me)
		}

		// Account-scoped routes (authenticated users only)
		accounts := v1.Group("/accounts/:account_id")
		accounts.Use(middleware.AuthMiddleware())
		{
			// Device routes
			accounts.GET("/devices", deviceController.GetDevices)
			accounts.GET("/devices/:device_id", deviceController.GetDevice)
			accounts.POST("/devices", middleware.AdminOnlyMiddleware(), deviceController.CreateDevice)
			accounts.GET("/devices/:device_id/groups", deviceController.GetDeviceGroups)

			// Group directory and membership routes
			accounts.GET("/groups", groupController.GetGroups)
			accounts.POST("/groups", middleware.AdminOnlyMiddleware(), groupController.CreateGroup)
			accounts.GET("/groups/:group_id", groupController.GetGroup)
			accounts.GET("/groups/:group_id/devices", groupController.GetGroupDevices)
			accounts.GET("/groups/:group_id/all-devices", groupController.GetGroupAllDevices)
			accounts.POST("/groups/:group_id/devices", middleware.AdminOnlyMiddleware(), groupController.AddGroupDevice)
			accounts.DELETE("/groups/:group_id/devices/:device_id", middleware.AdminOnlyMiddleware(), groupController.RemoveGroupDevice)
			accounts.PUT("/groups/:group_id/devices", middleware.AdminOnlyMiddleware(), groupController.SetGroupDevices)

			// Retention sweep routes (admin only)
			accounts.POST("/events/count-old", middleware.AdminOnlyMiddleware(), retentionController.CountOldEvents)
			accounts.POST("/events/delete-old", middleware.AdminOnlyMiddleware(), retentionController.DeleteOldEvents)
		}
	}
}
