// internal/app/router.go
package app

import (
	authHandler "dealerdesk-service/internal/handlers/auth"
	carHandler "dealerdesk-service/internal/handlers/car"
	filesHandler "dealerdesk-service/internal/handlers/files"
	saleHandler "dealerdesk-service/internal/handlers/sale"
	statsHandler "dealerdesk-service/internal/handlers/stats"
	wsHandler "dealerdesk-service/internal/handlers/websocket"
	"dealerdesk-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	CarHandler     *carHandler.CarHandler
	SaleHandler    *saleHandler.SaleHandler
	StatsHandler   *statsHandler.StatsHandler
	FilesHandler   *filesHandler.FilesHandler
	WSHandler      *wsHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimit      gin.HandlerFunc
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== File Serving ====================
	r.GET("/files/:bucket/*key", h.FilesHandler.Serve)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/refresh", h.AuthHandler.Refresh)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth(), h.RateLimit)
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.PUT("/change-password", h.AuthHandler.ChangePassword)
		authProtected.GET("/me", h.AuthHandler.GetProfile)
		authProtected.PUT("/profile", h.AuthHandler.UpdateProfile)
		authProtected.POST("/profile/photo", h.AuthHandler.UploadProfilePhoto)
	}

	// ==================== Cars ====================
	cars := api.Group("/cars")
	cars.Use(h.AuthMiddleware.Auth(), h.RateLimit)
	{
		cars.GET("", h.CarHandler.ListCars)
		cars.POST("", h.CarHandler.CreateCar)
		cars.POST("/check-duplicate", h.CarHandler.CheckDuplicate)
		cars.GET("/:id", h.CarHandler.GetCar)
		cars.PUT("/:id", h.CarHandler.UpdateCar)
		cars.DELETE("/:id", h.CarHandler.DeleteCar)

		// Status management
		cars.PUT("/:id/available", h.CarHandler.MarkAvailable)

		// Selling
		cars.POST("/:id/sell", h.SaleHandler.RecordSale)
	}

	// ==================== Sales ====================
	sales := api.Group("/sales")
	sales.Use(h.AuthMiddleware.Auth(), h.RateLimit)
	{
		sales.GET("", h.SaleHandler.ListSales)
	}

	// ==================== Stats ====================
	stats := api.Group("/stats")
	stats.Use(h.AuthMiddleware.Auth(), h.RateLimit)
	{
		stats.GET("", h.StatsHandler.GetStats)
		stats.GET("/ws", h.WSHandler.GetStats)
	}
}
