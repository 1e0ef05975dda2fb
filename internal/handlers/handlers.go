package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"rewear/internal/auth"
	"rewear/internal/config"
	"rewear/internal/database"
	"rewear/internal/email"
	"rewear/internal/logger"
	"rewear/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, emailService *email.Service, googleOAuth *auth.GoogleOAuth) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.AddDBContext(db))
	r.Use(addServicesContext(cfg, emailService, googleOAuth))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", middleware.AuthRateLimit(cfg), handleRegister)
		authGroup.POST("/login", middleware.AuthRateLimit(cfg), handleLogin)
		authGroup.GET("/google", handleGoogleLogin)
		authGroup.GET("/google/callback", handleGoogleCallback)
		authGroup.GET("/dashboard", middleware.RequireAuth(db, cfg), handleDashboard)
	}

	items := api.Group("/items")
	{
		items.GET("", middleware.OptionalAuth(db, cfg), handleListItems)
		items.GET("/:id", middleware.OptionalAuth(db, cfg), handleGetItem)
		items.POST("", middleware.RequireAuth(db, cfg), handleCreateItem)
		items.PUT("/:id/status", middleware.RequireAuth(db, cfg), handleUpdateItemStatus)
		items.DELETE("/:id", middleware.RequireAuth(db, cfg), handleDeleteItem)
	}

	swaps := api.Group("/swaps")
	swaps.Use(middleware.RequireAuth(db, cfg))
	{
		swaps.POST("", handleCreateSwap)
		swaps.GET("/user", handleUserSwaps)
		swaps.PUT("/:id/respond", handleRespondToSwap)
		swaps.DELETE("/:id", handleCancelSwap)
	}

	wishlist := api.Group("/wishlist")
	wishlist.Use(middleware.RequireAuth(db, cfg))
	{
		wishlist.GET("", handleGetWishlist)
		wishlist.POST("", handleAddToWishlist)
		wishlist.PUT("/:id", handleUpdateWishlistEntry)
		wishlist.DELETE("/:id", handleRemoveFromWishlist)
		wishlist.GET("/check/:itemId", handleCheckWishlist)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(db, cfg))
	{
		admin.GET("/items", handleAdminListItems)
		admin.PUT("/items/:id/approve", handleApproveItem)
		admin.DELETE("/items/:id", handleAdminDeleteItem)
		admin.GET("/users", handleAdminListUsers)
		admin.PUT("/users/:id/admin", handleSetUserAdmin)
		admin.GET("/stats", handleAdminStats)
	}

	meta := api.Group("/meta")
	{
		meta.GET("/categories", handleGetCategories)
		meta.GET("/sizes", handleGetSizes)
		meta.GET("/conditions", handleGetConditions)
		meta.GET("/tags", handleGetTags)
	}

	location := api.Group("/location")
	location.Use(middleware.RequireAuth(db, cfg))
	{
		location.GET("/nearby-users", handleNearbyUsers)
		location.GET("/nearby-items", handleNearbyItems)
		location.PUT("/update-location", handleUpdateLocation)
	}
}

func addServicesContext(cfg *config.Config, emailService *email.Service, googleOAuth *auth.GoogleOAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Set("email_service", emailService)
		c.Set("google_oauth", googleOAuth)
		c.Next()
	}
}

func getDB(c *gin.Context) *sql.DB {
	return c.MustGet("db").(*sql.DB)
}

func getConfig(c *gin.Context) *config.Config {
	return c.MustGet("config").(*config.Config)
}

func getEmailService(c *gin.Context) *email.Service {
	svc, _ := c.MustGet("email_service").(*email.Service)
	return svc
}

// respondError translates data-layer errors into the API's error
// taxonomy. Unexpected errors are logged and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, database.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, database.ErrConflict), errors.Is(err, database.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, database.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, database.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
	default:
		logger.Error("Unexpected error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
