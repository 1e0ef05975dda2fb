package main

import (
	"log"
	"os"

	"rewear/internal/auth"
	"rewear/internal/config"
	"rewear/internal/database"
	"rewear/internal/email"
	"rewear/internal/handlers"
	"rewear/internal/logger"
	"rewear/internal/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logLevel := logger.INFO
	if cfg.IsDevelopment() {
		logLevel = logger.DEBUG
	}
	logger.Initialize(logLevel, cfg.IsDevelopment())

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal("Failed to create upload directory:", err)
	}

	emailService := email.NewService(cfg)
	if emailService.IsEnabled() {
		logger.Info("Email service enabled with Mailgun")
	} else {
		logger.Info("Email service disabled - Mailgun not configured")
	}

	googleOAuth := auth.NewGoogleOAuth(cfg)
	if googleOAuth.IsConfigured() {
		logger.Info("Google OAuth enabled")
	} else {
		logger.Info("Google OAuth disabled - client credentials not configured")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.RateLimit(cfg))

	r.Static("/uploads", cfg.UploadDir)

	handlers.SetupRoutes(r, db, cfg, emailService, googleOAuth)

	logger.Info("Server starting", "port", cfg.Port)
	log.Fatal(r.Run(":" + cfg.Port))
}
