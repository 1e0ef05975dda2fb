package config

import (
	"os"
	"strconv"
)

type Config struct {
	DatabasePath string
	Port         string
	JWTSecret    string
	Environment  string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	CORSOrigin     string
	UploadDir      string
	UploadMaxBytes int64

	MailgunDomain      string
	MailgunAPIKey      string
	MailgunSenderEmail string
	MailgunSenderName  string
}

func Load() *Config {
	cfg := &Config{
		DatabasePath: getEnv("DATABASE_PATH", "rewear.db"),
		Port:         getEnv("PORT", "8080"),
		JWTSecret:    getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		Environment:  getEnv("ENVIRONMENT", "production"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:8080/api/auth/google/callback"),

		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:3000"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: getEnvInt64("UPLOAD_MAX_BYTES", 5*1024*1024),

		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		MailgunSenderEmail: getEnv("MAILGUN_SENDER_EMAIL", "noreply@rewear.app"),
		MailgunSenderName:  getEnv("MAILGUN_SENDER_NAME", "ReWear"),
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
