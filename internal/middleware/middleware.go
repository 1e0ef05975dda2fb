package middleware

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"rewear/internal/auth"
	"rewear/internal/config"
	"rewear/internal/database"
	"rewear/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	clients = make(map[string]*rateLimiter)
	mu      sync.Mutex
)

func RateLimit(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in development mode
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		ip := c.ClientIP()

		mu.Lock()
		defer mu.Unlock()

		if limiter, exists := clients[ip]; exists {
			limiter.lastSeen = time.Now()
			if !limiter.limiter.Allow() {
				c.JSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded"})
				c.Abort()
				return
			}
		} else {
			clients[ip] = &rateLimiter{
				limiter:  rate.NewLimiter(rate.Every(time.Second/20), 20),
				lastSeen: time.Now(),
			}
		}

		cleanupOldClients()
		c.Next()
	}
}

// AuthRateLimit throttles credential endpoints far harder than the
// global limit.
func AuthRateLimit(cfg *config.Config) gin.HandlerFunc {
	authClients := make(map[string]*rateLimiter)
	var authMu sync.Mutex

	return func(c *gin.Context) {
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		ip := c.ClientIP()

		authMu.Lock()
		defer authMu.Unlock()

		if limiter, exists := authClients[ip]; exists {
			limiter.lastSeen = time.Now()
			if !limiter.limiter.Allow() {
				c.JSON(http.StatusTooManyRequests, gin.H{"message": "Authentication rate limit exceeded"})
				c.Abort()
				return
			}
		} else {
			authClients[ip] = &rateLimiter{
				limiter:  rate.NewLimiter(rate.Every(time.Minute), 5),
				lastSeen: time.Now(),
			}
		}

		for ip, client := range authClients {
			if time.Since(client.lastSeen) > 30*time.Minute {
				delete(authClients, ip)
			}
		}

		c.Next()
	}
}

func cleanupOldClients() {
	for ip, client := range clients {
		if time.Since(client.lastSeen) > 10*time.Minute {
			delete(clients, ip)
		}
	}
}

func CORS(allowedOrigins string) gin.HandlerFunc {
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := false
		for _, allowedOrigin := range origins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// authenticate verifies the bearer token and loads the user onto the
// context. Aborts the request on failure.
func authenticate(c *gin.Context, db *sql.DB, cfg *config.Config) bool {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
		c.Abort()
		return false
	}

	claims, err := auth.ValidateToken(cfg.JWTSecret, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		c.Abort()
		return false
	}

	user, err := database.GetUserByID(db, claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
		c.Abort()
		return false
	}

	c.Set("user", user)
	c.Set("user_id", user.ID)
	c.Set("db", db)
	return true
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(db *sql.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, db, cfg) {
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present but never
// rejects the request.
func OptionalAuth(db *sql.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.ValidateToken(cfg.JWTSecret, token); err == nil {
				if user, err := database.GetUserByID(db, claims.UserID); err == nil {
					c.Set("user", user)
					c.Set("user_id", user.ID)
				}
			}
		}
		c.Set("db", db)
		c.Next()
	}
}

// RequireAdmin is RequireAuth plus the is_admin gate.
func RequireAdmin(db *sql.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, db, cfg) {
			return
		}

		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth or
// OptionalAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if value, exists := c.Get("user"); exists {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}

func LogRequests() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] %s %s %d %s %s\n",
			param.TimeStamp.Format("2006/01/02 15:04:05"),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
		)
	})
}

func AddDBContext(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}
