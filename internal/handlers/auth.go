package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"rewear/internal/auth"
	"rewear/internal/database"
	"rewear/internal/logger"
	"rewear/internal/middleware"
	"rewear/internal/models"

	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const oauthStateCookie = "oauth_state"

type registerRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Bio        string   `json:"bio"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Address    *string  `json:"address"`
	City       *string  `json:"city"`
	State      *string  `json:"state"`
	Country    *string  `json:"country"`
	PostalCode *string  `json:"postal_code"`
}

func handleRegister(c *gin.Context) {
	db := getDB(c)
	cfg := getConfig(c)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	fieldErrors := make(map[string]string)

	if len(req.Name) < 2 || len(req.Name) > 50 {
		fieldErrors["name"] = "Name must be between 2 and 50 characters"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Please enter a valid email address"
	}
	if len(req.Password) < 6 {
		fieldErrors["password"] = "Password must be at least 6 characters"
	}
	if len(req.Bio) > 100 {
		fieldErrors["bio"] = "Bio must be at most 100 characters"
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		fieldErrors["latitude"] = "Latitude must be between -90 and 90"
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		fieldErrors["longitude"] = "Longitude must be between -180 and 180"
	}

	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fieldErrors})
		return
	}

	user, err := database.CreateUser(db, models.User{
		Name:       req.Name,
		Email:      req.Email,
		Bio:        req.Bio,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"message": "An account with that email already exists"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, user.ID, user.Email, user.IsAdmin)
	if err != nil {
		respondError(c, fmt.Errorf("failed to generate token: %w", err))
		return
	}

	logger.Info("User registered", "user_id", user.ID, "email", user.Email)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func handleLogin(c *gin.Context) {
	db := getDB(c)
	cfg := getConfig(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := database.AuthenticateUser(db, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		// A missing account and a wrong password are indistinguishable
		// to the caller.
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, user.ID, user.Email, user.IsAdmin)
	if err != nil {
		respondError(c, fmt.Errorf("failed to generate token: %w", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func getGoogleOAuth(c *gin.Context) *auth.GoogleOAuth {
	oauth, _ := c.MustGet("google_oauth").(*auth.GoogleOAuth)
	return oauth
}

func handleGoogleLogin(c *gin.Context) {
	oauth := getGoogleOAuth(c)

	if !oauth.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": "Google OAuth is not configured on the server",
		})
		return
	}

	state, err := auth.GenerateState()
	if err != nil {
		respondError(c, fmt.Errorf("failed to generate oauth state: %w", err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, oauth.AuthURL(state))
}

func handleGoogleCallback(c *gin.Context) {
	cfg := getConfig(c)
	oauth := getGoogleOAuth(c)

	loginRedirect := func(reason string) {
		c.Redirect(http.StatusFound, cfg.CORSOrigin+"/login?error="+reason)
	}

	if !oauth.IsConfigured() {
		loginRedirect("oauth_not_configured")
		return
	}

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		loginRedirect("invalid_state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		loginRedirect("authentication_failed")
		return
	}

	profile, err := oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.Warn("Google OAuth exchange failed", "error", err)
		loginRedirect("authentication_failed")
		return
	}

	user, err := resolveOAuthUser(c, profile)
	if err != nil {
		logger.Error("Failed to resolve OAuth user", "email", profile.Email, "error", err)
		loginRedirect("authentication_failed")
		return
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, user.ID, user.Email, user.IsAdmin)
	if err != nil {
		loginRedirect("token_generation_failed")
		return
	}

	c.Redirect(http.StatusFound, cfg.CORSOrigin+"/auth/callback?token="+token)
}

// resolveOAuthUser matches by google id first, then by email with id
// backfill, and creates a fresh account otherwise.
func resolveOAuthUser(c *gin.Context, profile *auth.GoogleProfile) (*models.User, error) {
	db := getDB(c)

	user, err := database.GetUserByGoogleID(db, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	user, err = database.GetUserByEmail(db, profile.Email)
	if err == nil {
		if linkErr := database.LinkGoogleID(db, user.ID, profile.ID); linkErr != nil {
			return nil, linkErr
		}
		return database.GetUserByID(db, user.ID)
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	var picture *string
	if profile.Picture != "" {
		picture = &profile.Picture
	}
	return database.CreateOAuthUser(db, profile.Name, profile.Email, profile.ID, picture)
}

func handleDashboard(c *gin.Context) {
	db := getDB(c)
	user := middleware.CurrentUser(c)

	items, err := database.GetItemsByOwner(db, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	sent, received, err := database.GetUserSwaps(db, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"items":         items,
		"sentSwaps":     sent,
		"receivedSwaps": received,
	})
}
