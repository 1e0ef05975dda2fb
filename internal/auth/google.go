package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rewear/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the userinfo response we use.
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleOAuth wraps the Google authorization-code flow. Constructed once
// at startup and passed to the HTTP layer; no package-level state.
type GoogleOAuth struct {
	config *oauth2.Config
}

func NewGoogleOAuth(cfg *config.Config) *GoogleOAuth {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return &GoogleOAuth{}
	}

	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *GoogleOAuth) IsConfigured() bool {
	return g.config != nil
}

// AuthURL returns the Google consent page URL for the given state.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange trades the callback code for the user's Google profile.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("incomplete google profile")
	}

	return &profile, nil
}

// GenerateState creates a random value for the OAuth state parameter.
func GenerateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
