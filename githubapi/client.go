// Package githubapi exchanges a GitHub authorization code for a verified
// external profile. It performs exactly two remote calls per login: the
// code-for-token exchange and the profile fetch.
package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

var (
	// ErrExchangeFailed is returned when the code-for-token exchange fails
	// or the provider response lacks an access token.
	ErrExchangeFailed = errors.New("github token exchange failed")
	// ErrProfileFetchFailed is returned when the authenticated profile
	// request fails or returns a non-success status.
	ErrProfileFetchFailed = errors.New("github profile fetch failed")
)

const defaultAPIBaseURL = "https://api.github.com"

// Profile is the subset of the GitHub user resource the auth core consumes.
type Profile struct {
	ID        string
	Login     string
	Name      string
	Email     string
	AvatarURL string
}

// Config configures the GitHub client. AuthURL, TokenURL and APIBaseURL
// default to github.com endpoints and exist so tests can point the client
// at a local server.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
}

type Client struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	endpoint := endpoints.GitHub
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	apiBaseURL := cfg.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the GitHub authorization page URL for the given
// CSRF state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode converts an authorization code into a GitHub access token.
// An empty code fails immediately without a remote call.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: missing authorization code", ErrExchangeFailed)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: response missing access token", ErrExchangeFailed)
	}
	return tok.AccessToken, nil
}

// FetchProfile retrieves the authenticated user's profile using the access
// token as bearer credential.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrProfileFetchFailed, resp.StatusCode)
	}

	var body struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}
	if body.ID == 0 {
		return nil, fmt.Errorf("%w: response missing user id", ErrProfileFetchFailed)
	}

	return &Profile{
		ID:        strconv.FormatInt(body.ID, 10),
		Login:     body.Login,
		Name:      body.Name,
		Email:     body.Email,
		AvatarURL: body.AvatarURL,
	}, nil
}
