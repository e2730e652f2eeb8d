package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
)

// oauthStateCookie tracks the CSRF state between the authorization
// redirect and the callback. Short-lived and HttpOnly.
const oauthStateCookie = "oauth_state"

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// GitHubLoginHandler starts the OAuth flow (GET /auth/github) by sending
// the browser to GitHub's authorization page.
func (s *Server) GitHubLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateRandomString(24)
		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   300,
		})
		http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusFound)
	}
}

// GitHubCallbackHandler completes the OAuth flow
// (GET /auth/github/callback?code=...). Every failure in the chain -
// missing code, state mismatch, token exchange, profile fetch, store
// upsert - resolves to the same redirect to the login page; the failing
// stage is never exposed to the client.
func (s *Server) GitHubCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fail := func(stage string, err error) {
			s.logger.Warn().Err(err).Str("stage", stage).Msg("github callback failed")
			http.Redirect(w, r, RouteLogin+"?error=oauth_failed", http.StatusFound)
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			fail("code", nil)
			return
		}

		// The state cookie is only present for browser flows started at
		// /auth/github; when it exists it must match.
		if cookie, err := r.Cookie(oauthStateCookie); err == nil {
			if cookie.Value != r.URL.Query().Get("state") {
				fail("state", nil)
				return
			}
		}

		externalToken, err := s.github.ExchangeCode(r.Context(), code)
		if err != nil {
			fail("exchange", err)
			return
		}

		profile, err := s.github.FetchProfile(r.Context(), externalToken)
		if err != nil {
			fail("profile", err)
			return
		}

		_, pair, err := s.auth.LoginGitHub(profile)
		if err != nil {
			fail("session", err)
			return
		}

		s.setAccessCookie(w, r, pair.AccessToken)
		s.setRefreshCookie(w, r, pair.RefreshToken)
		http.Redirect(w, r, RouteDashboard, http.StatusFound)
	}
}
