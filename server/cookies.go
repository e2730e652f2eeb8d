package server

import (
	"net/http"

	"authgate/token"
)

const (
	// accessTokenCookie carries the short-lived access token. It is
	// readable by client script; the login/refresh response bodies expose
	// the same value.
	accessTokenCookie = "access_token"
	// refreshTokenCookie carries the long-lived refresh token. HttpOnly
	// always: the refresh token must never be reachable from script and
	// never appears in a response body.
	refreshTokenCookie = "refresh_token"
)

func (s *Server) setAccessCookie(w http.ResponseWriter, r *http.Request, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    value,
		Path:     "/",
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(token.AccessTTL.Seconds()),
	})
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, r *http.Request, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(token.RefreshTTL.Seconds()),
	})
}

// clearSessionCookies instructs the client to discard both tokens. This is
// the entirety of logout; the tokens themselves stay valid until expiry.
func (s *Server) clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: name == refreshTokenCookie,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}
