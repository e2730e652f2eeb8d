package server

import (
	"context"
	"net/http"
	"strings"

	"authgate/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUserID stores the authenticated subject ID for downstream
// handlers.
const ContextKeyUserID ContextKey = "user_id"

// publicPathPrefixes are matched exactly or as a parent of the request
// path. Everything under the auth prefix (login, register, refresh,
// logout, callback, health) is public by construction.
var publicPathPrefixes = []string{RouteLogin, RouteSignup, RouteAuthPrefix}

func isPublicPath(path string) bool {
	if path == RouteIndex {
		return true
	}
	for _, prefix := range publicPathPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// isStaticAsset reports whether the path is served without any gate
// involvement at all.
func isStaticAsset(path string) bool {
	return strings.HasPrefix(path, RouteStaticPrefix) || path == "/favicon.ico"
}

// SessionGateMiddleware classifies every inbound request as public or
// protected and validates the access token on protected ones. When the
// access token is missing, invalid or expired, exactly one refresh attempt
// is made; a failed refresh always rejects. The terminal outcomes are
// pass-through (optionally with a fresh access cookie) or a redirect to
// the login page.
func (s *Server) SessionGateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isStaticAsset(r.URL.Path) || isPublicPath(r.URL.Path) {
			next(w, r)
			return
		}

		if cookie, err := r.Cookie(accessTokenCookie); err == nil {
			session, err := s.codec.Verify(cookie.Value)
			if err == nil && session.Kind == token.KindAccess {
				next(w, r.WithContext(withSubjectID(r.Context(), session.SubjectID)))
				return
			}
			// Invalid or expired access token: fall through to the
			// refresh attempt, same as when no cookie is present.
		}

		refreshCookie, err := r.Cookie(refreshTokenCookie)
		if err != nil {
			s.redirectToLogin(w, r)
			return
		}

		accessToken, subjectID, err := s.auth.Refresh(refreshCookie.Value)
		if err != nil {
			s.redirectToLogin(w, r)
			return
		}

		s.setAccessCookie(w, r, accessToken)
		next(w, r.WithContext(withSubjectID(r.Context(), subjectID)))
	}
}

func withSubjectID(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, subjectID)
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteLogin, http.StatusFound)
}
