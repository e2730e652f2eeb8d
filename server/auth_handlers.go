package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"authgate/auth"
	"authgate/token"
	"authgate/users"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type testLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// decodeRequest parses and validates a JSON request body. A false return
// means the 400 response has already been written.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "missing or malformed fields")
		return false
	}
	return true
}

// RegisterHandler creates a password account (POST /auth/register).
// 201 with the access token and user on success; the refresh token travels
// only in its cookie.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		user, pair, err := s.auth.Register(req.Email, req.Password)
		if err != nil {
			var policyErr *users.PolicyError
			switch {
			case errors.As(err, &policyErr):
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
					"error":      "password does not meet policy",
					"violations": policyErr.Violations,
				})
			case errors.Is(err, auth.ErrDuplicateEmail):
				writeError(w, http.StatusConflict, "email already registered")
			default:
				s.logger.Err(err).Msg("registration failed")
				writeError(w, http.StatusInternalServerError, "registration failed")
			}
			return
		}

		s.setRefreshCookie(w, r, pair.RefreshToken)
		writeJSON(w, http.StatusCreated, map[string]any{
			"accessToken": pair.AccessToken,
			"user":        user,
		})
	}
}

// LoginHandler authenticates an email/password pair (POST /auth/login).
// Bad credentials, unknown accounts and OAuth-only accounts all produce
// the same 401.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		user, pair, err := s.auth.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
				return
			}
			s.logger.Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		s.setAccessCookie(w, r, pair.AccessToken)
		s.setRefreshCookie(w, r, pair.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": pair.AccessToken,
			"user":        user,
		})
	}
}

// RefreshHandler mints a new access token from the refresh cookie
// (POST /auth/refresh). Missing, invalid, expired and wrong-kind tokens
// are indistinguishable in the response.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshTokenCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		accessToken, _, err := s.auth.Refresh(cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		s.setAccessCookie(w, r, accessToken)
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
	}
}

// LogoutHandler expires both session cookies (POST /auth/logout). It is
// idempotent and succeeds even when no cookies are present.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearSessionCookies(w, r)
		writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}

// MeHandler resolves the access token to its user record (GET /auth/me).
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		session, err := s.codec.Verify(cookie.Value)
		if err != nil || session.Kind != token.KindAccess {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := s.users.GetByID(session.SubjectID)
		if errors.Is(err, users.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err != nil {
			s.logger.Err(err).Msg("user lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	}
}

// TestLoginHandler issues a session without credentials
// (POST /auth/test-login). The route only exists when the test-login flag
// was enabled at startup.
func (s *Server) TestLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req testLoginRequest
		if !s.decodeRequest(w, r, &req) {
			return
		}

		user, pair, err := s.auth.TestLogin(req.Email)
		if err != nil {
			s.logger.Err(err).Msg("test login failed")
			writeError(w, http.StatusInternalServerError, "test login failed")
			return
		}

		s.setAccessCookie(w, r, pair.AccessToken)
		s.setRefreshCookie(w, r, pair.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken": pair.AccessToken,
			"user":        user,
		})
	}
}
