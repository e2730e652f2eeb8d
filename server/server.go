// Package server exposes the HTTP surface of the auth gate: the session
// lifecycle endpoints, the GitHub OAuth flow, and the request-time gate
// that protects every non-public route.
package server

import (
	"errors"
	"net/http"

	"authgate/auth"
	"authgate/githubapi"
	"authgate/internal/config"
	"authgate/token"
	"authgate/users"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Server struct {
	mux       *http.ServeMux
	handler   http.HandlerFunc
	config    config.Config
	auth      *auth.Service
	codec     *token.Codec
	users     users.UserRepo
	github    *githubapi.Client
	validate  *validator.Validate
	logger    zerolog.Logger
	testLogin bool
}

func New(cfg config.Config, authService *auth.Service, codec *token.Codec, userRepo users.UserRepo, github *githubapi.Client, logger zerolog.Logger) (*Server, error) {
	if authService == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if codec == nil {
		return nil, errors.New("[Server New] token codec is required")
	}
	if userRepo == nil {
		return nil, errors.New("[Server New] user repo is required")
	}
	if github == nil {
		return nil, errors.New("[Server New] github client is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		auth:      authService,
		codec:     codec,
		users:     userRepo,
		github:    github,
		validate:  validator.New(),
		logger:    logger,
		testLogin: cfg.TestLoginEnabled(),
	}
	s.initRoutes()

	// The session gate runs once per inbound request, before routing.
	s.handler = ChainMiddleware(
		s.mux.ServeHTTP,
		s.RecoverMiddleware,
		s.LoggingMiddleware,
		s.SecurityHeadersMiddleware,
		s.SessionGateMiddleware,
	)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}
