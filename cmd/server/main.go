package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"authgate/auth"
	"authgate/githubapi"
	"authgate/internal/config"
	"authgate/server"
	"authgate/token"
	"authgate/users/memrepo"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", c.GetAppName()).Logger()
	displayAppname(c.GetAppName())

	codec, err := token.NewCodec(c.GetSigningSecret())
	if err != nil {
		return fmt.Errorf("TOKEN_SIGNING_SECRET must be set: %w", err)
	}

	// The store handle is constructed once here and threaded through every
	// constructor; nothing holds a process-wide global.
	userRepo := memrepo.New()

	authService, err := auth.NewService(userRepo, codec)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	githubClient := githubapi.New(githubapi.Config{
		ClientID:     c.GetGitHubClientID(),
		ClientSecret: c.GetGitHubClientSecret(),
		RedirectURL:  c.GetGitHubRedirectURL(),
	})

	srv, err := server.New(c, authService, codec, userRepo, githubClient, logger)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	if c.TestLoginEnabled() {
		logger.Warn().Msg("test-login endpoint is enabled")
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
