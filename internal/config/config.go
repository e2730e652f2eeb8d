// Package config reads the process configuration from environment
// variables. Every value is resolved once at startup; nothing in the
// request path consults the environment.
package config

import "os"

type Config interface {
	EnvConfig
	SecurityConfig
	GitHubConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type SecurityConfig interface {
	GetSigningSecret() string
	TestLoginEnabled() bool
}

type GitHubConfig interface {
	GetGitHubClientID() string
	GetGitHubClientSecret() string
	GetGitHubRedirectURL() string
}

type mainConfig struct {
	EnvVars
	Security
	GitHub
}

func New() Config {
	return mainConfig{}
}

// GetEnv returns the value of an environment variable, or defaultValue
// when unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
