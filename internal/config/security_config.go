package config

type Security struct{}

var _ SecurityConfig = Security{}

// GetSigningSecret returns the shared HMAC secret for session tokens.
// There is no default; the entrypoint refuses to start without one.
func (Security) GetSigningSecret() string {
	return GetEnv("TOKEN_SIGNING_SECRET", "")
}

// TestLoginEnabled reports whether the test-login bypass endpoint should
// be registered. It is resolved once at startup and can never be enabled
// outside the development environment.
func (s Security) TestLoginEnabled() bool {
	if (EnvVars{}).GetEnv() != envDev {
		return false
	}
	return GetEnv("ENABLE_TEST_LOGIN", "false") == "true"
}
