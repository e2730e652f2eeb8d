package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authgate/auth"
	"authgate/githubapi"
	"authgate/server"
	"authgate/token"
	"authgate/users"
	"authgate/users/memrepo"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-signing-secret"
	testEmail    = "john.doe@example.com"
	testPassword = "Password1"
)

// testConfig satisfies config.Config without touching the environment.
type testConfig struct {
	testLogin bool
}

func (testConfig) GetPort() string { return ":0" }
func (testConfig) GetAppName() string { return "Auth Gate Test" }
func (testConfig) GetBaseURL() string { return "http://localhost:8080" }
func (testConfig) GetEnv() string { return "DEV" }
func (testConfig) GetSigningSecret() string { return testSecret }
func (c testConfig) TestLoginEnabled() bool { return c.testLogin }
func (testConfig) GetGitHubClientID() string { return "client-id" }
func (testConfig) GetGitHubClientSecret() string { return "client-secret" }
func (testConfig) GetGitHubRedirectURL() string { return "http://localhost:8080/auth/github/callback" }

type testFixture struct {
	server   *server.Server
	userRepo users.UserRepo
	codec    *token.Codec
	auth     *auth.Service
}

type fixtureOption func(*testConfig, *githubapi.Config)

func withTestLogin() fixtureOption {
	return func(cfg *testConfig, _ *githubapi.Config) { cfg.testLogin = true }
}

func withGitHubURLs(tokenURL, apiBaseURL string) fixtureOption {
	return func(_ *testConfig, gh *githubapi.Config) {
		gh.TokenURL = tokenURL
		gh.APIBaseURL = apiBaseURL
	}
}

func setupTestServer(t *testing.T, options ...fixtureOption) *testFixture {
	t.Helper()

	cfg := testConfig{}
	ghCfg := githubapi.Config{
		ClientID:     cfg.GetGitHubClientID(),
		ClientSecret: cfg.GetGitHubClientSecret(),
		RedirectURL:  cfg.GetGitHubRedirectURL(),
	}
	for _, opt := range options {
		opt(&cfg, &ghCfg)
	}

	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	userRepo := memrepo.New()
	authService, err := auth.NewService(userRepo, codec)
	require.NoError(t, err)

	srv, err := server.New(cfg, authService, codec, userRepo, githubapi.New(ghCfg), zerolog.Nop())
	require.NoError(t, err)

	return &testFixture{
		server:   srv,
		userRepo: userRepo,
		codec:    codec,
		auth:     authService,
	}
}

func (f *testFixture) createPasswordUser(t *testing.T, email, password string) *users.User {
	t.Helper()

	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	user := &users.User{Email: email, PasswordHash: hash}
	require.NoError(t, f.userRepo.Upsert(user))
	return user
}

// mintExpired creates a token whose expiry is already in the past.
func mintExpired(t *testing.T, codec *token.Codec, subjectID string, kind token.Kind) string {
	t.Helper()

	token.NowFunc = func() time.Time { return time.Now().Add(-2 * token.RefreshTTL) }
	defer func() { token.NowFunc = time.Now }()

	var raw string
	var err error
	if kind == token.KindAccess {
		raw, err = codec.MintAccess(subjectID)
	} else {
		raw, err = codec.MintRefresh(subjectID)
	}
	require.NoError(t, err)
	return raw
}

func (f *testFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
