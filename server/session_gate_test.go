package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"authgate/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateRedirectsProtectedRequestWithNoCookies(t *testing.T) {
	f := setupTestServer(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGateAllowsValidAccessTokenWithoutNewCookie(t *testing.T) {
	f := setupTestServer(t)

	access, err := f.codec.MintAccess("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: access})
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "pass-through must not set cookies")
	assert.Contains(t, rec.Body.String(), "user-1")
}

func TestGateRefreshesExpiredAccessToken(t *testing.T) {
	f := setupTestServer(t)

	expiredAccess := mintExpired(t, f.codec, "user-1", token.KindAccess)
	refresh, err := f.codec.MintRefresh("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	fresh := cookieByName(rec, "access_token")
	require.NotNil(t, fresh, "successful refresh must attach a new access cookie")
	assert.NotEqual(t, expiredAccess, fresh.Value)

	session, err := f.codec.Verify(fresh.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.SubjectID)
	assert.Equal(t, token.KindAccess, session.Kind)
}

func TestGateAllowsRefreshWithNoAccessCookieAtAll(t *testing.T) {
	f := setupTestServer(t)

	refresh, err := f.codec.MintRefresh("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, cookieByName(rec, "access_token"))
}

func TestGateRejectsExpiredAccessWithoutRefresh(t *testing.T) {
	f := setupTestServer(t)

	expiredAccess := mintExpired(t, f.codec, "user-1", token.KindAccess)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: expiredAccess})
	rec := f.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGateRejectsAccessTokenInRefreshSlot(t *testing.T) {
	f := setupTestServer(t)

	expiredAccess := mintExpired(t, f.codec, "user-1", token.KindAccess)
	// A valid, unexpired access token replayed in the refresh slot.
	access, err := f.codec.MintAccess("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: expiredAccess})
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: access})
	rec := f.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGateRejectsExpiredRefreshToken(t *testing.T) {
	f := setupTestServer(t)

	expiredRefresh := mintExpired(t, f.codec, "user-1", token.KindRefresh)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: expiredRefresh})
	rec := f.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
}

func TestGateRejectsGarbageCookies(t *testing.T) {
	f := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "garbage"})
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "garbage"})
	rec := f.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
}

func TestGateIsIdempotentForSameCookies(t *testing.T) {
	f := setupTestServer(t)

	access, err := f.codec.MintAccess("user-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: access})
		rec := f.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestGatePublicPathsBypassAuth(t *testing.T) {
	f := setupTestServer(t)

	for _, path := range []string{"/", "/auth/health"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}

	// Unregistered public pages are a 404, never a login redirect.
	for _, path := range []string{"/login", "/signup", "/signup/step-2"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.NotEqual(t, http.StatusFound, rec.Code, "path %s", path)
	}
}

func TestGateDoesNotInterceptStaticAssets(t *testing.T) {
	f := setupTestServer(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	assert.NotEqual(t, http.StatusFound, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.NotEqual(t, http.StatusFound, rec.Code)
}
