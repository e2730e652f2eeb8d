package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex     = "/"
	RouteLogin     = "/login"
	RouteSignup    = "/signup"
	RouteDashboard = "/dashboard"

	// Authentication endpoints. Everything under this prefix is public.
	RouteAuthPrefix = "/auth"

	RouteAuthRegister  = "/auth/register"
	RouteAuthLogin     = "/auth/login"
	RouteAuthRefresh   = "/auth/refresh"
	RouteAuthLogout    = "/auth/logout"
	RouteAuthMe        = "/auth/me"
	RouteAuthHealth    = "/auth/health"
	RouteAuthTestLogin = "/auth/test-login"

	RouteGitHubLogin    = "/auth/github"
	RouteGitHubCallback = "/auth/github/callback"

	// Static assets are not intercepted by the session gate at all.
	RouteStaticPrefix = "/static/"
)
