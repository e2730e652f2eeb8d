package server

import "net/http"

func (s *Server) initRoutes() {
	s.mux.HandleFunc("GET "+RouteIndex, s.IndexHandler())
	s.mux.HandleFunc("GET "+RouteDashboard, s.DashboardHandler())

	s.mux.HandleFunc("POST "+RouteAuthRegister, s.RegisterHandler())
	s.mux.HandleFunc("POST "+RouteAuthLogin, s.LoginHandler())
	s.mux.HandleFunc("POST "+RouteAuthRefresh, s.RefreshHandler())
	s.mux.HandleFunc("POST "+RouteAuthLogout, s.LogoutHandler())
	s.mux.HandleFunc("GET "+RouteAuthMe, s.MeHandler())
	s.mux.HandleFunc("GET "+RouteAuthHealth, s.HealthHandler())

	s.mux.HandleFunc("GET "+RouteGitHubLogin, s.GitHubLoginHandler())
	s.mux.HandleFunc("GET "+RouteGitHubCallback, s.GitHubCallbackHandler())

	// Registered only when enabled at startup; outside development the
	// path simply does not exist.
	if s.testLogin {
		s.mux.HandleFunc("POST "+RouteAuthTestLogin, s.TestLoginHandler())
	}
}

// IndexHandler serves the public root.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != RouteIndex {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"app": s.config.GetAppName()})
	}
}

// DashboardHandler is the protected-area root the OAuth callback redirects
// to. The session gate has already authenticated the request.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID, _ := r.Context().Value(ContextKeyUserID).(string)
		writeJSON(w, http.StatusOK, map[string]string{"subject_id": subjectID})
	}
}

// HealthHandler reports process liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
