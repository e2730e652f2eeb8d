package config

type GitHub struct{}

var _ GitHubConfig = GitHub{}

func (GitHub) GetGitHubClientID() string {
	return GetEnv("GITHUB_CLIENT_ID", "")
}

func (GitHub) GetGitHubClientSecret() string {
	return GetEnv("GITHUB_CLIENT_SECRET", "")
}

func (g GitHub) GetGitHubRedirectURL() string {
	redirect := GetEnv("GITHUB_REDIRECT_URL", "")
	if redirect != "" {
		return redirect
	}
	return (EnvVars{}).GetBaseURL() + "/auth/github/callback"
}
