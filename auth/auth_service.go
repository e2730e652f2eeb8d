// Package auth orchestrates authentication outcomes: it verifies
// credentials against the user store and turns every successful
// authentication into a pair of session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"authgate/githubapi"
	"authgate/token"
	"authgate/users"
)

// TokenPair is the ephemeral session handed to a client: a short-lived
// access token and a long-lived refresh token. It is never stored
// server-side.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service provides credential verification and session issuance.
type Service struct {
	users   users.UserRepo
	codec   *token.Codec
	nowTime func() time.Time
}

// ServiceOption modifies the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a Service with its required dependencies.
func NewService(userRepo users.UserRepo, codec *token.Codec, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] token codec is required")
	}

	s := &Service{
		users:   userRepo,
		codec:   codec,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// IssueSession mints a fresh access/refresh token pair for the subject.
func (s *Service) IssueSession(subjectID string) (TokenPair, error) {
	access, err := s.codec.MintAccess(subjectID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("[IssueSession] mint access: %w", err)
	}
	refresh, err := s.codec.MintRefresh(subjectID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("[IssueSession] mint refresh: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Login verifies an email/password pair and issues a session. All
// authentication failures collapse into ErrInvalidCredentials through a
// single code path; only a structurally corrupt stored hash surfaces as a
// distinct error.
func (s *Service) Login(email, password string) (*users.User, TokenPair, error) {
	user, err := s.users.GetByEmail(email)

	// A single branch decides every credential failure. Lookup misses,
	// OAuth-only accounts and wrong passwords must be indistinguishable
	// to the caller.
	var storedHash string
	if err == nil {
		storedHash = user.PasswordHash
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, TokenPair{}, fmt.Errorf("[Login] user lookup: %w", err)
	}

	match, err := users.CheckPassword(password, storedHash)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("[Login] %w", err)
	}
	if !match {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	user.LastLogin = s.nowTime()
	if err := s.users.Upsert(user); err != nil {
		return nil, TokenPair{}, fmt.Errorf("[Login] update last login: %w", err)
	}

	pair, err := s.IssueSession(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Register creates a password account and issues its first session.
// The password policy is enforced before any hashing; every violated rule
// is reported together via *users.PolicyError.
func (s *Service) Register(email, password string) (*users.User, TokenPair, error) {
	if valid, violations := users.ValidatePassword(password); !valid {
		return nil, TokenPair{}, &users.PolicyError{Violations: violations}
	}

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, TokenPair{}, ErrDuplicateEmail
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, TokenPair{}, fmt.Errorf("[Register] user lookup: %w", err)
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("[Register] hash password: %w", err)
	}

	user := &users.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.nowTime(),
		LastLogin:    s.nowTime(),
	}
	if err := s.users.Upsert(user); err != nil {
		return nil, TokenPair{}, fmt.Errorf("[Register] store user: %w", err)
	}

	pair, err := s.IssueSession(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// LoginGitHub upserts the account keyed by the external GitHub ID and
// issues a session. The first login creates the account; subsequent logins
// update the profile fields.
func (s *Service) LoginGitHub(profile *githubapi.Profile) (*users.User, TokenPair, error) {
	user, err := s.users.GetByGitHubID(profile.ID)
	if errors.Is(err, users.ErrNotFound) {
		user = &users.User{
			GitHubID:  profile.ID,
			CreatedAt: s.nowTime(),
		}
	} else if err != nil {
		return nil, TokenPair{}, fmt.Errorf("[LoginGitHub] user lookup: %w", err)
	}

	user.Login = profile.Login
	user.Name = profile.Name
	user.AvatarURL = profile.AvatarURL
	if profile.Email != "" {
		user.Email = profile.Email
	}
	user.LastLogin = s.nowTime()

	if err := s.users.Upsert(user); err != nil {
		return nil, TokenPair{}, fmt.Errorf("[LoginGitHub] store user: %w", err)
	}

	pair, err := s.IssueSession(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// TestLogin issues a session for the given email, creating the account if
// missing. The server only exposes this when the test-login flag is
// enabled at startup.
func (s *Service) TestLogin(email string) (*users.User, TokenPair, error) {
	user, err := s.users.GetByEmail(email)
	if errors.Is(err, users.ErrNotFound) {
		user = &users.User{Email: email, CreatedAt: s.nowTime()}
	} else if err != nil {
		return nil, TokenPair{}, fmt.Errorf("[TestLogin] user lookup: %w", err)
	}

	user.LastLogin = s.nowTime()
	if err := s.users.Upsert(user); err != nil {
		return nil, TokenPair{}, fmt.Errorf("[TestLogin] store user: %w", err)
	}

	pair, err := s.IssueSession(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh verifies a refresh token and mints a new access token for the
// same subject. A token of the wrong kind is rejected even when its
// signature is valid and it is unexpired.
func (s *Service) Refresh(refreshToken string) (accessToken, subjectID string, err error) {
	session, err := s.codec.Verify(refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	if session.Kind != token.KindRefresh {
		return "", "", fmt.Errorf("%w: wrong token kind", ErrInvalidRefreshToken)
	}

	access, err := s.codec.MintAccess(session.SubjectID)
	if err != nil {
		return "", "", fmt.Errorf("[Refresh] mint access: %w", err)
	}
	return access, session.SubjectID, nil
}
