package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound is returned by repositories when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrCorruptHash is returned when a stored password hash is structurally
// invalid. This signals a misconfigured record, not a wrong password.
var ErrCorruptHash = errors.New("stored password hash is malformed")

type User struct {
	ID           string    `json:"id,omitempty"`         // Unique identifier for the user
	Email        string    `json:"email,omitempty"`      // User's email address
	GitHubID     string    `json:"github_id,omitempty"`  // External GitHub account ID (empty for password accounts)
	Login        string    `json:"login,omitempty"`      // GitHub login name
	Name         string    `json:"name,omitempty"`       // Display name
	AvatarURL    string    `json:"avatar_url,omitempty"` // Profile picture URL
	PasswordHash string    `json:"-"`                    // Hashed password - never serialize. Empty means password auth is not configured (OAuth-only account)
	CreatedAt    time.Time `json:"created_at,omitempty"` // When the user registered
	LastLogin    time.Time `json:"last_login,omitempty"` // Last successful authentication
}

// HasPassword reports whether password authentication is configured for
// this account.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// PolicyError carries every password policy rule a candidate password
// violated. Validation never stops at the first failed rule.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("password policy: %s", strings.Join(e.Violations, "; "))
}

// ValidatePassword checks a candidate password against the policy:
// at least 8 characters, one uppercase letter, one lowercase letter and
// one number. All violated rules are collected and returned together.
func ValidatePassword(password string) (bool, []string) {
	var violations []string

	if len(password) < 8 {
		violations = append(violations, "password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)
	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if !hasNumber {
		violations = append(violations, "password must contain at least one number")
	}

	return len(violations) == 0, violations
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a plaintext password against a stored hash.
// An empty stored hash (OAuth-only account) is never a match and no
// comparison is attempted. A structurally invalid stored hash returns
// ErrCorruptHash rather than false.
func CheckPassword(password, storedHash string) (bool, error) {
	if storedHash == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %w", ErrCorruptHash, err)
}
