package users

// UserRepo is the persistent user store consumed by the auth core.
// Implementations return ErrNotFound when no user matches a lookup.
type UserRepo interface {
	Upsert(user *User) error
	Delete(email string) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	GetByGitHubID(githubID string) (*User, error)
}
