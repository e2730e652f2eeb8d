// Package memrepo provides an in-memory UserRepo. It backs the development
// server and the test suites; a production deployment swaps in a persistent
// implementation behind the same interface.
package memrepo

import (
	"sync"

	"authgate/users"

	"github.com/google/uuid"
)

var _ users.UserRepo = (*MemoryRepo)(nil)

type MemoryRepo struct {
	users     map[string]*users.User
	emailIDs  map[string]string // email to user id
	githubIDs map[string]string // github id to user id
	lock      sync.RWMutex
}

func New() *MemoryRepo {
	return &MemoryRepo{
		users:     make(map[string]*users.User),
		emailIDs:  make(map[string]string),
		githubIDs: make(map[string]string),
	}
}

// clone keeps the store free of aliases: callers never share a pointer
// with the map, so mutating a returned user cannot race a concurrent read.
func clone(user *users.User) *users.User {
	copied := *user
	return &copied
}

func (ur *MemoryRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	if existing, ok := ur.users[user.ID]; ok {
		delete(ur.emailIDs, existing.Email)
		delete(ur.githubIDs, existing.GitHubID)
	}

	ur.users[user.ID] = clone(user)
	if user.Email != "" {
		ur.emailIDs[user.Email] = user.ID
	}
	if user.GitHubID != "" {
		ur.githubIDs[user.GitHubID] = user.ID
	}
	return nil
}

func (ur *MemoryRepo) Delete(email string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	userID, ok := ur.emailIDs[email]
	if !ok {
		return users.ErrNotFound
	}
	delete(ur.emailIDs, email)

	if user, ok := ur.users[userID]; ok {
		delete(ur.githubIDs, user.GitHubID)
		delete(ur.users, userID)
	}
	return nil
}

func (ur *MemoryRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userID, ok := ur.emailIDs[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	return clone(ur.users[userID]), nil
}

func (ur *MemoryRepo) GetByID(id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return clone(user), nil
}

func (ur *MemoryRepo) GetByGitHubID(githubID string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	if githubID == "" {
		return nil, users.ErrNotFound
	}
	userID, ok := ur.githubIDs[githubID]
	if !ok {
		return nil, users.ErrNotFound
	}
	return clone(ur.users[userID]), nil
}
