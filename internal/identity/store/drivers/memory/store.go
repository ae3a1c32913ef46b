// Package memory is an in-process Store driver. Revocations and users live
// for the process lifetime only; suitable for dev and tests, or for
// single-instance deployments that accept logout state resetting on
// restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/harborcrest/authgate/internal/identity/domain"
	"github.com/harborcrest/authgate/internal/identity/store"
)

type Store struct {
	revoked revokedTokensRepo
	users   usersRepo
}

func NewStore() *Store {
	return &Store{
		revoked: revokedTokensRepo{entries: make(map[string]domain.RevokedToken)},
		users:   usersRepo{byUsername: make(map[string]domain.User)},
	}
}

func (s *Store) RevokedTokens() store.RevokedTokens { return &s.revoked }
func (s *Store) Users() store.Users                 { return &s.users }

func (s *Store) ApplyMigrations() error       { return nil }
func (s *Store) Close() error                 { return nil }
func (s *Store) Ping(_ context.Context) error { return nil }

type revokedTokensRepo struct {
	mu      sync.RWMutex
	entries map[string]domain.RevokedToken
}

func (r *revokedTokensRepo) Revoke(_ context.Context, t domain.RevokedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// First revocation wins; repeats are no-ops.
	if _, ok := r.entries[t.Fingerprint]; !ok {
		r.entries[t.Fingerprint] = t
	}
	return nil
}

func (r *revokedTokensRepo) IsRevoked(_ context.Context, fingerprint string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[fingerprint]
	return ok, nil
}

func (r *revokedTokensRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for fp, t := range r.entries {
		if !t.ExpiresAt.After(now) {
			delete(r.entries, fp)
			n++
		}
	}
	return n, nil
}

type usersRepo struct {
	mu         sync.RWMutex
	byUsername map[string]domain.User
}

func (r *usersRepo) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) CreateUser(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[u.Username]; ok {
		return store.ErrAlreadyExists
	}
	r.byUsername[u.Username] = u
	return nil
}

func (r *usersRepo) IsEmpty(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUsername) == 0, nil
}
