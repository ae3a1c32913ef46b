package store

import (
	"context"
	"errors"
	"time"

	"github.com/harborcrest/authgate/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the identity service.
// Concrete drivers (memory, sqlite) implement it; the redis driver
// implements only RevokedTokens and is swapped in for that concern when a
// shared revocation list across service instances is wanted.
type Store interface {
	RevokedTokens() RevokedTokens
	Users() Users

	ApplyMigrations() error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the backing store is reachable (readiness probes).
	Ping(ctx context.Context) error
}

// RevokedTokens is the revocation list. All methods must be safe under
// concurrent use, and Revoke must be immediately visible: once Revoke
// returns, IsRevoked observes true from any goroutine.
type RevokedTokens interface {
	// Revoke records a fingerprint. Idempotent: revoking an
	// already-revoked token is a no-op, not an error.
	Revoke(ctx context.Context, t domain.RevokedToken) error

	// IsRevoked reports whether the fingerprint is on the list.
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)

	// DeleteExpired removes entries whose token has already expired and
	// returns how many were dropped. Purely a growth bound; correctness
	// never depends on it because verification checks expiry first.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Users is the credential store collaborator.
type Users interface {
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	CreateUser(ctx context.Context, u domain.User) error
	IsEmpty(ctx context.Context) (bool, error)
}
