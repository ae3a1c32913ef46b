// Package redis provides a revocation list shared across service
// instances. Each revoked fingerprint becomes a key with a TTL equal to
// the token's remaining lifetime, so redis expires entries on its own and
// the sweep operation has nothing to do.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harborcrest/authgate/internal/identity/domain"
)

const keyPrefix = "authgate:revoked:"

type RevocationStore struct {
	client *redis.Client
}

func NewRevocationStore(addr, password string, db int) *RevocationStore {
	return &RevocationStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Revoke marks the fingerprint with a TTL covering the token's remaining
// lifetime. A token that has already expired needs no entry: verification
// rejects it on expiry before the revocation check runs.
func (s *RevocationStore) Revoke(ctx context.Context, t domain.RevokedToken) error {
	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, keyPrefix+t.Fingerprint, 1, ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+fingerprint).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteExpired is a no-op: key TTLs already bound growth.
func (s *RevocationStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RevocationStore) Close() error {
	return s.client.Close()
}
