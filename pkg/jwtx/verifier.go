package jwtx

import (
	"context"
	"fmt"
	"time"
)

// Verifier validates a bearer token and gives you back the Principal if
// it's legit. Implementations must be safe for concurrent use.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// RevocationChecker answers whether a token has been revoked before its
// natural expiry. Implementations are backed by the identity service's
// revocation store (memory, sqlite, or redis).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// HS256Verifier validates tokens signed with the shared HMAC secret.
//
// Checks run in a fixed order: structure, signature, expiry, revocation.
// The order matters: a forged token is rejected for its signature and never
// reaches the expiry or revocation checks, so the error kind leaks nothing
// about how close to valid a forgery was. A token that is both expired and
// revoked reports ErrExpired.
type HS256Verifier struct {
	codec *Codec
	vocab RoleVocabulary

	// revocations may be nil for verifiers without access to the
	// revocation store (signature + expiry checks only).
	revocations RevocationChecker

	// now is swappable for tests.
	now func() time.Time
}

// NewVerifier creates an HS256Verifier over the codec. revocations may be
// nil to skip the revocation check.
func NewVerifier(codec *Codec, vocab RoleVocabulary, revocations RevocationChecker) *HS256Verifier {
	if vocab == (RoleVocabulary{}) {
		vocab = DefaultRoles
	}
	return &HS256Verifier{
		codec:       codec,
		vocab:       vocab,
		revocations: revocations,
		now:         time.Now,
	}
}

// Verify validates the token and derives its Principal.
func (v *HS256Verifier) Verify(ctx context.Context, token string) (Principal, error) {
	claims, err := v.codec.Decode(token)
	if err != nil {
		return Principal{}, err
	}

	if err := v.codec.VerifySignature(token); err != nil {
		return Principal{}, err
	}

	if err := claims.ValidateExpiry(v.now().UTC()); err != nil {
		return Principal{}, err
	}

	if v.revocations != nil {
		revoked, err := v.revocations.IsRevoked(ctx, token)
		if err != nil {
			return Principal{}, fmt.Errorf("jwtx: revocation lookup: %w", err)
		}
		if revoked {
			return Principal{}, ErrRevoked
		}
	}

	return NewPrincipal(claims, v.vocab), nil
}
