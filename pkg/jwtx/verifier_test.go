package jwtx_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// fakeRevocations is a RevocationChecker with a canned answer.
type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

func TestVerifierRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	issuer := jwtx.NewIssuer(codec, 0)
	verifier := jwtx.NewVerifier(codec, jwtx.DefaultRoles, nil)

	token, err := issuer.Issue("alice", []string{"ROLE_USER"}, time.Minute)
	require.NoError(t, err)

	p, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Subject)
	require.Equal(t, []string{"ROLE_USER"}, p.Roles)
	require.True(t, p.IsUser)
	require.False(t, p.IsAdmin)
}

func TestVerifierCheckOrder(t *testing.T) {
	codec := newTestCodec(t)
	issuer := jwtx.NewIssuer(codec, 0)

	t.Run("tampered token is a signature failure, never expiry", func(t *testing.T) {
		// Expired AND tampered: the signature check runs first.
		expired, err := codec.Encode(jwtx.NewClaims("alice", []string{"ROLE_USER"}, time.Second, time.Now().UTC().Add(-time.Hour)))
		require.NoError(t, err)
		tampered := tamperPayload(t, expired, func(m map[string]any) {
			m["sub"] = "mallory"
		})

		verifier := jwtx.NewVerifier(codec, jwtx.DefaultRoles, nil)
		_, err = verifier.Verify(context.Background(), tampered)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("expired and revoked reports expired", func(t *testing.T) {
		expired, err := codec.Encode(jwtx.NewClaims("alice", []string{"ROLE_USER"}, time.Second, time.Now().UTC().Add(-time.Hour)))
		require.NoError(t, err)

		revocations := &fakeRevocations{revoked: map[string]bool{expired: true}}
		verifier := jwtx.NewVerifier(codec, jwtx.DefaultRoles, revocations)

		_, err = verifier.Verify(context.Background(), expired)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("revoked valid token reports revoked", func(t *testing.T) {
		token, err := issuer.Issue("alice", []string{"ROLE_USER"}, time.Minute)
		require.NoError(t, err)

		revocations := &fakeRevocations{revoked: map[string]bool{token: true}}
		verifier := jwtx.NewVerifier(codec, jwtx.DefaultRoles, revocations)

		_, err = verifier.Verify(context.Background(), token)
		require.ErrorIs(t, err, jwtx.ErrRevoked)
	})

	t.Run("revocation store failure surfaces as error", func(t *testing.T) {
		token, err := issuer.Issue("alice", []string{"ROLE_USER"}, time.Minute)
		require.NoError(t, err)

		storeErr := errors.New("store down")
		verifier := jwtx.NewVerifier(codec, jwtx.DefaultRoles, &fakeRevocations{err: storeErr})

		_, err = verifier.Verify(context.Background(), token)
		require.ErrorIs(t, err, storeErr)
	})
}

func TestClaimsExpiryBoundary(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	t.Run("exp equal to now is expired", func(t *testing.T) {
		c := jwtx.NewClaims("alice", nil, 0, now)
		require.ErrorIs(t, c.ValidateExpiry(now), jwtx.ErrExpired)
	})

	t.Run("exp one second ahead is live", func(t *testing.T) {
		c := jwtx.NewClaims("alice", nil, time.Second, now)
		require.NoError(t, c.ValidateExpiry(now))
	})

	t.Run("missing exp is expired", func(t *testing.T) {
		c := jwtx.Claims{}
		require.ErrorIs(t, c.ValidateExpiry(now), jwtx.ErrExpired)
	})
}

func TestVerifierConcurrent(t *testing.T) {
	codec := newTestCodec(t)
	issuer := jwtx.NewIssuer(codec, 0)
	verifier := jwtx.NewVerifier(codec, jwtx.DefaultRoles, &fakeRevocations{})

	token, err := issuer.Issue("alice", []string{"ROLE_USER", "ROLE_ADMIN"}, time.Minute)
	require.NoError(t, err)

	const n = 100
	results := make(chan jwtx.Principal, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := verifier.Verify(context.Background(), token)
			if err != nil {
				errs <- err
				return
			}
			results <- p
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent verify failed: %v", err)
	}

	for p := range results {
		require.Equal(t, "alice", p.Subject)
		require.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, p.Roles)
		require.True(t, p.IsAdmin)
		require.True(t, p.IsUser)
	}
}
