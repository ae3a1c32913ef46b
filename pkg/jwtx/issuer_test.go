package jwtx_test

import (
	"testing"
	"time"

	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestIssuerIssue(t *testing.T) {
	codec := newTestCodec(t)
	issuer := jwtx.NewIssuer(codec, 30*time.Minute)

	t.Run("sets subject roles and lifetime", func(t *testing.T) {
		token, err := issuer.Issue("alice", []string{"ROLE_USER"}, time.Minute)
		require.NoError(t, err)

		claims, err := codec.Decode(token)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Subject)
		require.Equal(t, []string{"ROLE_USER"}, claims.Roles)
		require.Equal(t, int64(60), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
	})

	t.Run("zero ttl uses the default", func(t *testing.T) {
		token, err := issuer.Issue("alice", nil, 0)
		require.NoError(t, err)

		claims, err := codec.Decode(token)
		require.NoError(t, err)
		require.Equal(t, int64(1800), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
	})

	t.Run("negative ttl is rejected", func(t *testing.T) {
		_, err := issuer.Issue("alice", nil, -time.Second)
		require.ErrorIs(t, err, jwtx.ErrInvalidTTL)
	})
}

func TestPrincipalRoles(t *testing.T) {
	p := jwtx.Principal{Subject: "alice", Roles: []string{"ROLE_USER"}, IsUser: true}

	require.True(t, p.HasRole("ROLE_USER"))
	require.False(t, p.HasRole("ROLE_ADMIN"))
	require.False(t, p.HasRole("role_user")) // exact match only

	require.True(t, p.HasAnyRole("ROLE_ADMIN", "ROLE_USER"))
	require.False(t, p.HasAnyRole("ROLE_ADMIN"))
	require.True(t, p.HasAnyRole()) // empty requirement admits everyone
}
