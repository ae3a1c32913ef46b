package service

import (
	"context"

	"github.com/harborcrest/authgate/internal/identity/store"
	"github.com/harborcrest/authgate/pkg/cryptox"
)

// RevocationChecker adapts the revocation repository to the verifier's
// interface, translating raw tokens into the fingerprints the store keys on.
type RevocationChecker struct {
	Repo store.RevokedTokens
}

func (c *RevocationChecker) IsRevoked(ctx context.Context, token string) (bool, error) {
	return c.Repo.IsRevoked(ctx, cryptox.FingerprintToken(token))
}
