package service

import (
	"context"
	"errors"
	"time"

	"github.com/harborcrest/authgate/internal/identity/domain"
	"github.com/harborcrest/authgate/internal/identity/store"
	"github.com/harborcrest/authgate/pkg/cryptox"
	"github.com/harborcrest/authgate/pkg/jwtx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// IssuedToken is the result of a successful login.
type IssuedToken struct {
	Token     string
	ExpiresIn time.Duration
}

// Validation is the result of a successful token verification, shaped for
// the /auth/validate wire response.
type Validation struct {
	Principal jwtx.Principal
	ExpiresAt time.Time
}

// TokenService issues, verifies, and revokes identity tokens. Stateless
// apart from the injected store; safe for concurrent use.
type TokenService struct {
	Codec       *jwtx.Codec
	Issuer      *jwtx.Issuer
	Verifier    jwtx.Verifier
	Revocations store.RevokedTokens
	TokenTTL    time.Duration

	Credentials *CredentialService
}

// Login authenticates credentials and mints a token carrying the user's
// roles.
func (s *TokenService) Login(ctx context.Context, username, password string) (*IssuedToken, error) {
	user, err := s.Credentials.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.Issuer.Issue(user.Username, user.Roles, s.TokenTTL)
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("token issued",
		"subject", user.Username,
		"token_fp", cryptox.FingerprintToken(token),
	)

	return &IssuedToken{Token: token, ExpiresIn: s.TokenTTL}, nil
}

// Validate runs the full verification chain (structure, signature, expiry,
// revocation) and reports the claims' expiry alongside the principal.
func (s *TokenService) Validate(ctx context.Context, token string) (*Validation, error) {
	principal, err := s.Verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	// The verifier already proved structure and signature; this decode
	// only recovers the expiry for the response.
	claims, err := s.Codec.Decode(token)
	if err != nil {
		return nil, err
	}

	return &Validation{Principal: principal, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Revoke puts the token on the revocation list keyed by fingerprint.
// Idempotent, and deliberately lenient: revoking a malformed or forged
// token succeeds as a no-op, the same way RFC 7009 treats unknown tokens,
// so the endpoint can't be used to probe token validity.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, err := s.Codec.Decode(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrMalformed) {
			return nil
		}
		return err
	}
	if err := s.Codec.VerifySignature(token); err != nil {
		if errors.Is(err, jwtx.ErrInvalidSignature) || errors.Is(err, jwtx.ErrMalformed) {
			return nil
		}
		return err
	}

	entry := domain.RevokedToken{
		Fingerprint: cryptox.FingerprintToken(token),
		RevokedAt:   time.Now().UTC(),
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if err := s.Revocations.Revoke(ctx, entry); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("token revoked",
		"subject", claims.Subject,
		"token_fp", entry.Fingerprint,
	)
	return nil
}
