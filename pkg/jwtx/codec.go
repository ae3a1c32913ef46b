package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrRevoked          = errors.New("jwtx: token revoked")
	ErrInvalidTTL       = errors.New("jwtx: ttl must be positive")

	// ErrEmptySecret reports a missing or empty signing secret at
	// construction time. This is a deployment mistake, not a runtime state.
	ErrEmptySecret = errors.New("jwtx: signing secret must not be empty")
)

// Codec encodes and decodes the compact HS256 token wire format:
// base64url(header) "." base64url(payload) "." base64url(signature).
// It is stateless apart from the immutable signing secret and safe for
// concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec creates a Codec keyed by the process-wide shared secret. Every
// issuer and verifier across the fleet must hold the same secret or
// cross-service verification fails closed on signature mismatch.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &Codec{secret: secret}, nil
}

// Encode signs claims into the compact wire format. Deterministic: the same
// claims always produce the same token string.
func (c *Codec) Encode(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode parses the structural shape of a token without checking its
// signature. Use VerifySignature (or a Verifier) before trusting the result.
func (c *Codec) Decode(raw string) (Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Claims{}, ErrMalformed
	}
	if claims.Subject == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}

// VerifySignature recomputes the HMAC-SHA256 over the header and payload
// segments and compares it against the signature segment. The underlying
// comparison is constant-time (hmac.Equal), so signature checking does not
// leak timing information.
func (c *Codec) VerifySignature(raw string) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		// Wrong secret, tampered segments, or a disallowed algorithm all
		// collapse into the same failure so a forger learns nothing extra.
		return ErrInvalidSignature
	}
}
