package jwtx

import (
	"time"
)

// Issuer mints signed tokens for authenticated principals. Stateless:
// issuance registers nothing anywhere, the token itself is the only output.
type Issuer struct {
	codec *Codec

	// DefaultTTL applies when Issue is called with ttl == 0.
	DefaultTTL time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewIssuer creates an Issuer over the given codec. defaultTTL == 0 falls
// back to DefaultTokenTTL.
func NewIssuer(codec *Codec, defaultTTL time.Duration) *Issuer {
	if defaultTTL == 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &Issuer{codec: codec, DefaultTTL: defaultTTL, now: time.Now}
}

// Issue mints a token for subject carrying the given roles. ttl == 0 uses
// the issuer default; a negative ttl is caller misuse and fails with
// ErrInvalidTTL.
func (i *Issuer) Issue(subject string, roles []string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = i.DefaultTTL
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	claims := NewClaims(subject, roles, ttl, i.now().UTC())
	return i.codec.Encode(claims)
}
