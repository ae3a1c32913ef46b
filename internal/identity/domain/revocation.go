package domain

import "time"

// RevokedToken marks a token as rejected before its natural expiry. Tokens
// are identified by SHA-256 fingerprint; the raw token never touches
// storage. ExpiresAt mirrors the token's own expiry so sweepers know when
// the entry stops mattering: verification rejects expired tokens before it
// ever consults the revocation list.
type RevokedToken struct {
	Fingerprint string
	RevokedAt   time.Time
	ExpiresAt   time.Time
}
