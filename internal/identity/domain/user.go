package domain

import "time"

// User is a credential-store record. The auth subsystem only reads it to
// turn a verified password into a subject and role list; registration and
// profile management live elsewhere.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}
