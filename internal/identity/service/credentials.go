package service

import (
	"context"
	"errors"
	"time"

	"github.com/harborcrest/authgate/internal/identity/domain"
	"github.com/harborcrest/authgate/internal/identity/store"
	"github.com/harborcrest/authgate/pkg/cryptox"
	"github.com/harborcrest/authgate/pkg/idx"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords
// so a caller can't probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid_credentials")

// CredentialService is the credential-store collaborator: it turns a
// username/password pair into a verified user. Registration and profile
// management are out of scope; Bootstrap only seeds a first account so a
// fresh deployment is usable.
type CredentialService struct {
	Users store.Users
}

// Authenticate verifies the password against the stored argon2id hash.
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	return user, nil
}

// Bootstrap creates the given user if the store holds no users yet.
// Returns true when a user was created.
func (s *CredentialService) Bootstrap(ctx context.Context, username, password string, roles []string) (bool, error) {
	empty, err := s.Users.IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return false, err
	}

	err = s.Users.CreateUser(ctx, domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with another instance bootstrapping the same store.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
