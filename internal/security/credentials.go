package security

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/entity"
)

// Authentication failures. ErrUnknownUser and ErrBadCredentials must look
// the same to clients; ErrDisabled is the only one surfaced distinctly.
var (
	ErrUnknownUser    = errors.New("unknown user")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrInvalidToken   = errors.New("invalid token")
	ErrDisabled       = errors.New("user disabled")
)

// UserFinder resolves a user record by username. ok is false when no such
// user exists; err is reserved for store failures.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (u *entity.User, ok bool, err error)
}

// CredentialVerifier checks a username/password pair against the store.
type CredentialVerifier struct {
	users  UserFinder
	hasher PasswordHasher
	// verified on the unknown-user path so both failures cost one hash compare
	dummyHash string
}

func NewCredentialVerifier(users UserFinder, hasher PasswordHasher) (*CredentialVerifier, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &CredentialVerifier{users: users, hasher: hasher, dummyHash: dummy}, nil
}

// Authenticate returns the user when password matches the stored hash. The
// disabled flag is deliberately not checked here.
func (v *CredentialVerifier) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, ok, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !ok {
		v.hasher.Verify(v.dummyHash, password)
		return nil, ErrUnknownUser
	}
	if !v.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}
