package security

import (
	"context"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/entity"
)

// SessionAuthenticator turns a bearer token into the user it was issued to.
type SessionAuthenticator struct {
	codec *TokenCodec
	users UserFinder
}

func NewSessionAuthenticator(codec *TokenCodec, users UserFinder) *SessionAuthenticator {
	return &SessionAuthenticator{codec: codec, users: users}
}

// Authorize verifies the token, then re-reads the subject from the store so
// deleted or disabled accounts stop working before their tokens expire.
func (a *SessionAuthenticator) Authorize(ctx context.Context, bearer string) (*entity.User, error) {
	claims, err := a.codec.Verify(bearer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	u, ok, err := a.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve subject: %w", err)
	}
	if !ok {
		return nil, ErrUnknownUser
	}
	if u.Disabled {
		return nil, ErrDisabled
	}
	return u, nil
}
