package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/security"
)

func TestNewService_RejectsBadConfig(t *testing.T) {
	_, err := NewService(Config{AccessTokenTTL: time.Minute}, &memUsers{})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewService(Config{SecretKey: "k", Algorithm: "RS256", AccessTokenTTL: time.Minute}, &memUsers{})
	assert.ErrorIs(t, err, security.ErrUnsupportedAlg)
}

func TestService_LoginAndAuthorize(t *testing.T) {
	svc, users := newTestService(t)
	users.add(t, "alice", "correct-horse", false)

	resp, err := svc.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 1800, resp.ExpiresIn)

	claims, err := svc.Codec().Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, claims.ExpiresAt.Equal(testEpoch.Add(30*time.Minute)))

	u, err := svc.Authorize(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestService_LoginFailures(t *testing.T) {
	svc, users := newTestService(t)
	users.add(t, "alice", "correct-horse", false)

	_, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, security.ErrBadCredentials)

	_, err = svc.Login(context.Background(), "bob", "correct-horse")
	assert.ErrorIs(t, err, security.ErrUnknownUser)

	boom := errors.New("db down")
	users.err = boom
	_, err = svc.Login(context.Background(), "alice", "correct-horse")
	assert.ErrorIs(t, err, boom)
}

func TestService_DisabledUserCanLoginButNotAuthorize(t *testing.T) {
	svc, users := newTestService(t)
	users.add(t, "carol", "pw", true)

	resp, err := svc.Login(context.Background(), "carol", "pw")
	require.NoError(t, err)

	_, err = svc.Authorize(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, security.ErrDisabled)
}
