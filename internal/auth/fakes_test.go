package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/security"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/entity"
)

var testEpoch = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

type memUsers struct {
	mu    sync.Mutex
	users map[string]entity.User
	err   error
}

func (m *memUsers) FindByUsername(ctx context.Context, username string) (*entity.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (m *memUsers) add(t *testing.T, username, password string, disabled bool) {
	t.Helper()
	hash, err := security.BcryptHasher{Cost: bcrypt.MinCost}.Hash(password)
	require.NoError(t, err)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = entity.User{ID: int64(len(m.users) + 1), Username: username, PasswordHash: hash, Disabled: disabled}
}

func newTestService(t *testing.T) (*Service, *memUsers) {
	t.Helper()
	users := &memUsers{users: map[string]entity.User{}}
	svc, err := NewService(Config{
		SecretKey:      "test-secret",
		AccessTokenTTL: 30 * time.Minute,
		BcryptCost:     bcrypt.MinCost,
	}, users)
	require.NoError(t, err)
	svc.Codec().Now = func() time.Time { return testEpoch }
	return svc, users
}
