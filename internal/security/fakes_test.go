package security

import (
	"context"
	"sync"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/entity"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
	calls int
}

func newFakeUsers(users ...*entity.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*entity.User{}}
	for _, u := range users {
		f.users[u.Username] = u
	}
	return f
}

func (f *fakeUsers) FindByUsername(ctx context.Context, username string) (*entity.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, false, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, false, nil
	}
	cp := *u
	return &cp, true, nil
}

func (f *fakeUsers) delete(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, username)
}

func (f *fakeUsers) setDisabled(username string, disabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username].Disabled = disabled
}

// countingHasher records Verify calls so timing-equalisation paths can be asserted.
type countingHasher struct {
	BcryptHasher
	mu       sync.Mutex
	verifies int
}

func (h *countingHasher) Verify(hash, pw string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return h.BcryptHasher.Verify(hash, pw)
}
