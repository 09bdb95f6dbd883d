package user

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/security"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/database"
)

// Store is the persistence the service needs; *repo.UserRepo implements it.
type Store interface {
	Create(ctx context.Context, u *entity.User) (int64, error)
	List(ctx context.Context) ([]entity.User, error)
	SetDisabled(ctx context.Context, username string, disabled bool) (bool, error)
}

// UserService orchestrates account creation and listing.
type UserService struct {
	store  Store
	hasher security.PasswordHasher
}

func NewUserService(store Store, hasher security.PasswordHasher) *UserService {
	if hasher == nil {
		hasher = security.BcryptHasher{Cost: 12}
	}
	return &UserService{store: store, hasher: hasher}
}

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// SignupRequest request body for the user creation endpoint.
type SignupRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Disabled bool   `json:"disabled"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.FullName, validation.Length(0, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, security.MaxPasswordLength)),
	)
}

// Signup creates a user with password (hashing inside).
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*entity.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		Disabled:     req.Disabled,
	}
	if _, err := s.store.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// List returns the public view of every user.
func (s *UserService) List(ctx context.Context) ([]entity.UserOut, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.UserOut, 0, len(users))
	for i := range users {
		out = append(out, users[i].Out())
	}
	return out, nil
}

// SetDisabled toggles the disabled flag. Tokens already issued to a disabled
// user stop working on their next request.
func (s *UserService) SetDisabled(ctx context.Context, username string, disabled bool) error {
	ok, err := s.store.SetDisabled(ctx, strings.TrimSpace(username), disabled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
