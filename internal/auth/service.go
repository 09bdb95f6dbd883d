package auth

import (
	"context"
	"time"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/security"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/entity"
)

// TokenResponse is the body returned by POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Service wires the credential primitives together for the HTTP layer.
type Service struct {
	hasher   security.PasswordHasher
	codec    *security.TokenCodec
	verifier *security.CredentialVerifier
	sessions *security.SessionAuthenticator
	ttl      time.Duration
}

func NewService(cfg Config, users security.UserFinder) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	codec, err := security.NewTokenCodec([]byte(cfg.SecretKey), cfg.Algorithm, cfg.Issuer)
	if err != nil {
		return nil, err
	}
	hasher := security.BcryptHasher{Cost: cfg.BcryptCost}
	verifier, err := security.NewCredentialVerifier(users, hasher)
	if err != nil {
		return nil, err
	}
	return &Service{
		hasher:   hasher,
		codec:    codec,
		verifier: verifier,
		sessions: security.NewSessionAuthenticator(codec, users),
		ttl:      cfg.AccessTokenTTL,
	}, nil
}

// Hasher exposes the configured password hasher for account creation.
func (s *Service) Hasher() security.PasswordHasher { return s.hasher }

// Codec exposes the token codec.
func (s *Service) Codec() *security.TokenCodec { return s.codec }

// Login checks credentials and issues an access token for the user.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	u, err := s.verifier.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	token, _, err := s.codec.Issue(u.Username, s.ttl)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer", ExpiresIn: int(s.ttl.Seconds())}, nil
}

// Authorize resolves a bearer token to an active user.
func (s *Service) Authorize(ctx context.Context, bearer string) (*entity.User, error) {
	return s.sessions.Authorize(ctx, bearer)
}
