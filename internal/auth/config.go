package auth

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/security"
)

// Config is the process-wide credential configuration, read once at startup.
type Config struct {
	SecretKey      string
	Algorithm      string
	Issuer         string
	AccessTokenTTL time.Duration
	BcryptCost     int
}

const (
	defaultAccessTokenMinutes = 30
	defaultBcryptCost         = 12
)

var ErrMissingSecret = errors.New("SECRET_KEY is not set")

// ConfigFromEnv reads auth config from environment variables.
func ConfigFromEnv() Config {
	minutes := defaultAccessTokenMinutes
	if v, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES")); err == nil && v > 0 {
		minutes = v
	}
	cost := defaultBcryptCost
	if v, err := strconv.Atoi(os.Getenv("BCRYPT_COST")); err == nil && v > 0 {
		cost = v
	}
	alg := strings.ToUpper(strings.TrimSpace(os.Getenv("TOKEN_ALGORITHM")))
	if alg == "" {
		alg = security.DefaultSigningAlg
	}
	return Config{
		SecretKey:      os.Getenv("SECRET_KEY"),
		Algorithm:      alg,
		Issuer:         os.Getenv("TOKEN_ISSUER"),
		AccessTokenTTL: time.Duration(minutes) * time.Minute,
		BcryptCost:     cost,
	}
}

// Validate rejects configurations the service must not start with.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecret
	}
	if c.AccessTokenTTL < time.Second {
		return security.ErrInvalidTTL
	}
	return nil
}
