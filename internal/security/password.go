package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the bcrypt input bound; longer passwords are rejected
// rather than silently truncated.
const MaxPasswordLength = 72

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	if len(pw) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify compares in constant time; malformed hashes simply do not match.
func (b BcryptHasher) Verify(hash, pw string) bool {
	if len(pw) > MaxPasswordLength {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
