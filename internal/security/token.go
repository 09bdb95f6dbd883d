package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

// Token verification failures. Callers may tell them apart for logging; the
// HTTP layer collapses all of them into one response.
var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenMalformed   = errors.New("token is malformed")
)

var (
	ErrInvalidTTL     = errors.New("token ttl must be at least one second")
	ErrEmptySubject   = errors.New("token subject is empty")
	ErrEmptySecret    = errors.New("signing secret is empty")
	ErrUnsupportedAlg = errors.New("unsupported signing algorithm")
)

// DefaultSigningAlg is used when no algorithm is configured.
const DefaultSigningAlg = "HS256"

var supportedSigningAlg = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// Claims is the payload carried by an access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
	ID        string
}

// TokenCodec issues and verifies HMAC-signed JWTs. The secret and algorithm
// are fixed at construction; a codec is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	issuer string
	parser *jwt.Parser

	// Now is the clock used for iat/exp and expiry checks.
	Now func() time.Time
}

// NewTokenCodec builds a codec for the given secret and HMAC algorithm name
// (HS256, HS384 or HS512; empty means HS256). A non-empty issuer is stamped
// into tokens and required on verification.
func NewTokenCodec(secret []byte, alg, issuer string) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if alg == "" {
		alg = DefaultSigningAlg
	}
	method, ok := supportedSigningAlg[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, alg)
	}

	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		method: method,
		issuer: issuer,
		Now:    time.Now,
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return c.Now() }),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	c.parser = jwt.NewParser(opts...)
	return c, nil
}

// Algorithm returns the JWS algorithm identifier in use.
func (c *TokenCodec) Algorithm() string { return c.method.Alg() }

// Issue signs a token for subject that expires ttl from now.
func (c *TokenCodec) Issue(subject string, ttl time.Duration) (string, Claims, error) {
	if subject == "" {
		return "", Claims{}, ErrEmptySubject
	}
	if ttl < time.Second {
		return "", Claims{}, ErrInvalidTTL
	}
	now := c.Now()
	rc := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        utilities.NewKSUID(),
	}
	signed, err := jwt.NewWithClaims(c.method, rc).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claimsFrom(&rc), nil
}

// Verify checks the signature over the whole token before trusting any
// claim, then expiry, then the presence of a subject.
func (c *TokenCodec) Verify(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, err := c.parser.ParseWithClaims(token, &rc, c.key); err != nil {
		return Claims{}, c.classify(token, err)
	}
	if rc.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}
	return claimsFrom(&rc), nil
}

func (c *TokenCodec) key(t *jwt.Token) (any, error) {
	if t.Method.Alg() != c.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return c.secret, nil
}

func (c *TokenCodec) classify(token string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		// Header and payload decode fine, so the damage is in the signature segment.
		if _, _, uerr := c.parser.ParseUnverified(token, &jwt.RegisteredClaims{}); uerr == nil {
			return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
}

func claimsFrom(rc *jwt.RegisteredClaims) Claims {
	out := Claims{Subject: rc.Subject, ID: rc.ID}
	if rc.ExpiresAt != nil {
		out.ExpiresAt = rc.ExpiresAt.Time
	}
	if rc.IssuedAt != nil {
		out.IssuedAt = rc.IssuedAt.Time
	}
	return out
}
