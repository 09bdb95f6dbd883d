package security

import (
	"encoding/base64"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("test-secret-0123456789abcdef")
	testEpoch  = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
)

func newTestCodec(t *testing.T, now time.Time) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec(testSecret, "", "")
	require.NoError(t, err)
	c.Now = func() time.Time { return now }
	return c
}

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestNewTokenCodec(t *testing.T) {
	_, err := NewTokenCodec(nil, "", "")
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewTokenCodec(testSecret, "RS256", "")
	assert.ErrorIs(t, err, ErrUnsupportedAlg)

	_, err = NewTokenCodec(testSecret, "none", "")
	assert.ErrorIs(t, err, ErrUnsupportedAlg)

	c, err := NewTokenCodec(testSecret, "", "")
	require.NoError(t, err)
	assert.Equal(t, "HS256", c.Algorithm())

	c, err = NewTokenCodec(testSecret, "HS512", "")
	require.NoError(t, err)
	assert.Equal(t, "HS512", c.Algorithm())
}

func TestTokenCodec_IssueVerify(t *testing.T) {
	c := newTestCodec(t, testEpoch)

	tok, issued, err := c.Issue("alice", 30*time.Minute)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)
	assert.Equal(t, "alice", issued.Subject)
	assert.True(t, issued.ExpiresAt.Equal(testEpoch.Add(30*time.Minute)))
	assert.True(t, issued.IssuedAt.Equal(testEpoch))
	assert.NotEmpty(t, issued.ID)

	for _, offset := range []time.Duration{0, time.Minute, 29*time.Minute + 59*time.Second} {
		c.Now = func() time.Time { return testEpoch.Add(offset) }
		got, err := c.Verify(tok)
		require.NoError(t, err, "offset %s", offset)
		assert.Equal(t, "alice", got.Subject)
		assert.True(t, got.ExpiresAt.Equal(issued.ExpiresAt))
		assert.Equal(t, issued.ID, got.ID)
	}
}

func TestTokenCodec_SubjectPreservedExactly(t *testing.T) {
	c := newTestCodec(t, testEpoch)

	for _, sub := range []string{"a", "Alice", "alice ", "üser.name@example.org", `quote"and\slash`} {
		tok, _, err := c.Issue(sub, time.Minute)
		require.NoError(t, err)
		got, err := c.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, sub, got.Subject)
	}
}

func TestTokenCodec_UniqueIDs(t *testing.T) {
	c := newTestCodec(t, testEpoch)

	t1, c1, err := c.Issue("alice", time.Minute)
	require.NoError(t, err)
	t2, c2, err := c.Issue("alice", time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.NotEqual(t, t1, t2)
}

func TestTokenCodec_IssueRejectsBadInput(t *testing.T) {
	c := newTestCodec(t, testEpoch)

	_, _, err := c.Issue("", time.Minute)
	assert.ErrorIs(t, err, ErrEmptySubject)

	for _, ttl := range []time.Duration{0, -time.Minute, 500 * time.Millisecond} {
		_, _, err = c.Issue("alice", ttl)
		assert.ErrorIs(t, err, ErrInvalidTTL, "ttl %s", ttl)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	c := newTestCodec(t, testEpoch)
	tok, _, err := c.Issue("alice", 30*time.Minute)
	require.NoError(t, err)

	for _, offset := range []time.Duration{30*time.Minute + time.Second, 31 * time.Minute, 24 * time.Hour} {
		c.Now = func() time.Time { return testEpoch.Add(offset) }
		_, err := c.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenExpired, "offset %s", offset)
		assert.NotErrorIs(t, err, ErrInvalidSignature)
	}
}

func TestTokenCodec_SignatureTamper(t *testing.T) {
	c := newTestCodec(t, testEpoch)
	tok, _, err := c.Issue("alice", 30*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	sig := parts[2]
	for i := 0; i < len(sig); i++ {
		repl := byte('A')
		if sig[i] == 'A' {
			repl = 'B'
		}
		mutated := sig[:i] + string(repl) + sig[i+1:]
		forged := parts[0] + "." + parts[1] + "." + mutated

		claims, err := c.Verify(forged)
		require.ErrorIs(t, err, ErrInvalidSignature, "position %d", i)
		assert.Empty(t, claims.Subject)
	}
}

func TestTokenCodec_TamperedAndExpiredIsSignatureError(t *testing.T) {
	c := newTestCodec(t, testEpoch)
	tok, _, err := c.Issue("alice", time.Minute)
	require.NoError(t, err)

	c.Now = func() time.Time { return testEpoch.Add(time.Hour) }
	last := tok[len(tok)-5]
	repl := byte('A')
	if last == 'A' {
		repl = 'B'
	}
	forged := tok[:len(tok)-5] + string(repl) + tok[len(tok)-4:]

	_, err = c.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenCodec_PayloadForgery(t *testing.T) {
	c := newTestCodec(t, testEpoch)
	tok, _, err := c.Issue("alice", time.Minute)
	require.NoError(t, err)
	parts := strings.Split(tok, ".")

	// extend expiry and swap subject while keeping the original signature
	payload := `{"sub":"mallory","exp":` + "4102444800" + `}`
	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + parts[2]

	_, err = c.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	other, err := NewTokenCodec([]byte("another-secret"), "", "")
	require.NoError(t, err)
	other.Now = func() time.Time { return testEpoch }
	tok, _, err := other.Issue("alice", time.Minute)
	require.NoError(t, err)

	_, err = newTestCodec(t, testEpoch).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenCodec_AlgorithmConfusion(t *testing.T) {
	c := newTestCodec(t, testEpoch)
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(testEpoch.Add(time.Hour)),
	}

	none := signRaw(t, jwt.SigningMethodNone, claims, jwt.UnsafeAllowNoneSignatureType)
	_, err := c.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	hs512 := signRaw(t, jwt.SigningMethodHS512, claims, testSecret)
	_, err = c.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenCodec_Malformed(t *testing.T) {
	c := newTestCodec(t, testEpoch)

	for _, raw := range []string{"", "abc", "a.b", "not.a.jwt", "a.b.c.d", "..."} {
		_, err := c.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", raw)
	}
}

func TestTokenCodec_MissingClaims(t *testing.T) {
	c := newTestCodec(t, testEpoch)

	noSub := signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(testEpoch.Add(time.Hour)),
	}, testSecret)
	_, err := c.Verify(noSub)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	noExp := signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}, testSecret)
	_, err = c.Verify(noExp)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenCodec_Issuer(t *testing.T) {
	c, err := NewTokenCodec(testSecret, "HS256", "catalog")
	require.NoError(t, err)
	c.Now = func() time.Time { return testEpoch }

	tok, _, err := c.Issue("alice", time.Minute)
	require.NoError(t, err)
	_, err = c.Verify(tok)
	require.NoError(t, err)

	foreign := signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "elsewhere",
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(testEpoch.Add(time.Hour)),
	}, testSecret)
	_, err = c.Verify(foreign)
	assert.Error(t, err)
}

func TestTokenCodec_ConcurrentUse(t *testing.T) {
	c := newTestCodec(t, testEpoch)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, _, err := c.Issue("alice", time.Minute)
			if err != nil {
				errs <- err
				return
			}
			if _, err := c.Verify(tok); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
