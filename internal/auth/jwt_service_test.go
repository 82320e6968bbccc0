package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *JWTService {
	return NewJWTService(TokenConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "holidaytracker"})
}

func TestJWTService_RoundTrip(t *testing.T) {
	s := newTestJWT()

	token, err := s.Issue(42, "u1@example.com")
	require.NoError(t, err)

	claims, ok := s.Verify(token)
	require.True(t, ok)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, "holidaytracker", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	s := newTestJWT()
	fixed := time.Now()
	s.now = func() time.Time { return fixed }

	a, err := s.Issue(1, "a@example.com")
	require.NoError(t, err)
	b, err := s.Issue(1, "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTService_DefaultTTL(t *testing.T) {
	s := NewJWTService(TokenConfig{Secret: "x"})
	assert.Equal(t, DefaultTokenTTL, s.TTL())
}

func TestJWTService_RejectsExpired(t *testing.T) {
	s := newTestJWT()
	issued := time.Now()
	s.now = func() time.Time { return issued }
	token, err := s.Issue(1, "a@example.com")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(time.Hour + time.Minute) }
	_, ok := s.Verify(token)
	assert.False(t, ok)
}

func TestJWTService_RejectsTampering(t *testing.T) {
	s := newTestJWT()
	token, err := s.Issue(1, "a@example.com")
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	flip := func(r byte) byte {
		if r == 'A' {
			return 'B'
		}
		return 'A'
	}
	sig := []byte(parts[2])
	sig[0] = flip(sig[0])

	otherPayload, err := NewJWTService(TokenConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "holidaytracker"}).Issue(2, "b@example.com")
	require.NoError(t, err)

	cases := map[string]string{
		"empty":            "",
		"garbage":          "not-a-token",
		"truncated":        token[:len(token)-5],
		"missing part":     parts[0] + "." + parts[1],
		"mutated sig":      parts[0] + "." + parts[1] + "." + string(sig),
		"swapped payload":  parts[0] + "." + strings.Split(otherPayload, ".")[1] + "." + parts[2],
		"trailing garbage": token + "x",
	}
	for name, tampered := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := s.Verify(tampered)
			assert.False(t, ok)
		})
	}
}

func TestJWTService_RejectsForeignSecretIssuerAndAlgorithm(t *testing.T) {
	s := newTestJWT()

	foreign, err := NewJWTService(TokenConfig{Secret: "other", TTL: time.Hour, Issuer: "holidaytracker"}).Issue(1, "a@example.com")
	require.NoError(t, err)
	_, ok := s.Verify(foreign)
	assert.False(t, ok, "different secret")

	otherIssuer, err := NewJWTService(TokenConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "someone-else"}).Issue(1, "a@example.com")
	require.NoError(t, err)
	_, ok = s.Verify(otherIssuer)
	assert.False(t, ok, "different issuer")

	claims := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "holidaytracker",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok = s.Verify(none)
	assert.False(t, ok, "alg none")

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, ok = s.Verify(hs512)
	assert.False(t, ok, "unexpected HMAC variant")

	noExp := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: "holidaytracker"}}
	forever, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, ok = s.Verify(forever)
	assert.False(t, ok, "missing exp")
}

func TestJWTService_Extract(t *testing.T) {
	s := newTestJWT()
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"  BEARER   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer    ", "", false},
		{"abc.def.ghi", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := s.Extract(tt.header)
		assert.Equalf(t, tt.ok, ok, "header %q", tt.header)
		assert.Equalf(t, tt.want, got, "header %q", tt.header)
	}
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: 3, Email: "c@example.com"})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(3), id.UserID)

	_, ok = IdentityFrom(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok)
}
