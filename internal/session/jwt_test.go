package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestIssueAndResolveBearer(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour, 24*time.Hour)
	token, exp, err := issuer.AccessToken(7, "officer@dna-archive.com", "Scientific Officer")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	s, err := NewJWTResolver(testSecret).Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, uint(7), s.UserID)
	assert.Equal(t, "officer@dna-archive.com", s.Email)
	assert.Equal(t, "Scientific Officer", s.Role)
}

func TestResolvePrefersCookie(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour, time.Hour)
	cookieToken, _, err := issuer.AccessToken(1, "cookie@example.com", "Admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer garbage")

	s, err := NewJWTResolver(testSecret).Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "cookie@example.com", s.Email)
}

func TestResolveAbsent(t *testing.T) {
	resolver := NewJWTResolver(testSecret)
	issuer := NewIssuer([]byte("other-secret"), time.Hour, time.Hour)
	foreign, _, err := issuer.AccessToken(1, "x@example.com", "Admin")
	require.NoError(t, err)

	expired := NewIssuer(testSecret, -time.Minute, time.Hour)
	stale, _, err := expired.AccessToken(1, "x@example.com", "Admin")
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"})
	unbounded, err := noExp.SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no credential", ""},
		{"wrong scheme", "Basic abc"},
		{"wrong signature", "Bearer " + foreign},
		{"expired", "Bearer " + stale},
		{"no expiry", "Bearer " + unbounded},
		{"malformed", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			s, err := resolver.Resolve(req)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestQueryTokenOnlyWhenAllowed(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour, time.Hour)
	token, _, err := issuer.AccessToken(3, "admin@dna-archive.com", "Admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws/audit?token="+token, nil)

	_, err = NewJWTResolver(testSecret).Resolve(req)
	assert.ErrorIs(t, err, ErrNoSession)

	s, err := NewJWTResolver(testSecret).WithQueryToken().Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "admin@dna-archive.com", s.Email)
}

func TestRefreshTokenIsRandom(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour, 48*time.Hour)
	a, expA := issuer.RefreshToken()
	b, _ := issuer.RefreshToken()
	assert.NotEqual(t, a, b)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), expA, 5*time.Second)
}
