package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver validates HS256 access tokens issued by Issuer
type JWTResolver struct {
	secret     []byte
	allowQuery bool
}

// NewJWTResolver returns a resolver for cookie and Bearer credentials
func NewJWTResolver(secret []byte) *JWTResolver {
	return &JWTResolver{secret: secret}
}

// WithQueryToken also accepts ?token=, used by the websocket upgrade where browsers cannot set headers
func (r *JWTResolver) WithQueryToken() *JWTResolver {
	return &JWTResolver{secret: r.secret, allowQuery: true}
}

func (r *JWTResolver) Resolve(req *http.Request) (*Session, error) {
	tokenString := tokenFromRequest(req, r.allowQuery)
	if tokenString == "" {
		return nil, ErrNoSession
	}
	return r.parse(tokenString)
}

func (r *JWTResolver) parse(tokenString string) (*Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if c.Email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrNoSession)
	}

	s := &Session{Email: c.Email, Role: c.Role}
	if id, err := strconv.ParseUint(c.Subject, 10, 64); err == nil {
		s.UserID = uint(id)
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}

// Issuer signs access tokens and mints opaque refresh tokens
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

// AccessToken signs a token for the given identity
func (i *Issuer) AccessToken(userID uint, email, role string) (string, time.Time, error) {
	if email == "" {
		return "", time.Time{}, errors.New("email is required")
	}
	now := i.now()
	exp := now.Add(i.accessTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// RefreshToken returns a random token and its expiry
func (i *Issuer) RefreshToken() (string, time.Time) {
	return uuid.NewString(), i.now().Add(i.refreshTTL)
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }
