// Package session turns a request credential into the caller's identity.
// It does not know about users or roles in the database; the access
// package resolves the returned email against the directory.
package session

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// ErrNoSession is the "absent" result: no credential or an invalid one.
var ErrNoSession = errors.New("session: no valid session")

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Session is the verified claim of identity carried by a request
type Session struct {
	UserID    uint
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Resolver obtains the caller's session from the request
type Resolver interface {
	Resolve(r *http.Request) (*Session, error)
}

// tokenFromRequest tries the cookie first, then the Authorization header, then the token query param
func tokenFromRequest(r *http.Request, allowQuery bool) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if allowQuery {
		return r.URL.Query().Get("token")
	}
	return ""
}
