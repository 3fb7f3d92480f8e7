// Package authenticator wraps the external OpenID Connect login provider.
package authenticator

import (
	"context"
	"errors"
	"strings"
)

// Claims represents user claims from the ID token
type Claims map[string]interface{}

// Identity is the part of the ID token the archive keeps
type Identity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// Provider abstracts OAuth provider operations
type Provider interface {
	Name() string
	GetAuthURL(state string) string
	// Authenticate exchanges the callback code and verifies the returned ID token
	Authenticate(ctx context.Context, code string) (*Identity, error)
}

var ErrMissingEmail = errors.New("id token has no verified email")

// IdentityFromClaims extracts subject, email and display name. Emails the
// provider marks as unverified are rejected.
func IdentityFromClaims(provider string, claims Claims) (*Identity, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("id token has no subject")
	}

	email, _ := claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrMissingEmail
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, ErrMissingEmail
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name, _ = claims["nickname"].(string)
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	return &Identity{Provider: provider, Subject: sub, Email: email, Name: name}, nil
}
