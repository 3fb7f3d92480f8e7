package authenticator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaims(t *testing.T) {
	id, err := IdentityFromClaims("google", Claims{
		"sub":            "10987",
		"email":          " Officer@Lab.Test ",
		"email_verified": true,
		"name":           "Field Officer",
	})
	require.NoError(t, err)
	assert.Equal(t, Identity{Provider: "google", Subject: "10987", Email: "officer@lab.test", Name: "Field Officer"}, *id)
}

func TestIdentityFromClaimsFallbackName(t *testing.T) {
	id, err := IdentityFromClaims("oidc", Claims{"sub": "1", "email": "archivist@lab.test"})
	require.NoError(t, err)
	assert.Equal(t, "archivist", id.Name)

	id, err = IdentityFromClaims("oidc", Claims{"sub": "1", "email": "a@lab.test", "nickname": "arc"})
	require.NoError(t, err)
	assert.Equal(t, "arc", id.Name)
}

func TestIdentityFromClaimsRejects(t *testing.T) {
	_, err := IdentityFromClaims("oidc", Claims{"email": "a@lab.test"})
	assert.Error(t, err)

	_, err = IdentityFromClaims("oidc", Claims{"sub": "1"})
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = IdentityFromClaims("oidc", Claims{"sub": "1", "email": "a@lab.test", "email_verified": false})
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestNewOpenIDProviderValidatesConfig(t *testing.T) {
	_, err := NewOpenIDProvider(context.Background(), OpenIDConfig{ClientID: "id", ClientSecret: "s", CallbackURL: "http://cb"})
	assert.EqualError(t, err, "issuer URL is required")

	_, err = NewOpenIDProvider(context.Background(), OpenIDConfig{IssuerURL: "https://issuer", ClientSecret: "s", CallbackURL: "http://cb"})
	assert.EqualError(t, err, "client ID is required")
}
