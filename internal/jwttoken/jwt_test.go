package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key", "openbadges")

	token, err := svc.GenerateAccessToken(domain.Identity("acme-corp"), time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.IdentityFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity("acme-corp"), identity)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewService("test-signing-key", "openbadges")

	token, err := svc.GenerateAccessToken(domain.Identity("acme-corp"), -time.Minute)
	require.NoError(t, err)

	_, err = svc.IdentityFromToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestWrongKeyRejected(t *testing.T) {
	minter := NewService("key-one", "openbadges")
	verifier := NewService("key-two", "openbadges")

	token, err := minter.GenerateAccessToken(domain.Identity("acme-corp"), time.Hour)
	require.NoError(t, err)

	_, err = verifier.IdentityFromToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewService("test-signing-key", "openbadges")

	_, err := svc.IdentityFromToken("not.a.jwt")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
