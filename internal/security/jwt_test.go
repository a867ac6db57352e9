package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager, err := NewJWTManager("test-secret", time.Hour, "storefront")
	require.NoError(t, err)

	token, err := manager.Generate("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager, err := NewJWTManager("test-secret", -time.Minute, "storefront")
	require.NoError(t, err)

	token, err := manager.Generate("user-42")
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewJWTManager("secret-a", time.Hour, "storefront")
	require.NoError(t, err)
	verifier, err := NewJWTManager("secret-b", time.Hour, "storefront")
	require.NoError(t, err)

	token, err := issuer.Generate("user-42")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	manager, err := NewJWTManager("test-secret", time.Hour, "storefront")
	require.NoError(t, err)

	_, err = manager.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	_, err := NewJWTManager("", time.Hour, "storefront")
	assert.Error(t, err)
}
