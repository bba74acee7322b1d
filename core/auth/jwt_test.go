package auth_test

import (
	"context"
	"testing"

	"spoty/core/auth"

	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueParseRoundTrip(t *testing.T) {
	m := auth.NewTokenManager("test-secret", nil)

	token, err := m.Issue("u1", "alice@example.com", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "Alice", claims.Name)
	require.NotEmpty(t, claims.ID)
}

func TestTokenManager_ParseRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewTokenManager("secret-a", nil).Issue("u1", "alice@example.com", "")
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret-b", nil).Parse(context.Background(), token)
	require.Error(t, err)
}

func TestTokenManager_ParseRejectsGarbage(t *testing.T) {
	m := auth.NewTokenManager("test-secret", nil)
	_, err := m.Parse(context.Background(), "not-a-token")
	require.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.True(t, auth.VerifyPassword("s3cret", hash))
	require.False(t, auth.VerifyPassword("wrong", hash))
}
