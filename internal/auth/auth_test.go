package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		tm, err := NewTokenManager("test-secret", time.Hour)
		require.NoError(t, err)

		userID := uuid.NewString()
		token, expiresAt, err := tm.GenerateAccessToken(userID)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := tm.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "verhaal-server", claims.Issuer)
	})

	t.Run("Wrong secret is rejected", func(t *testing.T) {
		tm1, err := NewTokenManager("secret-one", time.Hour)
		require.NoError(t, err)
		tm2, err := NewTokenManager("secret-two", time.Hour)
		require.NoError(t, err)

		token, _, err := tm1.GenerateAccessToken(uuid.NewString())
		require.NoError(t, err)

		_, err = tm2.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		tm, err := NewTokenManager("test-secret", time.Hour)
		require.NoError(t, err)
		tm.accessTTL = -time.Minute

		token, _, err := tm.GenerateAccessToken(uuid.NewString())
		require.NoError(t, err)

		_, err = tm.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("Empty secret is rejected", func(t *testing.T) {
		_, err := NewTokenManager("", time.Hour)
		assert.Error(t, err)
	})

	t.Run("Garbage token is rejected", func(t *testing.T) {
		tm, err := NewTokenManager("test-secret", time.Hour)
		require.NoError(t, err)

		_, err = tm.ValidateAccessToken("not-a-token")
		assert.Error(t, err)
	})
}
