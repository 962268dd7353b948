package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/mams/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	baseID := uuid.New()

	token, err := GenerateToken("test-secret", userID, models.RoleCommander, &baseID, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken("test-secret", token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, models.RoleCommander, claims.Role)
	require.NotNil(t, claims.BaseID)
	require.Equal(t, baseID, *claims.BaseID)
}

func TestTokenWithoutBase(t *testing.T) {
	token, err := GenerateToken("test-secret", uuid.New(), models.RoleAdmin, nil, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken("test-secret", token)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, claims.Role)
	require.Nil(t, claims.BaseID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken("test-secret", uuid.New(), models.RoleAdmin, nil, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	require.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("test-secret", uuid.New(), models.RoleAdmin, nil, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("test-secret", token)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ValidateToken("test-secret", "not-a-token")
	require.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	require.True(t, CheckPassword(hash, "password123"))
	require.False(t, CheckPassword(hash, "wrong-password"))
}
