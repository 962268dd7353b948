package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/mams/internal/apperrors"
	"example.com/mams/internal/auth"
	"example.com/mams/internal/models"
)

// Mock user getter for testing
type MockUserGetter struct {
	mock.Mock
}

func (m *MockUserGetter) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func seededUser(t *testing.T, role string, baseID *uuid.UUID) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        "user@mams.com",
		PasswordHash: hash,
		Role:         role,
		BaseID:       baseID,
	}
}

func TestLoginIssuesTokenWithClaims(t *testing.T) {
	baseID := uuid.New()
	user := seededUser(t, models.RoleCommander, &baseID)
	users := new(MockUserGetter)
	users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	service := NewAuthService(users, "test-secret", time.Hour)

	token, loggedIn, err := service.Login(context.Background(), user.Email, "password123")

	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	claims, err := auth.ValidateToken("test-secret", token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, models.RoleCommander, claims.Role)
	require.Equal(t, baseID, *claims.BaseID)
}

func TestLoginWrongPasswordUnauthenticated(t *testing.T) {
	user := seededUser(t, models.RoleAdmin, nil)
	users := new(MockUserGetter)
	users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	service := NewAuthService(users, "test-secret", time.Hour)

	_, _, err := service.Login(context.Background(), user.Email, "wrong-password")

	require.Error(t, err)
	require.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	users := new(MockUserGetter)
	users.On("GetByEmail", mock.Anything, "nobody@mams.com").Return(nil, errors.New("record not found"))

	service := NewAuthService(users, "test-secret", time.Hour)

	_, _, err := service.Login(context.Background(), "nobody@mams.com", "password123")

	require.Error(t, err)
	require.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
	require.Equal(t, "invalid credentials", apperrors.MessageOf(err))
}
