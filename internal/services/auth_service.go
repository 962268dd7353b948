package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/mams/internal/apperrors"
	"example.com/mams/internal/auth"
	"example.com/mams/internal/models"
)

// UserGetter looks up users for authentication
type UserGetter interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService handles login
type AuthService struct {
	users       UserGetter
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users UserGetter, jwtSecret string, tokenExpiry time.Duration) *AuthService {
	if tokenExpiry <= 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		users:       users,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// Login verifies credentials and issues a bearer token. Invalid
// credentials and unknown emails return the same Unauthenticated error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		log.Debug().Str("email", email).Msg("login failed, user lookup")
		return "", nil, apperrors.New(apperrors.KindUnauthenticated, "invalid credentials")
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		log.Debug().Str("email", email).Msg("login failed, password mismatch")
		return "", nil, apperrors.New(apperrors.KindUnauthenticated, "invalid credentials")
	}

	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Role, user.BaseID, s.tokenExpiry)
	if err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.KindUnavailable, "could not issue token")
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("User logged in")
	return token, user, nil
}
