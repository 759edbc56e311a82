package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/pkg/apperror"
	"github.com/dentiq/dentiq-api/pkg/utils"
)

// AuthService handles staff authentication
type AuthService struct {
	dentistRepo repository.DentistRepository
	jwtManager  *utils.JWTManager
	logger      zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(dentistRepo repository.DentistRepository, jwtManager *utils.JWTManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		dentistRepo: dentistRepo,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

// AuthTokens represents an issued token pair
type AuthTokens struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         *entity.Dentist `json:"user"`
}

// Login authenticates a staff member and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	dentist, err := s.dentistRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if dentist == nil {
		return nil, apperror.NewUnauthorizedError("Invalid email or password")
	}
	if !dentist.IsActive {
		return nil, apperror.NewUnauthorizedError("Account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dentist.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("failed login attempt")
		return nil, apperror.NewUnauthorizedError("Invalid email or password")
	}

	return s.issueTokens(dentist)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.NewUnauthorizedError("Invalid refresh token")
	}

	dentist, err := s.dentistRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if dentist == nil || !dentist.IsActive {
		return nil, apperror.NewUnauthorizedError("Account is no longer active")
	}

	return s.issueTokens(dentist)
}

func (s *AuthService) issueTokens(dentist *entity.Dentist) (*AuthTokens, error) {
	access, err := s.jwtManager.GenerateAccessToken(dentist.ID, dentist.Email, dentist.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(dentist.ID)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dentist,
	}, nil
}
