package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/pkg/apperror"
	"github.com/dentiq/dentiq-api/pkg/utils"
)

func newAuthFixture(t *testing.T, password string, active bool) (*AuthService, *entity.Dentist) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	dentist := &entity.Dentist{
		ID:           uuid.New(),
		FirstName:    "Grace",
		LastName:     "Otieno",
		Email:        "grace@clinic.test",
		PasswordHash: string(hash),
		Role:         entity.RoleDentist,
		IsActive:     active,
	}

	repo := newFakeDentistRepo()
	repo.dentists[dentist.ID] = dentist

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repo, jwtManager, zerolog.Nop()), dentist
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials issue tokens", func(t *testing.T) {
		svc, dentist := newAuthFixture(t, "hunter22", true)

		tokens, err := svc.Login(context.Background(), dentist.Email, "hunter22")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" {
			t.Error("empty token pair")
		}
		if tokens.User.ID != dentist.ID {
			t.Errorf("user = %v, want %v", tokens.User.ID, dentist.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, dentist := newAuthFixture(t, "hunter22", true)

		_, err := svc.Login(context.Background(), dentist.Email, "wrong")
		if appErr := apperror.GetAppError(err); appErr.Code != 401 {
			t.Errorf("code = %d, want 401", appErr.Code)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newAuthFixture(t, "hunter22", true)

		_, err := svc.Login(context.Background(), "nobody@clinic.test", "hunter22")
		if appErr := apperror.GetAppError(err); appErr.Code != 401 {
			t.Errorf("code = %d, want 401", appErr.Code)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		svc, dentist := newAuthFixture(t, "hunter22", false)

		_, err := svc.Login(context.Background(), dentist.Email, "hunter22")
		if appErr := apperror.GetAppError(err); appErr.Code != 401 {
			t.Errorf("code = %d, want 401", appErr.Code)
		}
	})
}

func TestRefresh(t *testing.T) {
	svc, dentist := newAuthFixture(t, "hunter22", true)

	tokens, err := svc.Login(context.Background(), dentist.Email, "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("empty access token after refresh")
	}

	if _, err := svc.Refresh(context.Background(), "not-a-token"); err == nil {
		t.Error("expected error for garbage refresh token")
	}
}
