package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/portersclub/members-api/internal/models"
	pkgauth "github.com/portersclub/members-api/pkg/auth"
)

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// PasswordResetRepository defines the interface for reset token storage
type PasswordResetRepository interface {
	Create(ctx context.Context, username, token string, expiresAt time.Time) (*models.PasswordReset, error)
	GetByToken(ctx context.Context, token string) (*models.PasswordReset, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUsername(ctx context.Context, username string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenManager issues and validates bearer tokens
type TokenManager interface {
	Generate(admin *models.Admin) (string, error)
	Validate(tokenString string) (*models.TokenClaims, error)
}

// AuthService handles admin authentication and password management
type AuthService struct {
	admins           AdminRepository
	resets           PasswordResetRepository
	tokens           TokenManager
	resetTokenExpiry time.Duration
	logger           *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(admins AdminRepository, resets PasswordResetRepository, tokens TokenManager, resetTokenExpiry time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		admins:           admins,
		resets:           resets,
		tokens:           tokens,
		resetTokenExpiry: resetTokenExpiry,
		logger:           logger,
	}
}

// Login verifies credentials and issues a bearer token. An unknown username
// and a wrong password both return ErrInvalidCredentials so the response
// never reveals which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: unknown username", slog.String("username", username))
			return "", nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up admin", slog.String("username", username), slog.Any("error", err))
		return "", nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(admin.PasswordHash, password); err != nil {
		s.logger.Info("login failed: wrong password", slog.String("username", username))
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(admin)
	if err != nil {
		s.logger.Error("failed to generate token", slog.Int64("admin_id", admin.ID), slog.Any("error", err))
		return "", nil, models.ErrInternalServer
	}

	s.logger.Info("admin logged in", slog.Int64("admin_id", admin.ID), slog.String("username", admin.Username))
	return token, admin, nil
}

// ChangePassword verifies the current password before setting a new one
func (s *AuthService) ChangePassword(ctx context.Context, adminID int64, currentPassword, newPassword string) error {
	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return err
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUnauthorized
		}
		s.logger.Error("failed to get admin", slog.Int64("admin_id", adminID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(admin.PasswordHash, currentPassword); err != nil {
		s.logger.Info("change password failed: wrong current password", slog.Int64("admin_id", adminID))
		return models.ErrPasswordMismatch
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.admins.UpdatePassword(ctx, adminID, hash); err != nil {
		s.logger.Error("failed to update password", slog.Int64("admin_id", adminID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("admin changed password", slog.Int64("admin_id", adminID))
	return nil
}

// RequestPasswordReset issues a reset token for a username. Any outstanding
// tokens for the username are replaced, so at most one token is live at a
// time. Expired tokens across all usernames are swept opportunistically.
func (s *AuthService) RequestPasswordReset(ctx context.Context, username string) (*models.PasswordReset, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("password reset requested for unknown username", slog.String("username", username))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to look up admin", slog.String("username", username), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if removed, err := s.resets.DeleteExpired(ctx); err != nil {
		s.logger.Error("failed to sweep expired reset tokens", slog.Any("error", err))
	} else if removed > 0 {
		s.logger.Info("swept expired reset tokens", slog.Int64("count", removed))
	}

	if err := s.resets.DeleteByUsername(ctx, admin.Username); err != nil {
		s.logger.Error("failed to invalidate previous reset tokens", slog.String("username", admin.Username), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := pkgauth.GenerateResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	reset, err := s.resets.Create(ctx, admin.Username, token, time.Now().Add(s.resetTokenExpiry))
	if err != nil {
		s.logger.Error("failed to store reset token", slog.String("username", admin.Username), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("password reset token issued", slog.String("username", admin.Username))
	return reset, nil
}

// VerifyResetToken checks that a token exists and has not expired
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	reset, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrResetTokenInvalid
		}
		s.logger.Error("failed to look up reset token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return reset, nil
}

// ResetPassword consumes a reset token and sets the admin's new password.
// The token is deleted on success so it cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return err
	}

	reset, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return err
	}

	admin, err := s.admins.GetByUsername(ctx, reset.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// The admin was removed after the token was issued.
			return models.ErrResetTokenInvalid
		}
		s.logger.Error("failed to look up admin", slog.String("username", reset.Username), slog.Any("error", err))
		return models.ErrInternalServer
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		s.logger.Error("failed to update password", slog.Int64("admin_id", admin.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.resets.DeleteByToken(ctx, token); err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to consume reset token", slog.Any("error", err))
	}

	s.logger.Info("password reset completed", slog.Int64("admin_id", admin.ID), slog.String("username", admin.Username))
	return nil
}

// EnsureAdmin creates the bootstrap admin account if the username does not
// already exist. Called once at startup.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	_, err := s.admins.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return err
	}

	admin, err := s.admins.Create(ctx, &models.Admin{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         "admin",
	})
	if err != nil {
		return err
	}

	s.logger.Info("bootstrap admin created", slog.Int64("admin_id", admin.ID), slog.String("username", admin.Username))
	return nil
}
