package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portersclub/members-api/internal/models"
	pkgauth "github.com/portersclub/members-api/pkg/auth"
)

func newAuthService(admins AdminRepository, resets PasswordResetRepository, tokens TokenManager) *AuthService {
	return NewAuthService(admins, resets, tokens, time.Hour, slog.Default())
}

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("correct-horse")
	require.NoError(t, err)

	admin := NewTestAdmin(1, "admin", hash)

	mockAdmins := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return admin, nil
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	token, user, err := svc.Login(context.Background(), "admin", "correct-horse")

	assert.NoError(t, err)
	assert.Equal(t, "token_for_admin", token)
	assert.Equal(t, int64(1), user.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("correct-horse")
	require.NoError(t, err)

	mockAdmins := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return NewTestAdmin(1, "admin", hash), nil
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	token, user, err := svc.Login(context.Background(), "admin", "wrong")

	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.Equal(t, models.ErrInvalidCredentials, err)
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	mockAdmins := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	token, user, err := svc.Login(context.Background(), "ghost", "whatever")

	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.Equal(t, models.ErrInvalidCredentials, err)
}

// A wrong password and an unknown username must be indistinguishable to the
// caller.
func TestAuthService_Login_FailureShapeIsConstant(t *testing.T) {
	hash, err := pkgauth.HashPassword("correct-horse")
	require.NoError(t, err)

	knownUser := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return NewTestAdmin(1, "admin", hash), nil
		},
	}
	unknownUser := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return nil, models.ErrNotFound
		},
	}

	_, _, errWrongPassword := newAuthService(knownUser, &MockPasswordResetRepository{}, &MockTokenManager{}).
		Login(context.Background(), "admin", "wrong")
	_, _, errUnknownUser := newAuthService(unknownUser, &MockPasswordResetRepository{}, &MockTokenManager{}).
		Login(context.Background(), "ghost", "wrong")

	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
}

func TestAuthService_Login_DatabaseError(t *testing.T) {
	mockAdmins := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	_, _, err := svc.Login(context.Background(), "admin", "whatever")

	assert.Equal(t, models.ErrInternalServer, err)
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("old-password")
	require.NoError(t, err)

	var savedHash string
	mockAdmins := &MockAdminRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return NewTestAdmin(1, "admin", hash), nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id int64, passwordHash string) error {
			savedHash = passwordHash
			return nil
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	err = svc.ChangePassword(context.Background(), 1, "old-password", "new-password")

	assert.NoError(t, err)
	require.NotEmpty(t, savedHash)
	assert.NoError(t, pkgauth.ComparePassword(savedHash, "new-password"))
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("old-password")
	require.NoError(t, err)

	mockAdmins := &MockAdminRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Admin, error) {
			return NewTestAdmin(1, "admin", hash), nil
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	err = svc.ChangePassword(context.Background(), 1, "not-the-old-one", "new-password")

	assert.Equal(t, models.ErrPasswordMismatch, err)
}

func TestAuthService_ChangePassword_TooShort(t *testing.T) {
	updateCalled := false
	mockAdmins := &MockAdminRepository{
		UpdatePasswordFunc: func(ctx context.Context, id int64, passwordHash string) error {
			updateCalled = true
			return nil
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	err := svc.ChangePassword(context.Background(), 1, "old-password", "short")

	assert.Error(t, err)
	assert.False(t, updateCalled)
}

func TestAuthService_RequestPasswordReset_Success(t *testing.T) {
	var invalidatedUsername string
	var createdToken string

	mockAdmins := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return NewTestAdmin(1, "admin", "hash"), nil
		},
	}
	mockResets := &MockPasswordResetRepository{
		DeleteByUsernameFunc: func(ctx context.Context, username string) error {
			invalidatedUsername = username
			return nil
		},
		CreateFunc: func(ctx context.Context, username, token string, expiresAt time.Time) (*models.PasswordReset, error) {
			createdToken = token
			return &models.PasswordReset{ID: 1, Username: username, Token: token, ExpiresAt: expiresAt}, nil
		},
	}

	svc := newAuthService(mockAdmins, mockResets, &MockTokenManager{})

	reset, err := svc.RequestPasswordReset(context.Background(), "admin")

	assert.NoError(t, err)
	assert.Equal(t, "admin", invalidatedUsername)
	// 32 random bytes, hex encoded
	assert.Len(t, createdToken, 64)
	assert.Equal(t, createdToken, reset.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), reset.ExpiresAt, time.Minute)
}

func TestAuthService_RequestPasswordReset_UnknownUsername(t *testing.T) {
	svc := newAuthService(&MockAdminRepository{}, &MockPasswordResetRepository{}, &MockTokenManager{})

	reset, err := svc.RequestPasswordReset(context.Background(), "ghost")

	assert.Nil(t, reset)
	assert.Equal(t, models.ErrNotFound, err)
}

func TestAuthService_VerifyResetToken_Valid(t *testing.T) {
	mockResets := &MockPasswordResetRepository{
		GetByTokenFunc: func(ctx context.Context, token string) (*models.PasswordReset, error) {
			return NewTestPasswordReset("admin", token), nil
		},
	}

	svc := newAuthService(&MockAdminRepository{}, mockResets, &MockTokenManager{})

	reset, err := svc.VerifyResetToken(context.Background(), "abc123")

	assert.NoError(t, err)
	assert.Equal(t, "admin", reset.Username)
}

func TestAuthService_VerifyResetToken_MissingOrExpired(t *testing.T) {
	svc := newAuthService(&MockAdminRepository{}, &MockPasswordResetRepository{}, &MockTokenManager{})

	reset, err := svc.VerifyResetToken(context.Background(), "gone")

	assert.Nil(t, reset)
	assert.Equal(t, models.ErrResetTokenInvalid, err)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("old-password")
	require.NoError(t, err)

	var savedHash string
	var consumedToken string

	mockAdmins := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return NewTestAdmin(1, "admin", hash), nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id int64, passwordHash string) error {
			savedHash = passwordHash
			return nil
		},
	}
	mockResets := &MockPasswordResetRepository{
		GetByTokenFunc: func(ctx context.Context, token string) (*models.PasswordReset, error) {
			return NewTestPasswordReset("admin", token), nil
		},
		DeleteByTokenFunc: func(ctx context.Context, token string) error {
			consumedToken = token
			return nil
		},
	}

	svc := newAuthService(mockAdmins, mockResets, &MockTokenManager{})

	err = svc.ResetPassword(context.Background(), "abc123", "new-password")

	assert.NoError(t, err)
	assert.Equal(t, "abc123", consumedToken)
	assert.NoError(t, pkgauth.ComparePassword(savedHash, "new-password"))
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	updateCalled := false
	mockAdmins := &MockAdminRepository{
		UpdatePasswordFunc: func(ctx context.Context, id int64, passwordHash string) error {
			updateCalled = true
			return nil
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	err := svc.ResetPassword(context.Background(), "gone", "new-password")

	assert.Equal(t, models.ErrResetTokenInvalid, err)
	assert.False(t, updateCalled)
}

func TestAuthService_ResetPassword_TooShort(t *testing.T) {
	lookupCalled := false
	mockResets := &MockPasswordResetRepository{
		GetByTokenFunc: func(ctx context.Context, token string) (*models.PasswordReset, error) {
			lookupCalled = true
			return NewTestPasswordReset("admin", token), nil
		},
	}

	svc := newAuthService(&MockAdminRepository{}, mockResets, &MockTokenManager{})

	err := svc.ResetPassword(context.Background(), "abc123", "short")

	assert.Error(t, err)
	assert.False(t, lookupCalled)
}

func TestAuthService_EnsureAdmin_CreatesWhenMissing(t *testing.T) {
	var created *models.Admin
	mockAdmins := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
			admin.ID = 1
			created = admin
			return admin, nil
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	err := svc.EnsureAdmin(context.Background(), "admin", "admin123", "admin@example.com")

	assert.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "admin", created.Username)
	assert.Equal(t, "admin", created.Role)
	assert.NoError(t, pkgauth.ComparePassword(created.PasswordHash, "admin123"))
}

func TestAuthService_EnsureAdmin_SkipsWhenPresent(t *testing.T) {
	createCalled := false
	mockAdmins := &MockAdminRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.Admin, error) {
			return NewTestAdmin(1, "admin", "hash"), nil
		},
		CreateFunc: func(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
			createCalled = true
			return admin, nil
		},
	}

	svc := newAuthService(mockAdmins, &MockPasswordResetRepository{}, &MockTokenManager{})

	err := svc.EnsureAdmin(context.Background(), "admin", "admin123", "")

	assert.NoError(t, err)
	assert.False(t, createCalled)
}
