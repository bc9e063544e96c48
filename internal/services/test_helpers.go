package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/portersclub/members-api/internal/models"
)

// MockMemberRepository implements MemberRepository for testing
type MockMemberRepository struct {
	ListFunc            func(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error)
	GetByIDFunc         func(ctx context.Context, id int64) (*models.Member, error)
	GetTrashByIDFunc    func(ctx context.Context, id int64) (*models.Member, error)
	CreateFunc          func(ctx context.Context, member *models.Member) (*models.Member, error)
	UpdateFunc          func(ctx context.Context, id int64, member *models.Member) (*models.Member, error)
	SoftDeleteFunc      func(ctx context.Context, id int64) error
	RestoreFunc         func(ctx context.Context, id int64) error
	PermanentDeleteFunc func(ctx context.Context, id int64) error
	StatsFunc           func(ctx context.Context) (*models.MemberStats, error)
}

func (m *MockMemberRepository) List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Member{}, nil
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockMemberRepository) GetTrashByID(ctx context.Context, id int64) (*models.Member, error) {
	if m.GetTrashByIDFunc != nil {
		return m.GetTrashByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	return nil, models.ErrInternalServer
}

func (m *MockMemberRepository) Update(ctx context.Context, id int64, member *models.Member) (*models.Member, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, member)
	}
	return nil, models.ErrInternalServer
}

func (m *MockMemberRepository) SoftDelete(ctx context.Context, id int64) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberRepository) Restore(ctx context.Context, id int64) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberRepository) PermanentDelete(ctx context.Context, id int64) error {
	if m.PermanentDeleteFunc != nil {
		return m.PermanentDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberRepository) Stats(ctx context.Context) (*models.MemberStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.MemberStats{}, nil
}

// MockAdminRepository implements AdminRepository for testing
type MockAdminRepository struct {
	GetByIDFunc        func(ctx context.Context, id int64) (*models.Admin, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (*models.Admin, error)
	CreateFunc         func(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	UpdatePasswordFunc func(ctx context.Context, id int64, passwordHash string) error
}

func (m *MockAdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	return admin, nil
}

func (m *MockAdminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

// MockPasswordResetRepository implements PasswordResetRepository for testing
type MockPasswordResetRepository struct {
	CreateFunc           func(ctx context.Context, username, token string, expiresAt time.Time) (*models.PasswordReset, error)
	GetByTokenFunc       func(ctx context.Context, token string) (*models.PasswordReset, error)
	DeleteByTokenFunc    func(ctx context.Context, token string) error
	DeleteByUsernameFunc func(ctx context.Context, username string) error
	DeleteExpiredFunc    func(ctx context.Context) (int64, error)
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, username, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, username, token, expiresAt)
	}
	return &models.PasswordReset{ID: 1, Username: username, Token: token, ExpiresAt: expiresAt, CreatedAt: time.Now()}, nil
}

func (m *MockPasswordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	if m.GetByTokenFunc != nil {
		return m.GetByTokenFunc(ctx, token)
	}
	return nil, models.ErrNotFound
}

func (m *MockPasswordResetRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.DeleteByTokenFunc != nil {
		return m.DeleteByTokenFunc(ctx, token)
	}
	return nil
}

func (m *MockPasswordResetRepository) DeleteByUsername(ctx context.Context, username string) error {
	if m.DeleteByUsernameFunc != nil {
		return m.DeleteByUsernameFunc(ctx, username)
	}
	return nil
}

func (m *MockPasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

// MockTokenManager is a minimal mock for TokenManager
type MockTokenManager struct {
	GenerateFunc func(admin *models.Admin) (string, error)
	ValidateFunc func(tokenString string) (*models.TokenClaims, error)
}

func (m *MockTokenManager) Generate(admin *models.Admin) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(admin)
	}
	return "token_for_" + admin.Username, nil
}

func (m *MockTokenManager) Validate(tokenString string) (*models.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(tokenString)
	}
	now := time.Now()
	return &models.TokenClaims{
		AdminID:  1,
		Username: "admin",
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti_test",
			ExpiresAt: jwt.NewNumericDate(now.Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}, nil
}

// NewTestMember creates a member with sensible defaults
func NewTestMember(id int64, fullName string, age int) *models.Member {
	now := time.Now()
	return &models.Member{
		ID:            id,
		FullName:      fullName,
		Age:           &age,
		DOB:           now.AddDate(-age, 0, 0),
		Residence:     "Accra",
		PhoneNumber:   "+233200000000",
		MaritalStatus: models.MaritalSingle,
		JoiningDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewTestTrashMember creates a member carrying a deletion timestamp
func NewTestTrashMember(id int64, fullName string, age int) *models.Member {
	member := NewTestMember(id, fullName, age)
	deletedAt := time.Now()
	member.DeletedAt = &deletedAt
	return member
}

// NewTestAdmin creates an admin with the given bcrypt hash
func NewTestAdmin(id int64, username, passwordHash string) *models.Admin {
	now := time.Now()
	return &models.Admin{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Email:        username + "@example.com",
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestPasswordReset creates an unexpired reset token record
func NewTestPasswordReset(username, token string) *models.PasswordReset {
	return &models.PasswordReset{
		ID:        1,
		Username:  username,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
}
