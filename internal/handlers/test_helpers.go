package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/portersclub/members-api/internal/auth"
	"github.com/portersclub/members-api/internal/models"
	pkghttp "github.com/portersclub/members-api/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAdminContext injects an authenticated admin, as the auth middleware would
func WithAdminContext(req *http.Request, admin *models.Admin) *http.Request {
	ctx := context.WithValue(req.Context(), auth.AdminContextKey, admin)
	return req.WithContext(ctx)
}

// WithURLParam attaches a chi route parameter to the request context
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.NotEmpty(t, resp.Error, "Error message should not be empty")
}

// MockMemberService implements MemberService for testing
type MockMemberService struct {
	ListFunc            func(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error)
	GetByIDFunc         func(ctx context.Context, id int64) (*models.Member, error)
	CreateFunc          func(ctx context.Context, member *models.Member) (*models.Member, error)
	UpdateFunc          func(ctx context.Context, id int64, member *models.Member) (*models.Member, error)
	SoftDeleteFunc      func(ctx context.Context, id int64) error
	RestoreFunc         func(ctx context.Context, id int64) error
	PermanentDeleteFunc func(ctx context.Context, id int64) error
	StatsFunc           func(ctx context.Context) (*models.MemberStats, error)
}

func (m *MockMemberService) List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Member{}, nil
}

func (m *MockMemberService) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockMemberService) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	return nil, models.ErrInternalServer
}

func (m *MockMemberService) Update(ctx context.Context, id int64, member *models.Member) (*models.Member, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, member)
	}
	return nil, models.ErrInternalServer
}

func (m *MockMemberService) SoftDelete(ctx context.Context, id int64) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberService) Restore(ctx context.Context, id int64) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberService) PermanentDelete(ctx context.Context, id int64) error {
	if m.PermanentDeleteFunc != nil {
		return m.PermanentDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberService) Stats(ctx context.Context) (*models.MemberStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.MemberStats{}, nil
}

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	LoginFunc                func(ctx context.Context, username, password string) (string, *models.Admin, error)
	ChangePasswordFunc       func(ctx context.Context, adminID int64, currentPassword, newPassword string) error
	RequestPasswordResetFunc func(ctx context.Context, username string) (*models.PasswordReset, error)
	VerifyResetTokenFunc     func(ctx context.Context, token string) (*models.PasswordReset, error)
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *models.Admin, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return "", nil, models.ErrInvalidCredentials
}

func (m *MockAuthService) ChangePassword(ctx context.Context, adminID int64, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, adminID, currentPassword, newPassword)
	}
	return nil
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, username string) (*models.PasswordReset, error) {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockAuthService) VerifyResetToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	if m.VerifyResetTokenFunc != nil {
		return m.VerifyResetTokenFunc(ctx, token)
	}
	return nil, models.ErrResetTokenInvalid
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}
