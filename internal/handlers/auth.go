package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/portersclub/members-api/internal/auth"
	"github.com/portersclub/members-api/internal/models"
	pkghttp "github.com/portersclub/members-api/pkg/http"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *models.Admin, error)
	ChangePassword(ctx context.Context, adminID int64, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, username string) (*models.PasswordReset, error)
	VerifyResetToken(ctx context.Context, token string) (*models.PasswordReset, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// Request/Response DTOs

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminResponse represents an admin in the HTTP response, never carrying
// the password hash.
type AdminResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Success bool           `json:"success"`
	Token   string         `json:"token"`
	User    *AdminResponse `json:"user"`
}

// VerifyResponse is returned when a bearer token checks out
type VerifyResponse struct {
	Success bool           `json:"success"`
	User    *AdminResponse `json:"user"`
}

// ChangePasswordRequest represents the change-password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ForgotPasswordRequest represents the forgot-password request body
type ForgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}

// ForgotPasswordResponse returns the minted reset token. Delivery to the
// admin is the caller's responsibility.
type ForgotPasswordResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	Message   string `json:"message"`
}

// VerifyResetTokenResponse reports who a reset token belongs to
type VerifyResetTokenResponse struct {
	Success   bool   `json:"success"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expiresAt"`
}

// ResetPasswordRequest represents the reset-password request body
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// SuccessResponse is the generic success shape for password operations
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func adminModelToResponse(admin *models.Admin) *AdminResponse {
	return &AdminResponse{
		ID:       admin.ID,
		Username: admin.Username,
		Email:    admin.Email,
		Role:     admin.Role,
	}
}

// Login authenticates an admin and returns a bearer token
//
// @Summary Admin login
// @Accept json
// @Param request body LoginRequest true "Credentials"
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Username and password are required")
		return
	}

	token, admin, err := h.service.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			pkghttp.WriteUnauthorized(w, models.ErrInvalidCredentials.Error())
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Token:   token,
		User:    adminModelToResponse(admin),
	})
}

// Verify confirms the bearer token and returns the current admin record.
// The middleware has already validated the token and re-fetched the admin.
//
// @Summary Verify bearer token
// @Produce json
// @Success 200 {object} VerifyResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	admin := auth.AdminFromContext(r)
	if admin == nil {
		pkghttp.WriteUnauthorized(w, "Invalid or expired token")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, VerifyResponse{
		Success: true,
		User:    adminModelToResponse(admin),
	})
}

// ChangePassword sets a new password after re-verifying the current one
//
// @Summary Change password
// @Accept json
// @Param request body ChangePasswordRequest true "Old and new password"
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	admin := auth.AdminFromContext(r)
	if admin == nil {
		pkghttp.WriteUnauthorized(w, "Invalid or expired token")
		return
	}

	var req ChangePasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), admin.ID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrPasswordMismatch):
			pkghttp.WriteBadRequest(w, models.ErrPasswordMismatch.Error())
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid or expired token")
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Internal server error")
		default:
			// Password policy violations carry their own message
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}

// ForgotPassword issues a password reset token for a username
//
// @Summary Request password reset
// @Accept json
// @Param request body ForgotPasswordRequest true "Username"
// @Produce json
// @Success 200 {object} ForgotPasswordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Username is required")
		return
	}

	reset, err := h.service.RequestPasswordReset(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Admin not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ForgotPasswordResponse{
		Success:   true,
		Token:     reset.Token,
		ExpiresAt: reset.ExpiresAt.Format(time.RFC3339),
		Message:   "Password reset token issued",
	})
}

// VerifyResetToken checks a reset token before the client shows a reset form
//
// @Summary Verify reset token
// @Param token path string true "Reset token"
// @Produce json
// @Success 200 {object} VerifyResetTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/reset/{token} [get]
func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		pkghttp.WriteBadRequest(w, "Token is required")
		return
	}

	reset, err := h.service.VerifyResetToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, models.ErrResetTokenInvalid) {
			pkghttp.WriteUnauthorized(w, models.ErrResetTokenInvalid.Error())
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, VerifyResetTokenResponse{
		Success:   true,
		Username:  reset.Username,
		ExpiresAt: reset.ExpiresAt.Format(time.RFC3339),
	})
}

// ResetPassword consumes a reset token and sets a new password
//
// @Summary Reset password
// @Accept json
// @Param request body ResetPasswordRequest true "Token and new password"
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrResetTokenInvalid):
			pkghttp.WriteUnauthorized(w, models.ErrResetTokenInvalid.Error())
		case errors.Is(err, models.ErrInternalServer):
			pkghttp.WriteInternalError(w, "Internal server error")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Password reset successfully",
	})
}
