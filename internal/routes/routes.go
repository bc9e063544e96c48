package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/portersclub/members-api/internal/auth"
	"github.com/portersclub/members-api/internal/handlers"
	"github.com/portersclub/members-api/internal/middleware"
	"github.com/portersclub/members-api/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	memberHandler *handlers.MemberHandler,
	authHandler *handlers.AuthHandler,
	tokenManager *auth.TokenManager,
	adminRepo *repositories.AdminRepository,
) {
	// Rate limiting config for credential endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/forgot-password", authHandler.ForgotPassword)
	router.Get("/auth/reset/{token}", authHandler.VerifyResetToken)
	router.Post("/auth/reset-password", authHandler.ResetPassword)

	// Protected routes - bearer token required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager, adminRepo))

		r.Get("/auth/verify", authHandler.Verify)
		r.Post("/auth/change-password", authHandler.ChangePassword)

		memberHandler.RegisterRoutes(r)
	})
}
