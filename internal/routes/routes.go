package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/homestock/auth-api/internal/auth"
	"github.com/homestock/auth-api/internal/handlers"
	"github.com/homestock/auth-api/internal/middleware"
	"github.com/homestock/auth-api/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public auth endpoints, rate limited per IP
	router.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rateLimitConfig))
		r.Post("/login", authHandler.Login)
		r.Post("/google-login", authHandler.GoogleLogin)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.Post("/reset-password", authHandler.ResetPassword)
	})

	router.Route("/api/users", func(r chi.Router) {
		r.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/register", userHandler.Register)

		// Admin-only user management
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager))
			r.Use(auth.RequireAdmin(userRepo))
			r.Get("/", userHandler.ListUsers)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})
}
