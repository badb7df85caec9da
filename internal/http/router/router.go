package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/edumeet-backend/internal/health"
	"github.com/sandeepkv93/edumeet-backend/internal/http/handler"
	"github.com/sandeepkv93/edumeet-backend/internal/http/middleware"
	"github.com/sandeepkv93/edumeet-backend/internal/http/response"
)

const defaultBodyLimit = 1 << 20

type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	MeetingHandler *handler.MeetingHandler
	TokenParser    middleware.AccessTokenParser
	Logger         *slog.Logger
	CORSOrigins    []string

	// APIRateLimiter and AuthRateLimiter fall back to in-process fixed
	// windows of APIRateLimitRPM and AuthRateLimitRPM when nil.
	APIRateLimiter   APIRateLimiterFunc
	AuthRateLimiter  AuthRateLimiterFunc
	APIRateLimitRPM  int
	AuthRateLimitRPM int
	Readiness        *health.ProbeRunner
	EnableOTelHTTP   bool
}

type APIRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler

func NewRouter(dep Dependencies) http.Handler {
	logger := dep.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var apiLimiter func(http.Handler) http.Handler = dep.APIRateLimiter
	if apiLimiter == nil {
		apiLimiter = middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute, "api").Middleware()
	}
	var authLimiter func(http.Handler) http.Handler = dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute, "auth").Middleware()
	}
	requireAuth := middleware.AuthMiddleware(dep.TokenParser)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(defaultBodyLimit))
	r.Use(apiLimiter)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		ready, results := dep.Readiness.Ready(r.Context())
		if results == nil {
			results = []health.CheckResult{}
		}
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Group(func(r chi.Router) {
		r.Use(authLimiter)
		r.Post("/signup", dep.AuthHandler.Signup)
		r.Post("/login", dep.AuthHandler.Login)
		r.Post("/check-email", dep.AuthHandler.CheckEmail)
		r.Get("/verify-email", dep.AuthHandler.VerifyEmail)
		r.Post("/verify-email", dep.AuthHandler.VerifyEmail)
		r.Post("/forgot-password", dep.AuthHandler.ForgotPassword)
		r.Get("/verify-reset-token", dep.AuthHandler.VerifyResetToken)
		r.Post("/verify-reset-token", dep.AuthHandler.VerifyResetToken)
		r.Post("/reset-password", dep.AuthHandler.ResetPassword)
		r.With(requireAuth).Post("/change-password", dep.AuthHandler.ChangePassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", dep.UserHandler.Me)
		r.Get("/user", dep.UserHandler.Me)
		r.Post("/meetings", dep.MeetingHandler.Create)
		r.Get("/meetings", dep.MeetingHandler.List)
		r.Post("/classes", dep.MeetingHandler.CreateClass)
		r.Post("/classes/{id}/enroll", dep.MeetingHandler.Enroll)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
