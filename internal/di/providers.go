package di

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sandeepkv93/edumeet-backend/internal/app"
	"github.com/sandeepkv93/edumeet-backend/internal/config"
	"github.com/sandeepkv93/edumeet-backend/internal/database"
	"github.com/sandeepkv93/edumeet-backend/internal/health"
	"github.com/sandeepkv93/edumeet-backend/internal/http/handler"
	"github.com/sandeepkv93/edumeet-backend/internal/http/middleware"
	"github.com/sandeepkv93/edumeet-backend/internal/http/router"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/security"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
)

const reaperLeaseKey = "edumeet:reaper:lease"

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewMeetingRepository,
	repository.NewClassRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
	providePasswordHasher,
	wire.Bind(new(service.PasswordHasher), new(*security.Argon2Hasher)),
	wire.Bind(new(service.AccessTokenSigner), new(*security.JWTManager)),
	wire.Bind(new(middleware.AccessTokenParser), new(*security.JWTManager)),
)

var ServiceSet = wire.NewSet(
	provideCodeNotifier,
	provideCodeDispatcher,
	wire.Bind(new(service.CodeSender), new(*service.AsyncCodeDispatcher)),
	provideAccountService,
	provideSessionIssuer,
	provideCalendarProvider,
	provideMeetingService,
	provideReaperLease,
	provideMeetingReaper,
	wire.Bind(new(service.AccountServiceInterface), new(*service.AccountService)),
	wire.Bind(new(service.SessionIssuerInterface), new(*service.SessionIssuer)),
	wire.Bind(new(service.MeetingServiceInterface), new(*service.MeetingService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewMeetingHandler,
	provideAPIRateLimiter,
	provideAuthRateLimiter,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}

// provideRedisClient returns nil unless a redis-backed feature is enabled.
func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RateLimitRedisEnabled && !cfg.ReaperLeaderLockEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret)
}

func providePasswordHasher() *security.Argon2Hasher {
	return security.NewArgon2Hasher(security.DefaultArgonParams)
}

func provideCodeNotifier(cfg *config.Config, logger *slog.Logger) service.CodeNotifier {
	if cfg.EmailProvider == config.EmailProviderSMTP {
		return service.NewSMTPCodeNotifier(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
	}
	return service.NewLogCodeNotifier(logger)
}

func provideCodeDispatcher(cfg *config.Config, notifier service.CodeNotifier, logger *slog.Logger) *service.AsyncCodeDispatcher {
	return service.NewAsyncCodeDispatcher(notifier, cfg.EmailSendTimeout, logger)
}

func provideAccountService(
	cfg *config.Config,
	users repository.UserRepository,
	hasher service.PasswordHasher,
	sender service.CodeSender,
	logger *slog.Logger,
) *service.AccountService {
	return service.NewAccountService(users, hasher, sender, service.NewAccountPolicy(cfg), logger)
}

func provideSessionIssuer(
	cfg *config.Config,
	users repository.UserRepository,
	hasher service.PasswordHasher,
	signer service.AccessTokenSigner,
) *service.SessionIssuer {
	return service.NewSessionIssuer(users, hasher, signer, cfg.JWTAccessTTL)
}

func provideCalendarProvider(cfg *config.Config) service.CalendarProvider {
	if cfg.CalendarProvider == config.CalendarProviderGoogle {
		return service.NewGoogleCalendarProvider(service.GoogleCalendarConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RefreshToken: cfg.GoogleRefreshToken,
			CalendarID:   cfg.GoogleCalendarID,
		})
	}
	return service.NewStaticCalendarProvider(cfg.CalendarStaticBaseURL)
}

func provideMeetingService(
	cfg *config.Config,
	meetings repository.MeetingRepository,
	classes repository.ClassRepository,
	users repository.UserRepository,
	calendar service.CalendarProvider,
	logger *slog.Logger,
) *service.MeetingService {
	return service.NewMeetingService(meetings, classes, users, calendar, cfg.CalendarTimeout, logger)
}

// provideReaperLease returns a nil lease when every replica may sweep.
func provideReaperLease(cfg *config.Config, redisClient redis.UniversalClient) service.ReaperLease {
	if !cfg.ReaperLeaderLockEnabled || redisClient == nil {
		return nil
	}
	return service.NewRedisReaperLease(redisClient, reaperLeaseKey, reaperOwner(), cfg.ReaperLeaderLockTTL)
}

func reaperOwner() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return host + "/" + uuid.NewString()
}

func provideMeetingReaper(
	cfg *config.Config,
	meetings repository.MeetingRepository,
	lease service.ReaperLease,
	logger *slog.Logger,
) *service.MeetingReaper {
	return service.NewMeetingReaper(meetings, lease, cfg.ReaperInterval, logger)
}

func provideAPIRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.APIRateLimiterFunc {
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":api")
		return middleware.NewDistributedRateLimiter(
			redisLimiter,
			cfg.APIRateLimitPerMin,
			time.Minute,
			middleware.FailOpen,
			"api",
		).Middleware()
	}
	return middleware.NewRateLimiter(cfg.APIRateLimitPerMin, time.Minute, "api").Middleware()
}

func provideAuthRateLimiter(cfg *config.Config, redisClient redis.UniversalClient) router.AuthRateLimiterFunc {
	if cfg.RateLimitRedisEnabled && redisClient != nil {
		redisLimiter := middleware.NewRedisFixedWindowLimiter(redisClient, cfg.RateLimitRedisPrefix+":auth")
		return middleware.NewDistributedRateLimiter(
			redisLimiter,
			cfg.AuthRateLimitPerMin,
			time.Minute,
			middleware.FailClosed,
			"auth",
		).Middleware()
	}
	return middleware.NewRateLimiter(cfg.AuthRateLimitPerMin, time.Minute, "auth").Middleware()
}

func provideReadinessProbeRunner(
	cfg *config.Config,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	reaper *service.MeetingReaper,
) *health.ProbeRunner {
	checkers := []health.Checker{health.NewDBChecker(db), health.NewRedisChecker(redisClient)}
	if cfg.ReaperEnabled && reaper != nil {
		checkers = append(checkers, health.NewReaperChecker(reaper, 3))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ServerStartGracePeriod, checkers...)
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	meetingHandler *handler.MeetingHandler,
	tokenParser middleware.AccessTokenParser,
	logger *slog.Logger,
	apiRateLimiter router.APIRateLimiterFunc,
	authRateLimiter router.AuthRateLimiterFunc,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		MeetingHandler:   meetingHandler,
		TokenParser:      tokenParser,
		Logger:           logger,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		APIRateLimiter:   apiRateLimiter,
		AuthRateLimiter:  authRateLimiter,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		Readiness:        readiness,
		EnableOTelHTTP:   cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
