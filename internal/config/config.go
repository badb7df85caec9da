package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"

	EmailProviderLog  = "log"
	EmailProviderSMTP = "smtp"

	CalendarProviderStatic = "static"
	CalendarProviderGoogle = "google"
)

type Config struct {
	Env      string
	HTTPPort string

	DatabaseDriver string
	DatabaseURL    string

	JWTIssuer       string
	JWTAudience     string
	JWTAccessSecret string
	JWTAccessTTL    time.Duration

	CORSAllowedOrigins []string

	AuthSignupCodeTTL     time.Duration
	AuthResetCodeTTL      time.Duration
	AuthResendInterval    time.Duration
	AuthRateLimitPerMin   int
	APIRateLimitPerMin    int
	PasswordMinLength     int
	RateLimitRedisEnabled bool
	RateLimitRedisPrefix  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EmailProvider    string
	EmailFrom        string
	EmailSendTimeout time.Duration
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string

	CalendarProvider      string
	CalendarTimeout       time.Duration
	CalendarStaticBaseURL string
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRefreshToken    string
	GoogleCalendarID      string

	ReaperEnabled           bool
	ReaperInterval          time.Duration
	ReaperLeaderLockEnabled bool
	ReaperLeaderLockTTL     time.Duration

	ReadinessProbeTimeout        time.Duration
	ServerStartGracePeriod       time.Duration
	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration

	OTELServiceName           string
	OTELEnvironment           string
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELMetricsExportInterval time.Duration
	OTELTraceSamplingRatio    float64
	OTELMetricsEnabled        bool
	OTELTracingEnabled        bool
	OTELLogsEnabled           bool
	OTELLogLevel              string
}

func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")
	localLike := isLocalLikeEnv(env)

	cfg := &Config{
		Env:                   env,
		HTTPPort:              getEnv("HTTP_PORT", "5001"),
		DatabaseDriver:        strings.ToLower(getEnv("DATABASE_DRIVER", DatabaseDriverPostgres)),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTIssuer:             getEnv("JWT_ISSUER", "edumeet-backend"),
		JWTAudience:           getEnv("JWT_AUDIENCE", "edumeet-api"),
		JWTAccessSecret:       os.Getenv("JWT_ACCESS_SECRET"),
		CORSAllowedOrigins:    splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		AuthRateLimitPerMin:   getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 30),
		APIRateLimitPerMin:    getEnvInt("API_RATE_LIMIT_PER_MIN", 120),
		PasswordMinLength:     getEnvInt("AUTH_PASSWORD_MIN_LENGTH", 6),
		RateLimitRedisEnabled: getEnvBool("RATE_LIMIT_REDIS_ENABLED", false),
		RateLimitRedisPrefix:  getEnv("RATE_LIMIT_REDIS_PREFIX", "edumeet:rl"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvInt("REDIS_DB", 0),

		EmailProvider: strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderLog)),
		EmailFrom:     getEnv("EMAIL_FROM", "no-reply@edumeet.local"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),

		CalendarProvider:      strings.ToLower(getEnv("CALENDAR_PROVIDER", CalendarProviderStatic)),
		CalendarStaticBaseURL: getEnv("CALENDAR_STATIC_BASE_URL", "https://meet.edumeet.local"),
		GoogleClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:    os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRefreshToken:    os.Getenv("GOOGLE_REFRESH_TOKEN"),
		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),

		ReaperEnabled:           getEnvBool("REAPER_ENABLED", true),
		ReaperLeaderLockEnabled: getEnvBool("REAPER_LEADER_LOCK_ENABLED", false),

		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "edumeet-backend"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", env),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELTraceSamplingRatio:   getEnvFloat("OTEL_TRACE_SAMPLING_RATIO", 1.0),
		OTELMetricsEnabled:       getEnvBool("OTEL_METRICS_ENABLED", !localLike),
		OTELTracingEnabled:       getEnvBool("OTEL_TRACING_ENABLED", !localLike),
		OTELLogsEnabled:          getEnvBool("OTEL_LOGS_ENABLED", !localLike),
		OTELLogLevel:             strings.ToLower(getEnv("OTEL_LOG_LEVEL", "info")),
	}

	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"JWT_ACCESS_TTL", "1h", &cfg.JWTAccessTTL},
		{"AUTH_SIGNUP_CODE_TTL", "10m", &cfg.AuthSignupCodeTTL},
		{"AUTH_RESET_CODE_TTL", "1h", &cfg.AuthResetCodeTTL},
		{"AUTH_RESEND_INTERVAL", "60s", &cfg.AuthResendInterval},
		{"EMAIL_SEND_TIMEOUT", "15s", &cfg.EmailSendTimeout},
		{"CALENDAR_TIMEOUT", "10s", &cfg.CalendarTimeout},
		{"REAPER_INTERVAL", "30s", &cfg.ReaperInterval},
		{"REAPER_LEADER_LOCK_TTL", "25s", &cfg.ReaperLeaderLockTTL},
		{"READINESS_PROBE_TIMEOUT", "1s", &cfg.ReadinessProbeTimeout},
		{"SERVER_START_GRACE_PERIOD", "0s", &cfg.ServerStartGracePeriod},
		{"SHUTDOWN_TIMEOUT", "20s", &cfg.ShutdownTimeout},
		{"SHUTDOWN_HTTP_DRAIN_TIMEOUT", "10s", &cfg.ShutdownHTTPDrainTimeout},
		{"SHUTDOWN_OBSERVABILITY_TIMEOUT", "8s", &cfg.ShutdownObservabilityTimeout},
		{"OTEL_METRICS_EXPORT_INTERVAL", "10s", &cfg.OTELMetricsExportInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dest = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	switch c.DatabaseDriver {
	case DatabaseDriverPostgres, DatabaseDriverSQLite:
	default:
		errs = append(errs, "DATABASE_DRIVER must be one of postgres, sqlite")
	}
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.DatabaseDriver == DatabaseDriverSQLite && !isLocalLikeEnv(c.Env) {
		errs = append(errs, "DATABASE_DRIVER=sqlite is only allowed in development/test environments")
	}
	if len(c.JWTAccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 chars")
	}
	if c.JWTAccessTTL <= 0 || c.JWTAccessTTL > 24*time.Hour {
		errs = append(errs, "JWT_ACCESS_TTL must be between 1s and 24h")
	}
	if c.AuthSignupCodeTTL <= 0 {
		errs = append(errs, "AUTH_SIGNUP_CODE_TTL must be > 0")
	}
	if c.AuthResetCodeTTL <= 0 {
		errs = append(errs, "AUTH_RESET_CODE_TTL must be > 0")
	}
	if c.AuthResendInterval < 0 {
		errs = append(errs, "AUTH_RESEND_INTERVAL must be >= 0")
	}
	if c.PasswordMinLength < 1 {
		errs = append(errs, "AUTH_PASSWORD_MIN_LENGTH must be >= 1")
	}
	if c.AuthRateLimitPerMin <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.APIRateLimitPerMin <= 0 {
		errs = append(errs, "API_RATE_LIMIT_PER_MIN must be > 0")
	}
	if (c.RateLimitRedisEnabled || c.ReaperLeaderLockEnabled) && c.RedisAddr == "" {
		errs = append(errs, "REDIS_ADDR is required when redis-backed features are enabled")
	}

	switch c.EmailProvider {
	case EmailProviderLog:
	case EmailProviderSMTP:
		if c.SMTPHost == "" {
			errs = append(errs, "SMTP_HOST is required when EMAIL_PROVIDER=smtp")
		}
		if c.SMTPPort <= 0 {
			errs = append(errs, "SMTP_PORT must be > 0")
		}
	default:
		errs = append(errs, "EMAIL_PROVIDER must be one of log, smtp")
	}
	if c.EmailSendTimeout <= 0 {
		errs = append(errs, "EMAIL_SEND_TIMEOUT must be > 0")
	}

	switch c.CalendarProvider {
	case CalendarProviderStatic:
		if c.CalendarStaticBaseURL == "" {
			errs = append(errs, "CALENDAR_STATIC_BASE_URL is required when CALENDAR_PROVIDER=static")
		}
	case CalendarProviderGoogle:
		if c.GoogleClientID == "" || c.GoogleClientSecret == "" || c.GoogleRefreshToken == "" {
			errs = append(errs, "GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REFRESH_TOKEN are required when CALENDAR_PROVIDER=google")
		}
	default:
		errs = append(errs, "CALENDAR_PROVIDER must be one of static, google")
	}
	if c.CalendarTimeout <= 0 {
		errs = append(errs, "CALENDAR_TIMEOUT must be > 0")
	}

	if c.ReaperEnabled && c.ReaperInterval <= 0 {
		errs = append(errs, "REAPER_INTERVAL must be > 0")
	}
	if c.ReaperLeaderLockEnabled && c.ReaperLeaderLockTTL <= 0 {
		errs = append(errs, "REAPER_LEADER_LOCK_TTL must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, "SHUTDOWN_TIMEOUT must be > 0")
	}

	if (c.OTELMetricsEnabled || c.OTELTracingEnabled || c.OTELLogsEnabled) && c.OTELExporterOTLPEndpoint == "" {
		errs = append(errs, "OTEL_EXPORTER_OTLP_ENDPOINT is required when OTel is enabled")
	}
	if c.OTELTraceSamplingRatio < 0 || c.OTELTraceSamplingRatio > 1 {
		errs = append(errs, "OTEL_TRACE_SAMPLING_RATIO must be between 0 and 1")
	}
	if c.OTELMetricsEnabled && c.OTELMetricsExportInterval <= 0 {
		errs = append(errs, "OTEL_METRICS_EXPORT_INTERVAL must be > 0")
	}
	if !isValidLogLevel(c.OTELLogLevel) {
		errs = append(errs, "OTEL_LOG_LEVEL must be one of debug, info, warn, error")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isLocalLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development", "dev", "local", "test":
		return true
	default:
		return false
	}
}

func isValidLogLevel(v string) bool {
	switch strings.ToLower(v) {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
