package di

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sandeepkv93/edumeet-backend/internal/config"
	"github.com/sandeepkv93/edumeet-backend/internal/database"
	"github.com/sandeepkv93/edumeet-backend/internal/http/router"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvideHTTPServer(t *testing.T) {
	cfg := &config.Config{HTTPPort: "9999"}
	srv := provideHTTPServer(cfg, nil)
	if srv.Addr != ":9999" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
	if srv.ReadTimeout.Seconds() != 10 {
		t.Fatalf("unexpected read timeout: %v", srv.ReadTimeout)
	}
}

func TestProvideRouterDependencies(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"http://localhost:3000"}, AuthRateLimitPerMin: 10, APIRateLimitPerMin: 100, OTELMetricsEnabled: true}
	dep := provideRouterDependencies(nil, nil, nil, nil, nil, nil, nil, nil, cfg)
	if dep.AuthRateLimitRPM != 10 || dep.APIRateLimitRPM != 100 {
		t.Fatalf("unexpected rate limits: %+v", dep)
	}
	if !dep.EnableOTelHTTP {
		t.Fatal("expected otel http enabled")
	}
	if len(dep.CORSOrigins) != 1 || dep.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %+v", dep.CORSOrigins)
	}
	_ = router.Dependencies(dep)
}

func TestProvideCodeNotifierSelectsProvider(t *testing.T) {
	logNotifier := provideCodeNotifier(&config.Config{EmailProvider: config.EmailProviderLog}, discardLogger())
	if _, ok := logNotifier.(*service.LogCodeNotifier); !ok {
		t.Fatalf("expected log notifier, got %T", logNotifier)
	}
	smtpNotifier := provideCodeNotifier(&config.Config{
		EmailProvider: config.EmailProviderSMTP,
		SMTPHost:      "smtp.example.com",
		SMTPPort:      587,
		EmailFrom:     "no-reply@example.com",
	}, discardLogger())
	if _, ok := smtpNotifier.(*service.SMTPCodeNotifier); !ok {
		t.Fatalf("expected smtp notifier, got %T", smtpNotifier)
	}
}

func TestProvideCalendarProviderSelectsProvider(t *testing.T) {
	static := provideCalendarProvider(&config.Config{CalendarProvider: config.CalendarProviderStatic, CalendarStaticBaseURL: "https://meet.test/"})
	sp, ok := static.(*service.StaticCalendarProvider)
	if !ok {
		t.Fatalf("expected static provider, got %T", static)
	}
	link, err := sp.CreateEvent(context.Background(), service.TimeRange{})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if len(link) <= len("https://meet.test/") || link[:len("https://meet.test/")] != "https://meet.test/" {
		t.Fatalf("unexpected link %q", link)
	}

	google := provideCalendarProvider(&config.Config{CalendarProvider: config.CalendarProviderGoogle, GoogleCalendarID: "primary"})
	if _, ok := google.(*service.GoogleCalendarProvider); !ok {
		t.Fatalf("expected google provider, got %T", google)
	}
}

func TestProvideRedisClientOnlyWhenNeeded(t *testing.T) {
	if c := provideRedisClient(&config.Config{}, discardLogger()); c != nil {
		t.Fatalf("expected nil client, got %T", c)
	}
	mr := miniredis.RunT(t)
	c := provideRedisClient(&config.Config{ReaperLeaderLockEnabled: true, RedisAddr: mr.Addr()}, discardLogger())
	if c == nil {
		t.Fatal("expected redis client")
	}
	defer c.Close()
	if err := c.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestProvideReaperLease(t *testing.T) {
	if lease := provideReaperLease(&config.Config{}, nil); lease != nil {
		t.Fatalf("expected no lease when lock disabled, got %T", lease)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cfg := &config.Config{ReaperLeaderLockEnabled: true, ReaperLeaderLockTTL: 5 * time.Second}

	first := provideReaperLease(cfg, client)
	second := provideReaperLease(cfg, client)
	ok, err := first.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("expected second owner to be refused while lease is held")
	}
}

func TestProvideRateLimitersUseRedisWhenEnabled(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cfg := &config.Config{
		RateLimitRedisEnabled: true,
		RateLimitRedisPrefix:  "rl",
		APIRateLimitPerMin:    1,
		AuthRateLimitPerMin:   1,
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name string
		mw   func(http.Handler) http.Handler
	}{
		{name: "api", mw: provideAPIRateLimiter(cfg, client)},
		{name: "auth", mw: provideAuthRateLimiter(cfg, client)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := tc.mw(ok)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			if rr.Code != http.StatusNoContent {
				t.Fatalf("first request: expected 204, got %d", rr.Code)
			}
			rr = httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			if rr.Code != http.StatusTooManyRequests {
				t.Fatalf("second request: expected 429, got %d", rr.Code)
			}
		})
	}
	if len(mr.Keys()) == 0 {
		t.Fatal("expected limiter keys in redis")
	}
}

func TestProvideRuntimeDBAndReadiness(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver:        config.DatabaseDriverSQLite,
		DatabaseURL:           filepath.Join(t.TempDir(), "edumeet.db"),
		ReaperEnabled:         true,
		ReaperInterval:        30 * time.Second,
		ReadinessProbeTimeout: time.Second,
	}
	db, err := provideRuntimeDB(cfg)
	if err != nil {
		t.Fatalf("provide db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	meetings := repository.NewMeetingRepository(db)
	reaper := provideMeetingReaper(cfg, meetings, nil, discardLogger())
	runner := provideReadinessProbeRunner(cfg, db, nil, reaper)

	ready, results := runner.Ready(context.Background())
	if !ready {
		t.Fatalf("expected ready, got %+v", results)
	}
	names := map[string]bool{}
	for _, r := range results {
		names[r.Name] = true
	}
	if !names["db"] || !names["meeting_reaper"] {
		t.Fatalf("unexpected checks: %+v", results)
	}
	if names["redis"] {
		t.Fatal("redis check should be skipped without a client")
	}
}

func TestProvideRuntimeDBRejectsUnknownDriver(t *testing.T) {
	if _, err := provideRuntimeDB(&config.Config{DatabaseDriver: "oracle"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
