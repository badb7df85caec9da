package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/edumeet-backend/internal/config"
	"github.com/sandeepkv93/edumeet-backend/internal/database"
	"github.com/sandeepkv93/edumeet-backend/internal/http/handler"
	"github.com/sandeepkv93/edumeet-backend/internal/http/router"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/security"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
)

var testArgonParams = security.ArgonParams{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e apiEnvelope) errorCode() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Code
}

type sentCode struct {
	code string
	kind service.CodeKind
}

// captureSender records codes synchronously in place of email delivery.
type captureSender struct {
	mu   sync.Mutex
	sent map[string][]sentCode
}

func (s *captureSender) Dispatch(_ context.Context, to, code string, kind service.CodeKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = map[string][]sentCode{}
	}
	s.sent[to] = append(s.sent[to], sentCode{code: code, kind: kind})
}

func (s *captureSender) last(t *testing.T, to string, kind service.CodeKind) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.sent[to]
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].kind == kind {
			return entries[i].code
		}
	}
	t.Fatalf("no %s code sent to %s", kind, to)
	return ""
}

type failingCalendar struct{}

func (failingCalendar) CreateEvent(context.Context, service.TimeRange) (string, error) {
	return "", fmt.Errorf("calendar api returned 503")
}

type testServerOptions struct {
	cfgOverride func(cfg *config.Config)
	calendar    service.CalendarProvider
}

type testServer struct {
	baseURL  string
	client   *http.Client
	db       *gorm.DB
	sender   *captureSender
	meetings repository.MeetingRepository
	logger   *slog.Logger
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithOptions(t, testServerOptions{})
}

func newTestServerWithOptions(t *testing.T, opts testServerOptions) *testServer {
	t.Helper()

	cfg := &config.Config{
		DatabaseDriver:      config.DatabaseDriverSQLite,
		DatabaseURL:         fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		AuthSignupCodeTTL:   10 * time.Minute,
		AuthResetCodeTTL:    time.Hour,
		AuthResendInterval:  time.Minute,
		PasswordMinLength:   8,
		AuthRateLimitPerMin: 1000,
		APIRateLimitPerMin:  1000,
		JWTAccessTTL:        time.Hour,
		CalendarTimeout:     5 * time.Second,
	}
	if opts.cfgOverride != nil {
		opts.cfgOverride(cfg)
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := repository.NewUserRepository(db)
	meetings := repository.NewMeetingRepository(db)
	classes := repository.NewClassRepository(db)
	hasher := security.NewArgon2Hasher(testArgonParams)
	jwtMgr := security.NewJWTManager("edumeet-test", "edumeet-clients", "abcdefghijklmnopqrstuvwxyz123456")
	sender := &captureSender{}

	calendar := opts.calendar
	if calendar == nil {
		calendar = service.NewStaticCalendarProvider("https://meet.test")
	}
	accounts := service.NewAccountService(users, hasher, sender, service.NewAccountPolicy(cfg), logger)
	sessions := service.NewSessionIssuer(users, hasher, jwtMgr, cfg.JWTAccessTTL)
	meetingSvc := service.NewMeetingService(meetings, classes, users, calendar, cfg.CalendarTimeout, logger)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(accounts, sessions),
		UserHandler:      handler.NewUserHandler(accounts),
		MeetingHandler:   handler.NewMeetingHandler(meetingSvc),
		TokenParser:      jwtMgr,
		Logger:           logger,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.Close()
		_ = database.Close(db)
	})

	return &testServer{
		baseURL:  srv.URL,
		client:   srv.Client(),
		db:       db,
		sender:   sender,
		meetings: meetings,
		logger:   logger,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (*http.Response, apiEnvelope) {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.baseURL+path, payload)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var env apiEnvelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

func decodeData[T any](t *testing.T, env apiEnvelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", string(env.Data), err)
	}
	return out
}

// registerActive signs up, verifies with the captured code and logs in,
// returning the bearer token.
func (s *testServer) registerActive(t *testing.T, email, password, role string) string {
	t.Helper()
	resp, env := s.do(t, http.MethodPost, "/signup", map[string]string{
		"full_name": "Test " + role,
		"email":     email,
		"password":  password,
		"role":      role,
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: status=%d code=%s", email, resp.StatusCode, env.errorCode())
	}
	code := s.sender.last(t, email, service.CodeKindVerification)
	resp, env = s.do(t, http.MethodPost, "/verify-email", map[string]string{"email": email, "code": code}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify %s: status=%d code=%s", email, resp.StatusCode, env.errorCode())
	}
	return s.login(t, email, password)
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, env := s.do(t, http.MethodPost, "/login", map[string]string{"email": email, "password": password}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status=%d code=%s", email, resp.StatusCode, env.errorCode())
	}
	data := decodeData[struct {
		AccessToken string `json:"access_token"`
	}](t, env)
	if data.AccessToken == "" {
		t.Fatal("expected access token")
	}
	return data.AccessToken
}
