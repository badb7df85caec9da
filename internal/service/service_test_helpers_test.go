package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/security"
)

var testHasher = security.NewArgon2Hasher(security.ArgonParams{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})

func newServiceDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(&domain.User{}, &domain.Class{}, &domain.StudentClass{}, &domain.Meeting{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sentCode struct {
	To   string
	Code string
	Kind CodeKind
}

type accountFixture struct {
	db      *gorm.DB
	users   repository.UserRepository
	svc     *AccountService
	issuer  *SessionIssuer
	jwt     *security.JWTManager
	now     time.Time
	mu      sync.Mutex
	sent    []sentCode
	nextSeq int
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	f := &accountFixture{
		db:  newServiceDBForTest(t),
		now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.users = repository.NewUserRepository(f.db)

	ctrl := gomock.NewController(t)
	sender := NewMockCodeSender(ctrl)
	sender.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().
		Do(func(_ context.Context, to, code string, kind CodeKind) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.sent = append(f.sent, sentCode{To: to, Code: code, Kind: kind})
		})

	f.svc = NewAccountService(f.users, testHasher, sender, AccountPolicy{
		SignupCodeTTL:     10 * time.Minute,
		ResetCodeTTL:      time.Hour,
		ResendInterval:    time.Minute,
		PasswordMinLength: 3,
	}, discardLogger())
	f.svc.now = func() time.Time { return f.now }
	f.svc.newCode = func() (string, error) {
		f.nextSeq++
		return fmt.Sprintf("%08d", f.nextSeq), nil
	}

	f.jwt = security.NewJWTManager("edumeet", "edumeet-clients", "test-secret-with-enough-length-123")
	f.issuer = NewSessionIssuer(f.users, testHasher, f.jwt, 15*time.Minute)
	return f
}

func (f *accountFixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *accountFixture) sentCodes() []sentCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentCode(nil), f.sent...)
}

func (f *accountFixture) lastCode(t *testing.T) sentCode {
	t.Helper()
	sent := f.sentCodes()
	if len(sent) == 0 {
		t.Fatal("expected a dispatched code")
	}
	return sent[len(sent)-1]
}

func (f *accountFixture) reload(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.users.FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("reload %s: %v", email, err)
	}
	return u
}

func (f *accountFixture) signupAndVerify(t *testing.T, email, password string) *domain.User {
	t.Helper()
	ctx := context.Background()
	issued, err := f.svc.RequestSignup(ctx, SignupInput{FullName: "Test User", Email: email, Password: password, Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	u, err := f.svc.VerifyIdentity(ctx, CodeInput{Email: email, Code: f.lastCode(t).Code, SessionToken: issued.SessionToken})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	return u
}
