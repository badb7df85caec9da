package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/security"
)

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

type AccessTokenSigner interface {
	SignAccessToken(userID uint, role string, ttl time.Duration) (string, time.Time, error)
}

// SessionIssuer exchanges an email and password for a flat-expiry bearer token.
type SessionIssuer struct {
	users     repository.UserRepository
	hasher    PasswordHasher
	signer    AccessTokenSigner
	ttl       time.Duration
	dummyHash func() string
}

func NewSessionIssuer(users repository.UserRepository, hasher PasswordHasher, signer AccessTokenSigner, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{
		users:  users,
		hasher: hasher,
		signer: signer,
		ttl:    ttl,
		dummyHash: sync.OnceValue(func() string {
			h, _ := hasher.Hash(security.NewSessionToken())
			return h
		}),
	}
}

// Authenticate returns ErrInvalidCredentials for unknown emails, wrong
// passwords and inactive accounts alike.
func (s *SessionIssuer) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		observability.RecordAuthLogin(ctx, "invalid")
		return nil, validationError("email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		// Keep response timing close to the known-email path.
		_, _ = s.hasher.Verify(s.dummyHash(), password)
		observability.RecordAuthLogin(ctx, "invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		observability.RecordAuthLogin(ctx, "error")
		return nil, err
	}
	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil || !ok || !user.IsActive {
		observability.RecordAuthLogin(ctx, "invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.signer.SignAccessToken(user.ID, user.Role, s.ttl)
	if err != nil {
		observability.RecordAuthLogin(ctx, "error")
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	observability.RecordAuthLogin(ctx, "success")
	return &LoginResult{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt, User: user}, nil
}
