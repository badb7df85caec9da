package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/sandeepkv93/edumeet-backend/internal/config"
	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/security"
)

type AccountPolicy struct {
	SignupCodeTTL     time.Duration
	ResetCodeTTL      time.Duration
	ResendInterval    time.Duration
	PasswordMinLength int
}

func NewAccountPolicy(cfg *config.Config) AccountPolicy {
	return AccountPolicy{
		SignupCodeTTL:     cfg.AuthSignupCodeTTL,
		ResetCodeTTL:      cfg.AuthResetCodeTTL,
		ResendInterval:    cfg.AuthResendInterval,
		PasswordMinLength: cfg.PasswordMinLength,
	}
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// CodeIssued is returned whenever a fresh code is persisted. The code itself
// only travels through the CodeSender.
type CodeIssued struct {
	UserID       uint
	SessionToken string
	ExpiresAt    time.Time
}

type CodeInput struct {
	Email        string
	Code         string
	SessionToken string
}

type ResetCodeStatus struct {
	Valid        bool
	SessionToken string
}

// ResetInput carries either a legacy single Token or an Email and Code pair.
type ResetInput struct {
	Token        string
	Email        string
	Code         string
	SessionToken string
	NewPassword  string
}

// AccountService drives the verification and reset lifecycle of a user. Every
// transition is a single locked transaction against the user row.
type AccountService struct {
	users      repository.UserRepository
	hasher     PasswordHasher
	sender     CodeSender
	policy     AccountPolicy
	logger     *slog.Logger
	now        func() time.Time
	newCode    func() (string, error)
	newSession func() string
}

func NewAccountService(users repository.UserRepository, hasher PasswordHasher, sender CodeSender, policy AccountPolicy, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		users:      users,
		hasher:     hasher,
		sender:     sender,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
		newCode:    security.NewVerificationCode,
		newSession: security.NewSessionToken,
	}
}

func (s *AccountService) RequestSignup(ctx context.Context, in SignupInput) (*CodeIssued, error) {
	fullName := strings.TrimSpace(in.FullName)
	role := strings.TrimSpace(in.Role)
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if fullName == "" {
		return nil, validationError("full name is required")
	}
	if !domain.IsValidRole(role) {
		return nil, validationError("role must be %q or %q", domain.RoleTeacher, domain.RoleStudent)
	}
	if err := s.validatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	now := s.now().UTC()
	issued := &CodeIssued{SessionToken: s.newSession(), ExpiresAt: now.Add(s.policy.SignupCodeTTL)}
	err = s.users.WithinTransaction(ctx, func(tx repository.UserRepository) error {
		user, err := tx.FindByEmail(ctx, email)
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			user = &domain.User{Email: email}
		case err != nil:
			return err
		case user.IsActive:
			return ErrDuplicateAccount
		}
		user.FullName = fullName
		user.Role = role
		user.PasswordHash = hash
		user.IsActive = false
		user.VerificationCode = &code
		user.TokenExpiry = &issued.ExpiresAt
		user.SessionToken = &issued.SessionToken
		if user.ID == 0 {
			if err := tx.Create(ctx, user); err != nil {
				return err
			}
		} else if err := tx.Save(ctx, user); err != nil {
			return err
		}
		issued.UserID = user.ID
		return nil
	})
	if err != nil {
		observability.RecordAuthFlowEvent(ctx, "signup", flowOutcome(err))
		return nil, err
	}

	s.sender.Dispatch(ctx, email, code, CodeKindVerification)
	observability.RecordAuthFlowEvent(ctx, "signup", "success")
	s.logger.InfoContext(ctx, "signup code issued", "user_id", issued.UserID, "expires_at", issued.ExpiresAt)
	return issued, nil
}

func (s *AccountService) ResendSignupCode(ctx context.Context, rawEmail string) (*CodeIssued, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	now := s.now().UTC()
	issued := &CodeIssued{SessionToken: s.newSession(), ExpiresAt: now.Add(s.policy.SignupCodeTTL)}
	err = s.users.WithinTransaction(ctx, func(tx repository.UserRepository) error {
		user, err := tx.FindByEmail(ctx, email)
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUnknownEmail
		}
		if err != nil {
			return err
		}
		if user.IsActive {
			return ErrDuplicateAccount
		}
		if s.throttled(user, now) {
			return ErrRateLimited
		}
		user.VerificationCode = &code
		user.TokenExpiry = &issued.ExpiresAt
		user.SessionToken = &issued.SessionToken
		user.LastEmailSent = &now
		issued.UserID = user.ID
		return tx.Save(ctx, user)
	})
	if err != nil {
		observability.RecordAuthFlowEvent(ctx, "signup_resend", flowOutcome(err))
		return nil, err
	}

	s.sender.Dispatch(ctx, email, code, CodeKindVerification)
	observability.RecordAuthFlowEvent(ctx, "signup_resend", "success")
	return issued, nil
}

func (s *AccountService) VerifyIdentity(ctx context.Context, in CodeInput) (*domain.User, error) {
	in, err := normalizeCodeInput(in)
	if err != nil {
		return nil, err
	}
	var verified *domain.User
	err = s.users.WithinTransaction(ctx, func(tx repository.UserRepository) error {
		user, err := s.resolveCode(ctx, tx, codeLookups(in))
		if err != nil {
			return err
		}
		err = tx.ConsumeCode(ctx, user.ID, in.Code, map[string]any{
			"is_active":         true,
			"verification_code": nil,
			"token_expiry":      nil,
			"session_token":     nil,
		})
		if err != nil {
			return consumeError(err)
		}
		user.IsActive = true
		user.ClearCode()
		verified = user
		return nil
	})
	if err != nil {
		observability.RecordAuthFlowEvent(ctx, "verify_identity", flowOutcome(err))
		return nil, err
	}
	observability.RecordAuthFlowEvent(ctx, "verify_identity", "success")
	s.logger.InfoContext(ctx, "account activated", "user_id", verified.ID)
	return verified, nil
}

func (s *AccountService) RequestPasswordReset(ctx context.Context, rawEmail string) (*CodeIssued, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	now := s.now().UTC()
	issued := &CodeIssued{SessionToken: s.newSession(), ExpiresAt: now.Add(s.policy.ResetCodeTTL)}
	err = s.users.WithinTransaction(ctx, func(tx repository.UserRepository) error {
		user, err := tx.FindByEmail(ctx, email)
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUnknownEmail
		}
		if err != nil {
			return err
		}
		if s.throttled(user, now) {
			return ErrRateLimited
		}
		// Replaces any pending signup code; both flows share the same fields.
		user.VerificationCode = &code
		user.TokenExpiry = &issued.ExpiresAt
		user.SessionToken = &issued.SessionToken
		user.LastEmailSent = &now
		issued.UserID = user.ID
		return tx.Save(ctx, user)
	})
	if err != nil {
		observability.RecordAuthFlowEvent(ctx, "password_reset_request", flowOutcome(err))
		return nil, err
	}

	s.sender.Dispatch(ctx, email, code, CodeKindReset)
	observability.RecordAuthFlowEvent(ctx, "password_reset_request", "success")
	s.logger.InfoContext(ctx, "password reset code issued", "user_id", issued.UserID, "expires_at", issued.ExpiresAt)
	return issued, nil
}

func (s *AccountService) VerifyResetCode(ctx context.Context, in CodeInput) (*ResetCodeStatus, error) {
	in, err := normalizeCodeInput(in)
	if err != nil {
		return nil, err
	}
	user, err := s.resolveCode(ctx, s.users, codeLookups(in))
	if err != nil {
		observability.RecordAuthFlowEvent(ctx, "password_reset_verify", flowOutcome(err))
		return nil, err
	}
	observability.RecordAuthFlowEvent(ctx, "password_reset_verify", "success")
	status := &ResetCodeStatus{Valid: true}
	if user.SessionToken != nil {
		status.SessionToken = *user.SessionToken
	}
	return status, nil
}

func (s *AccountService) CompletePasswordReset(ctx context.Context, in ResetInput) error {
	var (
		lookups []repository.CodeLookup
		code    string
	)
	if token := strings.TrimSpace(in.Token); token != "" {
		code = token
		lookups = []repository.CodeLookup{{Code: token}}
	} else {
		ci, err := normalizeCodeInput(CodeInput{Email: in.Email, Code: in.Code, SessionToken: in.SessionToken})
		if err != nil {
			return err
		}
		code = ci.Code
		lookups = codeLookups(ci)
	}
	if err := s.validatePassword(in.NewPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var userID uint
	err = s.users.WithinTransaction(ctx, func(tx repository.UserRepository) error {
		user, err := s.resolveCode(ctx, tx, lookups)
		if err != nil {
			return err
		}
		userID = user.ID
		return consumeError(tx.ConsumeCode(ctx, user.ID, code, map[string]any{
			"password_hash":     hash,
			"verification_code": nil,
			"token_expiry":      nil,
			"session_token":     nil,
		}))
	})
	if err != nil {
		observability.RecordAuthFlowEvent(ctx, "password_reset_complete", flowOutcome(err))
		return err
	}
	observability.RecordAuthFlowEvent(ctx, "password_reset_complete", "success")
	s.logger.InfoContext(ctx, "password reset completed", "user_id", userID)
	return nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" {
		return validationError("old password is required")
	}
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.users.WithinTransaction(ctx, func(tx repository.UserRepository) error {
		user, err := tx.FindByID(ctx, userID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		ok, err := s.hasher.Verify(user.PasswordHash, oldPassword)
		if err != nil || !ok {
			return ErrInvalidCredentials
		}
		user.PasswordHash = hash
		return tx.Save(ctx, user)
	})
	if err != nil {
		observability.RecordAuthFlowEvent(ctx, "password_change", flowOutcome(err))
		return err
	}
	observability.RecordAuthFlowEvent(ctx, "password_change", "success")
	return nil
}

func (s *AccountService) CheckEmail(ctx context.Context, rawEmail string) (bool, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return false, err
	}
	return s.users.ExistsByEmail(ctx, email)
}

func (s *AccountService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// resolveCode tries each lookup in order and returns the first holder whose
// code has not expired. Wrong and expired codes are indistinguishable.
func (s *AccountService) resolveCode(ctx context.Context, users repository.UserRepository, lookups []repository.CodeLookup) (*domain.User, error) {
	now := s.now().UTC()
	for _, lookup := range lookups {
		lookup.ValidAt = now
		user, err := users.FindByCode(ctx, lookup)
		if errors.Is(err, repository.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !user.CodeValidAt(now) {
			return nil, ErrInvalidOrExpiredCode
		}
		return user, nil
	}
	return nil, ErrInvalidOrExpiredCode
}

func (s *AccountService) throttled(user *domain.User, now time.Time) bool {
	if user.LastEmailSent == nil || s.policy.ResendInterval <= 0 {
		return false
	}
	return now.Sub(user.LastEmailSent.UTC()) < s.policy.ResendInterval
}

func (s *AccountService) validatePassword(password string) error {
	if password == "" {
		return validationError("password is required")
	}
	if len(password) < s.policy.PasswordMinLength {
		return validationError("password must be at least %d characters", s.policy.PasswordMinLength)
	}
	return nil
}

// codeLookups yields the session-bound lookup first when a session token is
// present, then the email and code lookup.
func codeLookups(in CodeInput) []repository.CodeLookup {
	lookups := make([]repository.CodeLookup, 0, 2)
	if in.SessionToken != "" {
		lookups = append(lookups, repository.CodeLookup{Email: in.Email, Code: in.Code, SessionToken: in.SessionToken})
	}
	return append(lookups, repository.CodeLookup{Email: in.Email, Code: in.Code})
}

func normalizeCodeInput(in CodeInput) (CodeInput, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return CodeInput{}, err
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return CodeInput{}, validationError("code is required")
	}
	return CodeInput{Email: email, Code: code, SessionToken: strings.TrimSpace(in.SessionToken)}, nil
}

// normalizeEmail trims whitespace only. Matching stays case-sensitive.
func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", validationError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationError("email is invalid")
	}
	return email, nil
}

// consumeError maps a lost race on the code to the merged code error.
func consumeError(err error) error {
	if errors.Is(err, repository.ErrCodeNotMatched) {
		return ErrInvalidOrExpiredCode
	}
	return err
}

func flowOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrInvalidOrExpiredCode):
		return "invalid_code"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnknownEmail):
		return "unknown_email"
	case errors.Is(err, ErrDuplicateAccount):
		return "duplicate"
	default:
		return "error"
	}
}
