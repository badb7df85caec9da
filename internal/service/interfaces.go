package service

import (
	"context"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
)

type AccountServiceInterface interface {
	RequestSignup(ctx context.Context, in SignupInput) (*CodeIssued, error)
	ResendSignupCode(ctx context.Context, email string) (*CodeIssued, error)
	VerifyIdentity(ctx context.Context, in CodeInput) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) (*CodeIssued, error)
	VerifyResetCode(ctx context.Context, in CodeInput) (*ResetCodeStatus, error)
	CompletePasswordReset(ctx context.Context, in ResetInput) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	CheckEmail(ctx context.Context, email string) (bool, error)
	GetProfile(ctx context.Context, userID uint) (*domain.User, error)
}

type SessionIssuerInterface interface {
	Authenticate(ctx context.Context, email, password string) (*LoginResult, error)
}

type MeetingServiceInterface interface {
	Schedule(ctx context.Context, in ScheduleInput) (*domain.Meeting, error)
	List(ctx context.Context, q repository.MeetingListQuery) (repository.PageResult[domain.Meeting], error)
	CreateClass(ctx context.Context, name string, teacherID uint) (*domain.Class, error)
	Enroll(ctx context.Context, classID, studentID uint) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) (bool, error)
}

// CodeSender hands a code to the delivery pipeline without blocking.
type CodeSender interface {
	Dispatch(ctx context.Context, to, code string, kind CodeKind)
}
