package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateAccount     = errors.New("an account with this email already exists")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnknownEmail         = errors.New("email not registered")
	ErrRateLimited          = errors.New("please wait before requesting another code")
	ErrCalendarUnavailable  = errors.New("calendar provider unavailable")
	ErrNotFound             = errors.New("resource not found")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
