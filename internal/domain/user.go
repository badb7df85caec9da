package domain

import "time"

const (
	RoleTeacher = "Teacher"
	RoleStudent = "Student"
)

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	FullName         string     `gorm:"size:255;not null" json:"full_name"`
	Email            string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role             string     `gorm:"size:32;not null;default:Student" json:"role"`
	PasswordHash     string     `gorm:"size:1024;not null" json:"-"`
	IsActive         bool       `gorm:"not null;default:false;index:idx_users_is_active" json:"is_active"`
	VerificationCode *string    `gorm:"size:16;index:idx_users_verification_code" json:"-"`
	TokenExpiry      *time.Time `json:"-"`
	SessionToken     *string    `gorm:"size:64;index:idx_users_session_token" json:"-"`
	LastEmailSent    *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func IsValidRole(role string) bool {
	return role == RoleTeacher || role == RoleStudent
}

// HasPendingCode reports whether a verification or reset code is outstanding.
func (u *User) HasPendingCode() bool {
	return u.VerificationCode != nil && u.TokenExpiry != nil
}

// CodeValidAt reports whether the pending code is still usable at now.
func (u *User) CodeValidAt(now time.Time) bool {
	if !u.HasPendingCode() {
		return false
	}
	return now.UTC().Before(u.TokenExpiry.UTC())
}

func (u *User) ClearCode() {
	u.VerificationCode = nil
	u.TokenExpiry = nil
	u.SessionToken = nil
}
