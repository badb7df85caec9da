package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type SeedUserInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

type SeedReport struct {
	User    domain.User `json:"user"`
	Created bool        `json:"created"`
}

// SeedUser creates an already active account for local testing. An existing
// account with the same email is returned untouched.
func SeedUser(ctx context.Context, db *gorm.DB, hasher PasswordHasher, in SeedUserInput) (*SeedReport, error) {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(ctx, "seed", time.Since(start))
	}()

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, errors.New("email and password are required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleTeacher
	}
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	var existing domain.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		observability.RecordDatabaseStartupEvent(ctx, "seed", "noop")
		return &SeedReport{User: existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		observability.RecordDatabaseStartupEvent(ctx, "seed", "error")
		return nil, err
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "seed", "error")
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	u := domain.User{
		FullName:     in.FullName,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "seed", "error")
		return nil, err
	}
	observability.RecordDatabaseStartupEvent(ctx, "seed", "success")
	return &SeedReport{User: u, Created: true}, nil
}

func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var users []domain.User
	err := db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

// DeleteUserByEmail removes the account and reports whether one existed.
func DeleteUserByEmail(ctx context.Context, db *gorm.DB, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, errors.New("email is required")
	}
	tx := db.WithContext(ctx).Where("email = ?", email).Delete(&domain.User{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
