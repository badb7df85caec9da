package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCodeNotMatched = errors.New("verification code not matched")
)

// CodeLookup selects a user holding a pending code. Email and SessionToken
// narrow the match when set; an empty Email is the legacy code-only lookup.
// A non-zero ValidAt skips codes that expired at or before it.
type CodeLookup struct {
	Email        string
	Code         string
	SessionToken string
	ValidAt      time.Time
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByCode(ctx context.Context, lookup CodeLookup) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) error
	Save(ctx context.Context, user *domain.User) error
	ConsumeCode(ctx context.Context, userID uint, code string, updates map[string]any) error
	WithinTransaction(ctx context.Context, fn func(tx UserRepository) error) error
}

type GormUserRepository struct {
	db   *gorm.DB
	lock bool
}

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

// WithinTransaction runs fn against a repository bound to one transaction
// whose reads take row locks.
func (r *GormUserRepository) WithinTransaction(ctx context.Context, fn func(tx UserRepository) error) error {
	if r.lock {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormUserRepository{db: tx, lock: true})
	})
}

func (r *GormUserRepository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	return r.first(ctx, "find_by_id", r.query(ctx).Where("id = ?", id), &u)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	return r.first(ctx, "find_by_email", r.query(ctx).Where("email = ?", email), &u)
}

func (r *GormUserRepository) FindByCode(ctx context.Context, lookup CodeLookup) (*domain.User, error) {
	if lookup.Code == "" {
		return nil, ErrUserNotFound
	}
	q := r.query(ctx).Where("verification_code = ?", lookup.Code)
	if lookup.Email != "" {
		q = q.Where("email = ?", lookup.Email)
	}
	if lookup.SessionToken != "" {
		q = q.Where("session_token = ?", lookup.SessionToken)
	}
	if !lookup.ValidAt.IsZero() {
		q = q.Where("token_expiry > ?", lookup.ValidAt.UTC())
	}
	var u domain.User
	return r.first(ctx, "find_by_code", q.Order("id asc"), &u)
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "exists_by_email", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(ctx, "user", "exists_by_email", "success")
	return count > 0, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user", "create", "success")
	return nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "save", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user", "save", "success")
	return nil
}

// ConsumeCode applies updates only while the row still holds code, so a code
// can be spent at most once.
func (r *GormUserRepository) ConsumeCode(ctx context.Context, userID uint, code string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND verification_code = ?", userID, code).
		Updates(updates)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user", "consume_code", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "consume_code", "not_found")
		return ErrCodeNotMatched
	}
	observability.RecordRepositoryOperation(ctx, "user", "consume_code", "success")
	return nil
}

func (r *GormUserRepository) first(ctx context.Context, op string, q *gorm.DB, u *domain.User) (*domain.User, error) {
	if err := q.First(u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "user", op, "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(ctx, "user", op, "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user", op, "success")
	return u, nil
}
