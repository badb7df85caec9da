package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
)

var ErrClassNotFound = errors.New("class not found")

type ClassRepository interface {
	Create(ctx context.Context, class *domain.Class) error
	FindByID(ctx context.Context, id uint) (*domain.Class, error)
	Enroll(ctx context.Context, classID, studentID uint) error
	ListByStudent(ctx context.Context, studentID uint) ([]domain.Class, error)
}

type GormClassRepository struct{ db *gorm.DB }

func NewClassRepository(db *gorm.DB) ClassRepository { return &GormClassRepository{db: db} }

func (r *GormClassRepository) Create(ctx context.Context, class *domain.Class) error {
	if err := r.db.WithContext(ctx).Create(class).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "class", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "class", "create", "success")
	return nil
}

func (r *GormClassRepository) FindByID(ctx context.Context, id uint) (*domain.Class, error) {
	var c domain.Class
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "class", "find_by_id", "not_found")
			return nil, ErrClassNotFound
		}
		observability.RecordRepositoryOperation(ctx, "class", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "class", "find_by_id", "success")
	return &c, nil
}

// Enroll is idempotent for an existing enrollment.
func (r *GormClassRepository) Enroll(ctx context.Context, classID, studentID uint) error {
	link := domain.StudentClass{ClassID: classID, StudentID: studentID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "class", "enroll", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "class", "enroll", "success")
	return nil
}

func (r *GormClassRepository) ListByStudent(ctx context.Context, studentID uint) ([]domain.Class, error) {
	var classes []domain.Class
	err := r.db.WithContext(ctx).
		Joins("JOIN student_classes ON student_classes.class_id = classes.id").
		Where("student_classes.student_id = ?", studentID).
		Order("classes.id asc").
		Find(&classes).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "class", "list_by_student", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "class", "list_by_student", "success")
	return classes, nil
}
