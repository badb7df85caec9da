package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
)

type MeetingListQuery struct {
	PageRequest
	ClassID uint
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	ListPaged(ctx context.Context, q MeetingListQuery) (PageResult[domain.Meeting], error)
	FindExpired(ctx context.Context, before time.Time) ([]domain.Meeting, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type GormMeetingRepository struct{ db *gorm.DB }

func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &GormMeetingRepository{db: db}
}

func (r *GormMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	meeting.StartTime = meeting.StartTime.UTC()
	meeting.EndTime = meeting.EndTime.UTC()
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "meeting", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "meeting", "create", "success")
	return nil
}

func (r *GormMeetingRepository) ListPaged(ctx context.Context, q MeetingListQuery) (PageResult[domain.Meeting], error) {
	normalized := normalizePageRequest(q.PageRequest)
	result := PageResult[domain.Meeting]{Page: normalized.Page, PageSize: normalized.PageSize}

	base := r.db.WithContext(ctx).Model(&domain.Meeting{})
	if q.ClassID != 0 {
		base = base.Where("class_id = ?", q.ClassID)
	}
	if err := base.Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "meeting", "list_paged", "error")
		return PageResult[domain.Meeting]{}, err
	}
	offset := (normalized.Page - 1) * normalized.PageSize
	if err := base.Order("start_time asc, id asc").Offset(offset).Limit(normalized.PageSize).Find(&result.Items).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "meeting", "list_paged", "error")
		return PageResult[domain.Meeting]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, normalized.PageSize)
	observability.RecordRepositoryOperation(ctx, "meeting", "list_paged", "success")
	return result, nil
}

func (r *GormMeetingRepository) FindExpired(ctx context.Context, before time.Time) ([]domain.Meeting, error) {
	var meetings []domain.Meeting
	if err := r.db.WithContext(ctx).Where("end_time < ?", before.UTC()).Order("id asc").Find(&meetings).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "meeting", "find_expired", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "meeting", "find_expired", "success")
	return meetings, nil
}

// DeleteByIDs removes the given meetings. Ids already gone are ignored.
func (r *GormMeetingRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Meeting{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "meeting", "delete_by_ids", "error")
		return 0, res.Error
	}
	observability.RecordRepositoryOperation(ctx, "meeting", "delete_by_ids", "success")
	return res.RowsAffected, nil
}

// DeleteExpired selects and deletes every meeting that ended before the
// given instant in one transaction.
func (r *GormMeetingRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&domain.Meeting{}).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("end_time < ?", before.UTC()).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		res := tx.Where("id IN ?", ids).Delete(&domain.Meeting{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "meeting", "delete_expired", "error")
		return 0, err
	}
	observability.RecordRepositoryOperation(ctx, "meeting", "delete_expired", "success")
	return deleted, nil
}
