package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
)

type ScheduleInput struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
	ClassID   uint
}

type MeetingService struct {
	meetings repository.MeetingRepository
	classes  repository.ClassRepository
	users    repository.UserRepository
	calendar CalendarProvider
	timeout  time.Duration
	logger   *slog.Logger
}

func NewMeetingService(
	meetings repository.MeetingRepository,
	classes repository.ClassRepository,
	users repository.UserRepository,
	calendar CalendarProvider,
	timeout time.Duration,
	logger *slog.Logger,
) *MeetingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetingService{
		meetings: meetings,
		classes:  classes,
		users:    users,
		calendar: calendar,
		timeout:  timeout,
		logger:   logger,
	}
}

// Schedule books a calendar event and persists the meeting only once a link
// exists. Calendar failures surface as ErrCalendarUnavailable.
func (s *MeetingService) Schedule(ctx context.Context, in ScheduleInput) (*domain.Meeting, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return nil, validationError("start_time and end_time are required")
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, validationError("end_time must be after start_time")
	}
	if _, err := s.classes.FindByID(ctx, in.ClassID); err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	calCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		calCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	link, err := s.calendar.CreateEvent(calCtx, TimeRange{Title: title, Start: in.StartTime, End: in.EndTime})
	if err != nil || link == "" {
		observability.RecordMeetingEvent(ctx, "schedule", "calendar_error")
		s.logger.ErrorContext(ctx, "calendar event creation failed", "class_id", in.ClassID, "error", err)
		return nil, ErrCalendarUnavailable
	}

	meeting := &domain.Meeting{
		Title:     title,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Link:      &link,
		ClassID:   in.ClassID,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		observability.RecordMeetingEvent(ctx, "schedule", "error")
		return nil, err
	}
	observability.RecordMeetingEvent(ctx, "schedule", "success")
	return meeting, nil
}

func (s *MeetingService) List(ctx context.Context, q repository.MeetingListQuery) (repository.PageResult[domain.Meeting], error) {
	return s.meetings.ListPaged(ctx, q)
}

func (s *MeetingService) CreateClass(ctx context.Context, name string, teacherID uint) (*domain.Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}
	class := &domain.Class{Name: name, TeacherID: teacherID}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}
	observability.RecordMeetingEvent(ctx, "create_class", "success")
	return class, nil
}

func (s *MeetingService) Enroll(ctx context.Context, classID, studentID uint) error {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			return ErrNotFound
		}
		return err
	}
	if _, err := s.users.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.classes.Enroll(ctx, classID, studentID)
}
