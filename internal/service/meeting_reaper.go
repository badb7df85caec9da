package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
)

// ReaperLease decides whether this process may run the current tick.
type ReaperLease interface {
	Acquire(ctx context.Context) (bool, error)
}

// RedisReaperLease grants a tick to whichever replica sets the key first. The
// key expires on its own, so a crashed holder never blocks the others for
// longer than ttl.
type RedisReaperLease struct {
	client redis.UniversalClient
	key    string
	owner  string
	ttl    time.Duration
}

func NewRedisReaperLease(client redis.UniversalClient, key, owner string, ttl time.Duration) *RedisReaperLease {
	return &RedisReaperLease{client: client, key: key, owner: owner, ttl: ttl}
}

func (l *RedisReaperLease) Acquire(ctx context.Context) (bool, error) {
	_, err := l.client.SetArgs(ctx, l.key, l.owner, redis.SetArgs{Mode: "NX", TTL: l.ttl}).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MeetingReaper deletes meetings whose end time has passed.
type MeetingReaper struct {
	meetings repository.MeetingRepository
	lease    ReaperLease
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	lastSweep atomic.Int64
}

func NewMeetingReaper(meetings repository.MeetingRepository, lease ReaperLease, interval time.Duration, logger *slog.Logger) *MeetingReaper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetingReaper{meetings: meetings, lease: lease, interval: interval, logger: logger, now: time.Now}
}

func (r *MeetingReaper) Interval() time.Duration { return r.interval }

// LastSweep returns when the last sweep completed without error, or the zero
// time if none has.
func (r *MeetingReaper) LastSweep() time.Time {
	ns := r.lastSweep.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

// RunOnce deletes every meeting that ended before now in one batch.
func (r *MeetingReaper) RunOnce(ctx context.Context, now time.Time) (int64, error) {
	if r.lease != nil {
		ok, err := r.lease.Acquire(ctx)
		if err != nil {
			observability.RecordReaperRun(ctx, "lease_error")
			return 0, fmt.Errorf("acquire reaper lease: %w", err)
		}
		if !ok {
			observability.RecordReaperRun(ctx, "skipped")
			return 0, nil
		}
	}
	deleted, err := r.meetings.DeleteExpired(ctx, now)
	if err != nil {
		observability.RecordReaperRun(ctx, "error")
		return 0, err
	}
	observability.RecordReaperRun(ctx, "success")
	observability.RecordReaperDeletedRows(ctx, deleted)
	return deleted, nil
}

// Run sweeps immediately and then on every interval until ctx is cancelled.
// Failed sweeps are logged and retried on the next tick.
func (r *MeetingReaper) Run(ctx context.Context) error {
	r.logger.Info("meeting reaper started", "interval", r.interval.String())
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("meeting reaper stopped")
			return nil
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *MeetingReaper) sweep(ctx context.Context) {
	deleted, err := r.RunOnce(ctx, r.now())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("meeting reaper sweep failed", "error", err)
		return
	}
	r.lastSweep.Store(r.now().UnixNano())
	if deleted > 0 {
		r.logger.Info("expired meetings deleted", "count", deleted)
	}
}
