package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	repogomock "github.com/sandeepkv93/edumeet-backend/internal/repository/gomock"
)

func TestMeetingReaperDeletesOnlyPastMeetings(t *testing.T) {
	db := newServiceDBForTest(t)
	meetings := repository.NewMeetingRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	yesterday := &domain.Meeting{Title: "past", StartTime: now.Add(-25 * time.Hour), EndTime: now.Add(-24 * time.Hour), ClassID: 1}
	tomorrow := &domain.Meeting{Title: "future", StartTime: now.Add(24 * time.Hour), EndTime: now.Add(25 * time.Hour), ClassID: 1}
	for _, m := range []*domain.Meeting{yesterday, tomorrow} {
		if err := meetings.Create(ctx, m); err != nil {
			t.Fatalf("seed meeting: %v", err)
		}
	}

	reaper := NewMeetingReaper(meetings, nil, time.Minute, discardLogger())
	deleted, err := reaper.RunOnce(ctx, now)
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	deleted, err = reaper.RunOnce(ctx, now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected no-op second run, got %d", deleted)
	}

	var remaining []domain.Meeting
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != tomorrow.ID {
		t.Fatalf("expected only future meeting left, got %+v", remaining)
	}
}

func TestMeetingReaperLeaseMatrix(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	leaseErr := errors.New("redis down")
	cases := []struct {
		name        string
		acquired    bool
		acquireErr  error
		expectPurge bool
		wantErr     error
	}{
		{name: "held elsewhere skips", acquired: false},
		{name: "acquired purges", acquired: true, expectPurge: true},
		{name: "lease error", acquireErr: leaseErr, wantErr: leaseErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := repogomock.NewMockMeetingRepository(ctrl)
			lease := NewMockReaperLease(ctrl)
			lease.EXPECT().Acquire(gomock.Any()).Return(tc.acquired, tc.acquireErr)
			if tc.expectPurge {
				repo.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(4), nil)
			}

			deleted, err := NewMeetingReaper(repo, lease, time.Minute, discardLogger()).RunOnce(context.Background(), now)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("run once: %v", err)
			}
			if tc.expectPurge && deleted != 4 {
				t.Fatalf("expected 4 deleted, got %d", deleted)
			}
			if !tc.expectPurge && deleted != 0 {
				t.Fatalf("expected skip, got %d", deleted)
			}
		})
	}
}

func TestRedisReaperLeaseSingleHolder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	a := NewRedisReaperLease(client, "reaper:lease", "instance-a", 10*time.Second)
	b := NewRedisReaperLease(client, "reaper:lease", "instance-b", 10*time.Second)

	ok, err := a.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected first acquire, got %v %v", ok, err)
	}
	ok, err = b.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("expected second acquire to be refused, got %v %v", ok, err)
	}
	if owner, _ := client.Get(ctx, "reaper:lease").Result(); owner != "instance-a" {
		t.Fatalf("expected owner instance-a, got %q", owner)
	}

	mr.FastForward(11 * time.Second)
	ok, err = b.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected acquire after expiry, got %v %v", ok, err)
	}
}

func TestMeetingReaperRunSweepsUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockMeetingRepository(ctrl)
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(context.Context, time.Time) (int64, error) {
			n := runs.Add(1)
			if n == 1 {
				return 0, errors.New("transient")
			}
			if n >= 3 {
				cancel()
			}
			return 1, nil
		})

	reaper := NewMeetingReaper(repo, nil, 5*time.Millisecond, discardLogger())
	done := make(chan error, 1)
	go func() { done <- reaper.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not stop after cancellation")
	}
	if runs.Load() < 3 {
		t.Fatalf("expected at least 3 sweeps, got %d", runs.Load())
	}
	if reaper.LastSweep().IsZero() {
		t.Fatal("expected last sweep recorded after a successful run")
	}
}

func TestMeetingReaperLastSweepIgnoresFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repogomock.NewMockMeetingRepository(ctrl)
	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))

	reaper := NewMeetingReaper(repo, nil, 0, discardLogger())
	if reaper.Interval() != 30*time.Second {
		t.Fatalf("default interval=%s", reaper.Interval())
	}
	reaper.sweep(context.Background())
	if !reaper.LastSweep().IsZero() {
		t.Fatalf("failed sweep must not advance last sweep: %s", reaper.LastSweep())
	}

	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	reaper.now = func() time.Time { return fixed }
	repo.EXPECT().DeleteExpired(gomock.Any(), fixed).Return(int64(2), nil)
	reaper.sweep(context.Background())
	if !reaper.LastSweep().Equal(fixed) {
		t.Fatalf("last sweep=%s want %s", reaper.LastSweep(), fixed)
	}
}
