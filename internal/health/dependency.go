package health

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type DBChecker struct {
	db *gorm.DB
}

// NewDBChecker returns nil for a nil db; ProbeRunner skips nil checkers.
func NewDBChecker(db *gorm.DB) Checker {
	if db == nil {
		return nil
	}
	return &DBChecker{db: db}
}

func (c *DBChecker) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: "db", Healthy: true}
	sqlDB, err := c.db.DB()
	if err != nil {
		res.Healthy = false
		res.Error = err.Error()
		return res
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		res.Healthy = false
		res.Error = err.Error()
	}
	return res
}

type RedisChecker struct {
	client redis.UniversalClient
}

func NewRedisChecker(client redis.UniversalClient) Checker {
	if client == nil {
		return nil
	}
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: "redis", Healthy: true}
	if err := c.client.Ping(ctx).Err(); err != nil {
		res.Healthy = false
		res.Error = err.Error()
	}
	return res
}

// SweepReporter exposes the progress of a periodic background sweep.
type SweepReporter interface {
	LastSweep() time.Time
	Interval() time.Duration
}

// ReaperChecker turns unhealthy once the reaper has missed several ticks in a
// row. Before the first sweep it allows the same slack measured from startup.
type ReaperChecker struct {
	reaper    SweepReporter
	missed    int
	startedAt time.Time
	now       func() time.Time
}

func NewReaperChecker(reaper SweepReporter, missed int) Checker {
	if reaper == nil {
		return nil
	}
	if missed <= 0 {
		missed = 3
	}
	return &ReaperChecker{reaper: reaper, missed: missed, startedAt: time.Now(), now: time.Now}
}

func (c *ReaperChecker) Check(context.Context) CheckResult {
	res := CheckResult{Name: "meeting_reaper", Healthy: true}
	last := c.reaper.LastSweep()
	if last.IsZero() {
		last = c.startedAt
	}
	limit := time.Duration(c.missed) * c.reaper.Interval()
	if age := c.now().Sub(last); age > limit {
		res.Healthy = false
		res.Error = fmt.Sprintf("last successful sweep %s ago", age.Truncate(time.Second))
	}
	return res
}
