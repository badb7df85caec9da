package observability

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var redisInstrumentationOnce sync.Once

// InstrumentRedisClient installs command metrics on the client used by the
// rate limiter and the reaper lease. Only the first call per process wins.
func InstrumentRedisClient(client redis.UniversalClient, logger *slog.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	redisInstrumentationOnce.Do(func() {
		hook, err := newRedisMetricsHook(otel.Meter(meterName), client)
		if err != nil {
			logger.Warn("redis observability instrumentation disabled", "error", err)
			return
		}
		client.AddHook(hook)
		logger.Info("redis observability instrumentation enabled")
	})
}

type redisMetricsHook struct {
	cmdTotal   metric.Int64Counter
	cmdErrors  metric.Int64Counter
	cmdLatency metric.Float64Histogram
	keyspace   metric.Int64Counter
}

func newRedisMetricsHook(meter metric.Meter, client redis.UniversalClient) (*redisMetricsHook, error) {
	b := instrumentBuilder{meter: meter}
	hook := &redisMetricsHook{
		cmdTotal:   b.counter("redis.command.total", "Total number of Redis commands executed"),
		cmdErrors:  b.counter("redis.command.errors", "Total number of Redis command errors"),
		cmdLatency: b.seconds("redis.command.duration", "Redis command latency in seconds"),
		keyspace:   b.counter("redis.keyspace.lookups", "Redis key lookups by hit or miss"),
	}
	if b.err != nil {
		return nil, b.err
	}

	saturation, err := meter.Float64ObservableGauge(
		"redis.pool.saturation",
		metric.WithUnit("1"),
		metric.WithDescription("Redis pool saturation ratio (used_conns / total_conns)"),
	)
	if err != nil {
		return nil, err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		stats := client.PoolStats()
		if stats != nil && stats.TotalConns > 0 {
			used := stats.TotalConns - stats.IdleConns
			observer.ObserveFloat64(saturation, clampRatio(float64(used)/float64(stats.TotalConns)))
		}
		return nil
	}, saturation)
	if err != nil {
		return nil, err
	}
	return hook, nil
}

func (h *redisMetricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *redisMetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.observe(ctx, cmd, err, time.Since(start))
		return err
	}
}

func (h *redisMetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.cmdLatency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("command", "pipeline"),
			attribute.String("status", redisCommandStatus(err)),
		))
		for _, cmd := range cmds {
			h.observe(ctx, cmd, cmd.Err(), 0)
		}
		return err
	}
}

// observe records one command. A zero duration skips the latency histogram
// for commands timed as part of a pipeline.
func (h *redisMetricsHook) observe(ctx context.Context, cmd redis.Cmder, err error, d time.Duration) {
	command := strings.ToLower(cmd.Name())
	status := redisCommandStatus(err)
	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	)
	h.cmdTotal.Add(ctx, 1, attrs)
	if d > 0 {
		h.cmdLatency.Record(ctx, d.Seconds(), attrs)
	}
	if status == "error" {
		h.cmdErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("error_type", classifyRedisError(err)),
		))
	}
	if outcome, ok := classifyKeyspaceOutcome(cmd); ok {
		h.keyspace.Add(ctx, 1, metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("outcome", outcome),
		))
	}
}

func redisCommandStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, redis.Nil):
		return "miss"
	default:
		return "error"
	}
}

func classifyRedisError(err error) string {
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"):
		return "timeout"
	case strings.Contains(errStr, "connection"):
		return "connection"
	default:
		return "other"
	}
}

// classifyKeyspaceOutcome maps lookups the service issues to hit or miss.
// SET NX is the reaper lease: a nil reply means another holder owns the key.
func classifyKeyspaceOutcome(cmd redis.Cmder) (string, bool) {
	err := cmd.Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", false
	}
	switch strings.ToLower(cmd.Name()) {
	case "get":
		if errors.Is(err, redis.Nil) {
			return "miss", true
		}
		return "hit", true
	case "set":
		if !isNXSet(cmd) {
			return "", false
		}
		if errors.Is(err, redis.Nil) {
			return "held", true
		}
		return "acquired", true
	case "pttl":
		ttlCmd, ok := cmd.(*redis.DurationCmd)
		if !ok {
			return "", false
		}
		if ttlCmd.Val() == -2 {
			return "miss", true
		}
		return "hit", true
	default:
		return "", false
	}
}

func isNXSet(cmd redis.Cmder) bool {
	for _, arg := range cmd.Args() {
		if s, ok := arg.(string); ok && strings.EqualFold(s, "nx") {
			return true
		}
	}
	return false
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
