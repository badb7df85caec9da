package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/sandeepkv93/edumeet-backend/internal/config"
	"github.com/sandeepkv93/edumeet-backend/internal/database"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	DB            *gorm.DB
	Redis         redis.UniversalClient
	Reaper        *service.MeetingReaper
	Dispatcher    *service.AsyncCodeDispatcher
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	reaper *service.MeetingReaper,
	dispatcher *service.AsyncCodeDispatcher,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		DB:            db,
		Redis:         redisClient,
		Reaper:        reaper,
		Dispatcher:    dispatcher,
	}
}

// Run serves HTTP and runs the meeting reaper until ctx is cancelled or
// either of them fails, then releases every resource.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("server starting", "addr", ln.Addr().String())
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if a.Reaper != nil && a.Config.ReaperEnabled {
		g.Go(func() error { return a.Reaper.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), durationOr(a.Config.ShutdownHTTPDrainTimeout, 10*time.Second))
		defer cancel()
		if err := a.Server.Shutdown(drainCtx); err != nil {
			a.Logger.Error("failed to shutdown http server", "error", err)
			return err
		}
		return nil
	})

	runErr := g.Wait()
	closeCtx, cancel := context.WithTimeout(context.Background(), durationOr(a.Config.ShutdownTimeout, 20*time.Second))
	defer cancel()
	return errors.Join(runErr, a.Close(closeCtx))
}

// Close waits for queued code deliveries, then flushes telemetry and closes
// the stores.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Dispatcher != nil {
		if err := a.Dispatcher.Wait(ctx); err != nil {
			a.Logger.Warn("pending code deliveries abandoned", "error", err)
			errs = append(errs, err)
		}
	}
	if a.Observability != nil {
		obsCtx, cancel := context.WithTimeout(ctx, durationOr(a.Config.ShutdownObservabilityTimeout, 8*time.Second))
		if err := a.Observability.Shutdown(obsCtx); err != nil {
			a.Logger.Error("failed to shutdown observability", "error", err)
			errs = append(errs, err)
		}
		cancel()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", "error", err)
			errs = append(errs, err)
		}
	}
	if err := database.Close(a.DB); err != nil {
		a.Logger.Error("failed to close database connection", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
