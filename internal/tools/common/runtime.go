package common

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/edumeet-backend/internal/config"
	"github.com/sandeepkv93/edumeet-backend/internal/database"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/tools/ui"
)

// LoadConfigDB loads envFile into the environment, then opens the configured
// database. Callers own the returned connection.
func LoadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// Run executes fn directly in CI mode and behind the terminal UI otherwise.
// title is "<tool> <command>" and labels the recorded run.
func Run(ci bool, timeout time.Duration, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	tool, command, _ := strings.Cut(title, " ")
	start := time.Now()

	var (
		details []string
		err     error
	)
	if ci {
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		details, err = fn(ctx)
	} else {
		details, err = ui.Run(title, fn)
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.RecordToolCommandRun(context.Background(), tool, command, outcome)
	observability.RecordToolCommandDuration(context.Background(), tool, command, outcome, time.Since(start))
	return details, err
}
