package reaper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/edumeet-backend/internal/database"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
	"github.com/sandeepkv93/edumeet-backend/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "reaper", Short: "Expired meeting cleanup tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newRunOnceCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newRunOnceCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run-once",
		Short: "Delete every meeting whose end time has passed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "reaper run-once", func(ctx context.Context) ([]string, error) {
				cfg, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer func() { _ = database.Close(db) }()

				logger := slog.New(slog.NewTextHandler(io.Discard, nil))
				r := service.NewMeetingReaper(repository.NewMeetingRepository(db), nil, cfg.ReaperInterval, logger)
				now := time.Now().UTC()
				deleted, err := r.RunOnce(ctx, now)
				if err != nil {
					return nil, err
				}
				return []string{
					fmt.Sprintf("cutoff=%s", now.Format(time.RFC3339)),
					fmt.Sprintf("deleted=%d", deleted),
				}, nil
			})
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "List meetings the next sweep would delete",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "reaper dry-run", func(ctx context.Context) ([]string, error) {
				_, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer func() { _ = database.Close(db) }()

				now := time.Now().UTC()
				expired, err := repository.NewMeetingRepository(db).FindExpired(ctx, now)
				if err != nil {
					return nil, err
				}
				details := []string{fmt.Sprintf("cutoff=%s expired=%d", now.Format(time.RFC3339), len(expired))}
				for _, m := range expired {
					details = append(details, fmt.Sprintf("meeting id=%d title=%q ended=%s", m.ID, m.Title, m.EndTime.Format(time.RFC3339)))
				}
				return details, nil
			})
		},
	}
}

func execute(opts *options, title string, fn func(context.Context) ([]string, error)) error {
	details, err := common.Run(opts.ci, opts.timeout, title, fn)
	if opts.ci {
		common.PrintCIResult(err == nil, title, details, err)
	}
	if err != nil {
		os.Exit(3)
	}
	return nil
}
