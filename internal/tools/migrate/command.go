package migrate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm/schema"

	"github.com/sandeepkv93/edumeet-backend/internal/database"
	"github.com/sandeepkv93/edumeet-backend/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tooling",
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newUpCommand(opts),
		newStatusCommand(opts),
		newPlanCommand(opts),
	)
	return cmd
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Create or update users, classes, enrollments and meetings tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "migrate up", func(ctx context.Context) ([]string, error) {
				cfg, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer func() { _ = database.Close(db) }()

				if err := database.Migrate(db.WithContext(ctx)); err != nil {
					return nil, err
				}
				return []string{
					"schema migration applied",
					"driver: " + cfg.DatabaseDriver,
					"tables: " + strings.Join(tableNames(), ", "),
				}, nil
			})
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report which tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "migrate status", func(ctx context.Context) ([]string, error) {
				cfg, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer func() { _ = database.Close(db) }()

				sqlDB, err := db.DB()
				if err != nil {
					return nil, err
				}
				if err := sqlDB.PingContext(ctx); err != nil {
					return nil, fmt.Errorf("db ping: %w", err)
				}
				details := []string{"database reachable", "driver: " + cfg.DatabaseDriver}
				missing := 0
				for _, m := range database.Models() {
					state := "present"
					if !db.Migrator().HasTable(m) {
						state = "missing"
						missing++
					}
					details = append(details, fmt.Sprintf("%s: %s", tableName(m), state))
				}
				if missing > 0 {
					return details, fmt.Errorf("%d table(s) missing, run migrate up", missing)
				}
				return details, nil
			})
		},
	}
}

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show migration plan (dry-run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "migrate plan", func(ctx context.Context) ([]string, error) {
				return []string{
					"would apply AutoMigrate for domain models",
					strings.Join(tableNames(), ", "),
					"no mutation executed in plan mode",
				}, nil
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

func tableNames() []string {
	models := database.Models()
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, tableName(m))
	}
	return names
}

var schemaCache sync.Map

func tableName(model any) string {
	s, err := schema.Parse(model, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return fmt.Sprintf("%T", model)
	}
	return s.Table
}
