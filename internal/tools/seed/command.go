package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/edumeet-backend/internal/database"
	"github.com/sandeepkv93/edumeet-backend/internal/security"
	"github.com/sandeepkv93/edumeet-backend/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Local account tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newUserCommand(opts), newListCommand(opts), newDeleteCommand(opts))
	return cmd
}

func newUserCommand(opts *options) *cobra.Command {
	var in database.SeedUserInput
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Create an active account that can log in immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "seed user", func(ctx context.Context) ([]string, error) {
				_, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer func() { _ = database.Close(db) }()

				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				report, err := database.SeedUser(ctx, db, security.NewArgon2Hasher(security.DefaultArgonParams), in)
				if err != nil {
					return nil, err
				}
				if !report.Created {
					return []string{fmt.Sprintf("account already exists: id=%d email=%s", report.User.ID, report.User.Email)}, nil
				}
				return []string{fmt.Sprintf("created active %s account: id=%d email=%s", report.User.Role, report.User.ID, report.User.Email)}, nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "test@example.com", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "password123", "account password")
	cmd.Flags().StringVar(&in.FullName, "full-name", "Test User", "display name")
	cmd.Flags().StringVar(&in.Role, "role", "Teacher", "Teacher or Student")
	return cmd
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "seed list", func(ctx context.Context) ([]string, error) {
				_, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer func() { _ = database.Close(db) }()

				users, err := database.ListUsers(ctx, db)
				if err != nil {
					return nil, err
				}
				details := []string{fmt.Sprintf("accounts=%d", len(users))}
				for _, u := range users {
					details = append(details, fmt.Sprintf("id=%d email=%s role=%s active=%t", u.ID, u.Email, u.Role, u.IsActive))
				}
				return details, nil
			})
		},
	}
}

func newDeleteCommand(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "seed delete", func(ctx context.Context) ([]string, error) {
				if strings.TrimSpace(email) == "" {
					return nil, fmt.Errorf("email is required")
				}
				_, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer func() { _ = database.Close(db) }()

				deleted, err := database.DeleteUserByEmail(ctx, db, email)
				if err != nil {
					return nil, err
				}
				if !deleted {
					return []string{"no account found for " + email}, nil
				}
				return []string{"deleted account " + email}, nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the account to delete")
	return cmd
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
