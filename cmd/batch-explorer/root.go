package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/target/batch-explorer/config"
	"github.com/target/batch-explorer/internal/bootstrap"
	"github.com/target/batch-explorer/internal/data/database"
	apperrors "github.com/target/batch-explorer/internal/errors"
)

// app carries the state shared by every command of one invocation.
// Store connections are opened on first use and released by close.
type app struct {
	output string
	query  string

	cfg    config.AppConfig
	logger *slog.Logger

	db       *sql.DB
	dialect  database.Dialect
	redis    redis.UniversalClient
	services *bootstrap.ServiceContainer
}

// Exit statuses other than 0 (success) and 1 (any other failure).
const (
	exitUsage       = 2
	exitNotFound    = 3
	exitTimeout     = 124
	exitInterrupted = 130
)

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsCanceled(err), errors.Is(err, context.Canceled):
		return exitInterrupted
	case apperrors.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return exitTimeout
	case apperrors.IsValidation(err):
		return exitUsage
	case apperrors.IsNotFound(err):
		return exitNotFound
	default:
		return 1
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	rootCmd := newRootCmd(a)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	a.close()
	if err != nil {
		logger := a.logger
		if logger == nil {
			logger = slog.Default()
		}
		name := rootCmd.Name()
		if cmd != nil {
			name = cmd.CommandPath()
		}
		logger.ErrorContext(ctx, "command failed", "command", name, "code", apperrors.GetCode(err), "error", err)
	}
	return exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "batch-explorer",
		Short: "Browse batch job execution metadata",
		Long: `Read-only explorer over the job execution tables written by a batch runtime.
The store, schema version and table prefixes come from the environment (DB_*, BATCH_*).

Exit status is 2 for invalid input, 3 when the execution or instance does not
exist, 124 when DB_STATEMENT_TIMEOUT expires, 130 when interrupted and 1 otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = bootstrap.InitLogger(cmd.ErrOrStderr(), cfg.SlogLevel())

			if err := validateOutputFormat(a.output); err != nil {
				return err
			}
			if a.query != "" {
				if _, err := jmespath.Compile(a.query); err != nil {
					return fmt.Errorf("invalid --query expression: %w", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVarP(&a.query, "query", "q", "", "JMESPath expression applied to the JSON form of the result")

	rootCmd.AddCommand(newCountCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newGetCmd(a))
	rootCmd.AddCommand(newLatestCmd(a))
	rootCmd.AddCommand(newRunningCmd(a))
	rootCmd.AddCommand(newInstanceCmd(a))
	rootCmd.AddCommand(newSchemaCmd(a))

	return rootCmd
}

// commandContext bounds a command by the configured statement timeout.
func (a *app) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.DB.StatementTimeout > 0 {
		return context.WithTimeout(ctx, a.cfg.DB.StatementTimeout)
	}
	return context.WithCancel(ctx)
}

func (a *app) connect(ctx context.Context, writable bool) error {
	if a.db != nil {
		return nil
	}
	db, dialect, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: a.cfg.DB,
		Logger:   a.logger,
		Writable: writable,
	})
	if err != nil {
		return err
	}
	a.db, a.dialect = db, dialect
	return nil
}

// explorer returns the wired services, connecting to the store on first use.
// An unreachable Redis only disables the count cache.
func (a *app) explorer(ctx context.Context) (*bootstrap.ServiceContainer, error) {
	if a.services != nil {
		return a.services, nil
	}
	if err := a.connect(ctx, false); err != nil {
		return nil, err
	}

	if a.cfg.CountCacheEnabled() {
		client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
			RedisConfig: a.cfg.Redis,
			Logger:      a.logger,
		})
		if err != nil {
			a.logger.WarnContext(ctx, "count cache disabled", "error", err)
		} else {
			a.redis = client
		}
	}

	services, err := bootstrap.NewServices(ctx, bootstrap.ServiceDeps{
		Config:      &a.cfg,
		DB:          a.db,
		Dialect:     a.dialect,
		RedisClient: a.redis,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, err
	}
	a.services = services
	return services, nil
}

func (a *app) close() {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	a.services = nil
	if err := errors.Join(errs...); err != nil && a.logger != nil {
		a.logger.Warn("close connections", "error", err)
	}
}
