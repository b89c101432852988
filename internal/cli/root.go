package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/guildhall/mmoawards/internal/config"
	"github.com/guildhall/mmoawards/internal/logging"
	"github.com/guildhall/mmoawards/internal/reporting"
)

// RootOptions holds global flags and per-invocation state for all commands
type RootOptions struct {
	Verbose bool
	Memory  bool

	// Loaded from the environment unless Memory is set
	Config config.Config

	backend  *Backend
	cleanups []func()
}

func (o *RootOptions) addCleanup(cleanup func()) {
	o.cleanups = append(o.cleanups, cleanup)
}

func (o *RootOptions) cleanup() {
	for i := len(o.cleanups) - 1; i >= 0; i-- {
		o.cleanups[i]()
	}
	o.cleanups = nil
}

func newRootCommand(opts *RootOptions, newBackend BackendFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "awardctl",
		Short:         "Operate the mmoawards event store and award engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			ctx := logging.AddToContext(cmd.Context(), logger)

			if !opts.Memory {
				conf, err := config.ConfigFromEnv()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				opts.Config = conf

				sentryCtx, flush, err := reporting.NewSentryContextOrMock(ctx, conf)
				if err != nil {
					return fmt.Errorf("failed to initialize Sentry: %w", err)
				}
				ctx = sentryCtx
				opts.addCleanup(flush)
			}

			backend, err := newBackend(ctx, opts, logger)
			if err != nil {
				return err
			}
			opts.backend = backend
			opts.addCleanup(func() {
				if err := backend.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close backend", "error", err.Error())
				}
			})

			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().BoolVar(&opts.Memory, "memory", false, "use an in-process store instead of Postgres (state is discarded on exit)")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newUserCommand(opts))
	cmd.AddCommand(newGuildCommand(opts))
	cmd.AddCommand(newPlayerCommand(opts))
	cmd.AddCommand(newEventCommand(opts))
	cmd.AddCommand(newAwardsCommand(opts))

	return cmd
}

// NewRootCommand creates the awardctl command tree. Callers that execute it directly
// own cleanup of the backend. Prefer Run.
func NewRootCommand(newBackend BackendFactory) *cobra.Command {
	return newRootCommand(&RootOptions{}, newBackend)
}

// Run executes awardctl with args and releases the backend afterwards
func Run(ctx context.Context, newBackend BackendFactory, args []string, stdout, stderr io.Writer) error {
	opts := &RootOptions{}
	defer opts.cleanup()

	cmd := newRootCommand(opts, newBackend)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd.ExecuteContext(ctx)
}

var errMissingBackend = errors.New("backend not initialized")

func backendFrom(opts *RootOptions) (*Backend, error) {
	if opts.backend == nil {
		return nil, errMissingBackend
	}
	return opts.backend, nil
}

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			if err := backend.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}
