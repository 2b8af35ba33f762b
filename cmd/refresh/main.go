// Команда refresh выполняет один запуск пайплайна (cron / CI) и выходит
// с ненулевым кодом, если запуск не удался.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coffer_scanner/internal/application"
	"coffer_scanner/internal/config"
	"coffer_scanner/pkg/contextx"
	"coffer_scanner/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("refresh failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

type flags struct {
	maxCandidates int
	store         string
	logLevel      string
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "refresh",
		Short:         "Run the coffer ROI pipeline once and publish a snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	root.Flags().IntVar(&f.maxCandidates, "max-candidates", -1, "enrich at most N candidates (0 = all, -1 = from env)")
	root.Flags().StringVar(&f.store, "store", "", "snapshot store driver override: postgres, blob or memory")
	root.Flags().StringVar(&f.logLevel, "log-level", "", "log level override")

	return root
}

func run(cmd *cobra.Command, f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	if err = f.apply(&cfg); err != nil {
		return err
	}

	log := logx.NewConsoleLogger(os.Stdout, cfg.App.LogLevel).With(
		slog.String(logx.FieldAppName, cfg.App.Name+"-refresh"),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx := contextx.WithLogger(cmd.Context(), log)

	app, err := application.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("application.New: %w", err)
	}
	defer app.Close(context.WithoutCancel(ctx))

	report, err := app.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("app.RunOnce: %w", err)
	}

	log.Info("refresh done",
		slog.String(logx.FieldRunID, report.RunID),
		slog.Int("published", report.Stats.Published),
		slog.Int("failed", report.Stats.FailCount),
		slog.String(logx.FieldSnapshot, report.Snapshot.Pathname),
		slog.Duration("duration", report.Duration()),
	)

	return nil
}

func (f flags) apply(cfg *config.Config) error {
	if f.maxCandidates >= 0 {
		cfg.Pipeline.MaxCandidates = f.maxCandidates
	}
	if f.store != "" {
		cfg.Store.Driver = f.store
	}
	if f.logLevel != "" {
		cfg.App.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}

	return nil
}
