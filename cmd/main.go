package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"coffer_scanner/internal/application"
	"coffer_scanner/internal/config"
	"coffer_scanner/pkg/contextx"
	"coffer_scanner/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("application failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logx.NewConsoleLogger(os.Stdout, cfg.App.LogLevel).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	app, err := application.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("application.New: %w", err)
	}
	defer app.Close(context.WithoutCancel(ctx))

	log.Info("application started", slog.String("store", cfg.Store.Driver))

	if err := app.Serve(ctx); err != nil {
		return fmt.Errorf("app.Serve: %w", err)
	}

	log.Info("application stopped")

	return nil
}
