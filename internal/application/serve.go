package application

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"coffer_scanner/internal/server"
	"coffer_scanner/internal/transport/bot"
	"coffer_scanner/internal/transport/bot/handler"
	"coffer_scanner/internal/worker"
	"coffer_scanner/pkg/application/modules"
	"coffer_scanner/pkg/logx"
	"coffer_scanner/pkg/middlewarex"
)

const httpServerReadHeaderTimeout = 5 * time.Second

type refreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, reason string) (worker.Ticket, error)
}

// Serve запускает сервис: периодическое обновление, HTTP API, probe,
// метрики, опционально asynq и Telegram-бота. Блокирует до отмены ctx.
func (a *Application) Serve(ctx context.Context) error {
	refresher := worker.NewRefresher(a.pipeline, a.cfg.Pipeline.RefreshInterval).
		WithRunOnStart(a.cfg.Pipeline.RunOnStart)

	var enqueuer refreshEnqueuer = worker.NewLocalEnqueuer(refresher)

	if a.cfg.Asynq.Enabled {
		client := asynq.NewClient(a.redis.AsynqOpt())
		defer func() {
			if err := client.Close(); err != nil {
				a.log.Error("asynqClient.Close", logx.Error(err))
			}
		}()

		enqueuer = worker.NewQueueEnqueuer(client, a.cfg.Asynq.Queue)
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: a.cfg.App.ShutdownTimeout}.Run(ctx, g, a.httpServer(ctx, enqueuer))

	modules.ProbeServer{
		Name:          a.cfg.App.Name,
		Version:       a.cfg.App.Version,
		ListenAddress: a.cfg.App.ProbeAddress,
		Ready:         a.ready,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: a.cfg.App.MetricsAddress}.Run(ctx, g)

	if a.cfg.Asynq.Enabled {
		modules.AsynqServer{
			Redis:           a.redis.AsynqOpt(),
			Concurrency:     a.cfg.Asynq.Concurrency,
			ShutdownTimeout: a.cfg.App.ShutdownTimeout,
		}.Run(
			ctx,
			g,
			modules.AsynqQueues{a.cfg.Asynq.Queue: 1},
			modules.AsynqHandler{Pattern: worker.TypeRefresh, Handle: refresher.HandleRefreshTask},
		)
	}

	if err := refresher.Start(ctx); err != nil {
		return fmt.Errorf("refresher.Start: %w", err)
	}

	g.Go(func() error {
		<-ctx.Done()
		refresher.Stop()

		return nil
	})

	if a.cfg.Bot.Enabled() {
		adminID := a.cfg.Bot.AdminID
		if adminID == 0 {
			adminID = a.cfg.Bot.ChatID
		}

		b, err := bot.New(a.cfg.Bot.Token, handler.New(a.reader, refresher, enqueuer), adminID)
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			if err := b.Run(ctx); err != nil {
				return fmt.Errorf("bot.Run: %w", err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

func (a *Application) httpServer(ctx context.Context, enqueuer refreshEnqueuer) *http.Server {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(
		middlewarex.TraceID,
		middlewarex.Metrics,
		middlewarex.Logger(a.log),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, a.cfg.App.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, a.cfg.App.LogFieldMaxLen),
	)

	server.NewServer(
		server.NewItemsServer(a.reader),
		server.NewRefreshServer(enqueuer),
	).RegisterRoutes(r)

	return &http.Server{
		//nolint:exhaustruct
		Addr:              a.cfg.App.HTTPAddress,
		Handler:           r,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}

// ready считает сервис готовым, пока хранилище снапшотов отвечает.
func (a *Application) ready(ctx context.Context) error {
	if _, err := a.reader.Snapshots(ctx); err != nil {
		return fmt.Errorf("reader.Snapshots: %w", err)
	}

	return nil
}
