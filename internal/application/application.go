package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"coffer_scanner/internal/config"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/internal/infrastructure/blobstore"
	"coffer_scanner/internal/infrastructure/cache"
	"coffer_scanner/internal/infrastructure/notifier"
	"coffer_scanner/internal/infrastructure/persistence"
	"coffer_scanner/internal/infrastructure/upstream"
	"coffer_scanner/pkg/application/connectors"
	"coffer_scanner/pkg/httpx"
	"coffer_scanner/pkg/logx"
)

// Ответы /itemdb и MediaWiki логируются целиком, фиды цен только заголовками.
const upstreamMaxBodyDump = 64 << 10

// Application собирает пайплайн и его зависимости из конфигурации.
type Application struct {
	cfg config.Config
	log *slog.Logger

	redis    *connectors.Redis
	pipeline *coffer.Pipeline
	reader   *coffer.Reader

	closers []func(context.Context)
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*Application, error) {
	a := &Application{
		cfg: cfg,
		log: log,
	}

	if cfg.Redis.Enabled() {
		a.redis = &connectors.Redis{
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			Address:            cfg.Redis.Address,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}
		a.closers = append(a.closers, a.redis.Close)
	}

	store, err := a.newStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("application.newStore: %w", err)
	}

	settings := newSettings(cfg.Pipeline)
	transport := a.upstreamTransport()
	kv := a.newCache(ctx)

	prices := upstream.NewPricesClient(
		upstream.NewFetcher(upstream.FetcherConfig{
			Name:       "prices",
			MaxRetries: cfg.Upstream.BulkMaxRetries,
			BaseDelay:  cfg.Upstream.BulkBaseDelay,
			JitterMax:  cfg.Upstream.BulkJitter,
			Timeout:    cfg.Upstream.Timeout,
			UserAgent:  cfg.Upstream.UserAgent,
		}, upstream.WithTransport(transport)),
		cfg.Upstream.PricesURL,
		cfg.Upstream.VolumeWindow,
	)

	wiki := upstream.NewWikiClient(
		upstream.NewFetcher(upstream.FetcherConfig{
			Name:        "wiki",
			MinInterval: cfg.Upstream.WikiMinInterval,
			MaxRetries:  cfg.Upstream.BulkMaxRetries,
			BaseDelay:   cfg.Upstream.BulkBaseDelay,
			JitterMax:   cfg.Upstream.BulkJitter,
			Timeout:     cfg.Upstream.Timeout,
			UserAgent:   cfg.Upstream.UserAgent,
		}, upstream.WithTransport(transport)),
		cfg.Upstream.WikiURL,
	)

	// Повторы для официальной цены делает Enricher, сам запрос одиночный.
	itemDB := upstream.NewItemDBClient(
		upstream.NewFetcher(upstream.FetcherConfig{
			Name:      "itemdb",
			Timeout:   cfg.Upstream.Timeout,
			UserAgent: cfg.Upstream.UserAgent,
		}, upstream.WithTransport(transport)),
		cfg.Upstream.ItemDBURL,
	)

	pacer := upstream.NewAdaptiveDelay("itemdb", cfg.Pipeline.JagexRateLimit)

	a.pipeline = coffer.NewPipeline(
		prices,
		coffer.NewIneligibilityResolver(wiki, kv, settings),
		coffer.NewEnricher(itemDB, pacer, kv, settings),
		store,
		settings,
	)
	a.reader = coffer.NewReader(store)

	if cfg.Bot.Enabled() && cfg.Bot.ChatID != 0 {
		tg, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		a.pipeline.WithNotifier(tg)
	}

	return a, nil
}

// RunOnce выполняет один запуск пайплайна.
func (a *Application) RunOnce(ctx context.Context) (coffer.RunReport, error) {
	report, err := a.pipeline.Run(ctx)
	if err != nil {
		return report, fmt.Errorf("pipeline.Run: %w", err)
	}

	return report, nil
}

func (a *Application) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
}

func (a *Application) newStore(ctx context.Context) (coffer.SnapshotStore, error) {
	switch a.cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg := &connectors.Postgres{
			DSN:             a.cfg.Postgres.DSN,
			MaxOpenConns:    a.cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    a.cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: a.cfg.Postgres.ConnMaxLifetime,
		}
		if a.cfg.Postgres.Migrate {
			pg.Migrate = persistence.Migrate
		}

		db := pg.Client(ctx)
		a.closers = append(a.closers, pg.Close)

		return persistence.NewSnapshotRepository(db), nil
	case config.StoreDriverBlob:
		var opts []blobstore.Option
		if a.cfg.Upstream.LogHTTP {
			opts = append(opts, blobstore.WithTransport(a.upstreamTransport()))
		}

		return blobstore.New(blobstore.Config{
			BaseURL:        a.cfg.Blob.BaseURL,
			Token:          a.cfg.Blob.Token,
			Timeout:        a.cfg.Blob.Timeout,
			BreakerTimeout: a.cfg.Blob.BreakerTimeout,
		}, opts...), nil
	case config.StoreDriverMemory:
		a.log.Warn("memory snapshot store: snapshots are lost on restart")

		return persistence.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

func (a *Application) newCache(ctx context.Context) coffer.Cache {
	if a.redis != nil {
		return cache.NewRedis(a.redis.Client(ctx))
	}

	return cache.NewMemory(a.cfg.Pipeline.OfficialPriceTTL)
}

func (a *Application) upstreamTransport() http.RoundTripper {
	var rt http.RoundTripper = http.DefaultTransport

	if a.cfg.Upstream.LogHTTP {
		rt = httpx.NewLoggingRoundTripper(
			rt,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(a.cfg.App.LogFieldMaxLen),
			httpx.WithMaxBodyDump(upstreamMaxBodyDump),
		)
	}

	return rt
}

func newSettings(p config.Pipeline) coffer.Settings {
	return coffer.Settings{
		MinBuyPrice:          p.MinBuyPrice,
		MinOfficialPrice:     p.MinOfficialPrice,
		MinTradingValue:      p.MinTradingValue,
		VolumeEstimateFactor: p.VolumeEstimateFactor,
		MaxCandidates:        p.MaxCandidates,
		MaxEnrichRetries:     p.MaxEnrichRetries,
		RetryStep:            p.RetryStep,
		RetryJitter:          p.RetryJitter,
		OfficialPriceTTL:     p.OfficialPriceTTL,
		IneligibleTTL:        p.IneligibleTTL,
		CleanupDays:          p.CleanupDays,
		TopN:                 p.TopN,
		ReferencePages:       p.ReferencePages,
		ExplicitNames:        p.ExplicitNames,
		ExplicitIDs:          p.ExplicitIDs,
	}
}
