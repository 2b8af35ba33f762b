package coffer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/pkg/contextx"
	"coffer_scanner/pkg/logx"
)

const (
	finishTimeout    = 2 * time.Minute
	progressLogEvery = 50
)

// RunReport — итог одного запуска пайплайна.
type RunReport struct {
	RunID      string              `json:"runId"`
	StartedAt  time.Time           `json:"startedAt"`
	FinishedAt time.Time           `json:"finishedAt"`
	Stats      entity.RunStats     `json:"stats"`
	Filter     FilterStats         `json:"filter"`
	Snapshot   entity.SnapshotInfo `json:"snapshot"`
	Top        []entity.ResultRow  `json:"top"`
	Err        error               `json:"-"`
}

func (r RunReport) Success() bool {
	return r.Err == nil
}

func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

type Pipeline struct {
	feeds    BulkFeeds
	resolver *IneligibilityResolver
	enricher *Enricher
	roi      RoiCalculator
	store    SnapshotStore
	notifier Notifier
	settings Settings

	now   func() time.Time
	newID func() string
}

func NewPipeline(
	feeds BulkFeeds,
	resolver *IneligibilityResolver,
	enricher *Enricher,
	store SnapshotStore,
	settings Settings,
) *Pipeline {
	settings = settings.withDefaults()

	return &Pipeline{
		feeds:    feeds,
		resolver: resolver,
		enricher: enricher,
		roi:      NewRoiCalculator(settings.MinOfficialPrice),
		store:    store,
		settings: settings,
		now:      time.Now,
		newID:    func() string { return xid.New().String() },
	}
}

func (p *Pipeline) WithNotifier(n Notifier) *Pipeline {
	p.notifier = n
	return p
}

func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run выполняет полный цикл: фиды, исключения, фильтр, обогащение, расчёт ROI,
// публикация снапшота. Лог запуска, очистка старых объектов и уведомление
// выполняются всегда, в том числе после фатальной ошибки.
func (p *Pipeline) Run(ctx context.Context) (RunReport, error) {
	report := RunReport{
		RunID:     p.newID(),
		StartedAt: p.now().UTC(),
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldRunID, report.RunID)))

	logger(ctx).Info("pipeline run started")

	err := p.run(ctx, &report)

	report.FinishedAt = p.now().UTC()
	report.Err = err

	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()

	p.finish(finishCtx, &report)

	runDuration.Observe(report.Duration().Seconds())

	if err != nil {
		runsTotal.WithLabelValues("failure").Inc()
		logger(ctx).Error("pipeline run failed", logx.Error(err))

		return report, fmt.Errorf("coffer.Pipeline.Run: %w", err)
	}

	runsTotal.WithLabelValues("success").Inc()
	logger(ctx).Info(
		"pipeline run completed",
		slog.Int("published", report.Stats.Published),
		slog.Int("success", report.Stats.SuccessCount),
		slog.Int("failed", report.Stats.FailCount),
		slog.Duration("duration", report.Duration()),
	)

	return report, nil
}

func (p *Pipeline) run(ctx context.Context, report *RunReport) error {
	if _, err := p.store.List(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	mapping, latest, volumes, err := p.fetchFeeds(ctx)
	if err != nil {
		return err
	}

	report.Stats.MappingItems = len(mapping)

	ineligible, err := p.resolver.Resolve(ctx, mapping)
	if err != nil {
		return fmt.Errorf("resolver.Resolve: %w", err)
	}

	candidates, filterStats := FilterCandidates(mapping, latest, volumes, ineligible, FilterRules{
		MinBuyPrice:          p.settings.MinBuyPrice,
		MinTradingValue:      p.settings.MinTradingValue,
		VolumeEstimateFactor: p.settings.VolumeEstimateFactor,
	})
	SortForEnrichment(candidates)

	if p.settings.MaxCandidates > 0 && len(candidates) > p.settings.MaxCandidates {
		candidates = candidates[:p.settings.MaxCandidates]
	}

	report.Filter = filterStats
	report.Stats.Ineligible = filterStats.Ineligible
	report.Stats.Candidates = len(candidates)

	logger(ctx).Info(
		"candidates selected",
		slog.Int("mapping", filterStats.Total),
		slog.Int("ineligible", filterStats.Ineligible),
		slog.Int("untradable", filterStats.Untradable),
		slog.Int("noPrice", filterStats.NoPrice),
		slog.Int("belowMinBuy", filterStats.BelowMinBuy),
		slog.Int("candidates", len(candidates)),
	)

	rows, err := p.enrichAll(ctx, candidates, &report.Stats)
	if err != nil {
		return err
	}

	rows = Assemble(rows)
	report.Stats.Published = len(rows)
	report.Top = rows[:min(len(rows), p.settings.TopN)]

	content, err := EncodeSnapshot(rows, p.now())
	if err != nil {
		return fmt.Errorf("EncodeSnapshot: %w", err)
	}

	pathname := SnapshotName(report.StartedAt, report.RunID)

	url, err := p.store.Put(ctx, pathname, content)
	if err != nil {
		return fmt.Errorf("store.Put: %w", err)
	}

	report.Snapshot = entity.SnapshotInfo{
		Pathname:   pathname,
		URL:        url,
		UploadedAt: p.now().UTC(),
		Size:       int64(len(content)),
	}
	publishedItems.Set(float64(len(rows)))

	return nil
}

func (p *Pipeline) fetchFeeds(ctx context.Context) (
	[]entity.Item,
	map[int64]entity.PricePoint,
	map[int64]entity.VolumePoint,
	error,
) {
	var (
		mapping []entity.Item
		latest  map[int64]entity.PricePoint
		volumes map[int64]entity.VolumePoint
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if mapping, err = p.feeds.FetchMapping(gctx); err != nil {
			return fmt.Errorf("feeds.FetchMapping: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if latest, err = p.feeds.FetchLatestPrices(gctx); err != nil {
			return fmt.Errorf("feeds.FetchLatestPrices: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		v, err := p.feeds.FetchVolumes(gctx)
		if err != nil {
			// без объёмов продолжаем с оценкой limit * factor
			logger(ctx).Warn("volume feed unavailable, volume will be estimated", logx.Error(err))
			return nil
		}
		volumes = v
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	return mapping, latest, volumes, nil
}

func (p *Pipeline) enrichAll(
	ctx context.Context,
	candidates []entity.Candidate,
	stats *entity.RunStats,
) ([]entity.ResultRow, error) {
	rows := make([]entity.ResultRow, 0, len(candidates))

	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("enrichment interrupted: %w", err)
		}

		if i > 0 && i%progressLogEvery == 0 {
			logger(ctx).Info(
				"enrichment progress",
				slog.Int("processed", i),
				slog.Int("total", len(candidates)),
				slog.Int("profitable", len(rows)),
			)
		}

		official, err := p.enricher.Enrich(ctx, c)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("enricher.Enrich: %w", ctx.Err())
			}

			stats.FailCount++

			level := slog.LevelWarn
			if !errors.Is(err, ErrEnrichmentExhausted) {
				level = slog.LevelError
			}
			logger(ctx).Log(ctx, level, "item skipped",
				slog.Int64(logx.FieldItemID, c.Item.ID),
				slog.String(logx.FieldItemName, c.Item.Name),
				logx.Error(err),
			)

			continue
		}

		stats.SuccessCount++

		row, ok := p.roi.Compute(c, official, p.now())
		if !ok {
			stats.Unprofitable++
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (p *Pipeline) finish(ctx context.Context, report *RunReport) {
	p.uploadExecutionLog(ctx, report)

	deleted, err := SweepRetention(ctx, p.store, p.settings.CleanupDays, p.now())
	if err != nil {
		logger(ctx).Warn("retention sweep failed", logx.Error(err))
	}
	report.Stats.DeletedObjects = deleted

	if p.notifier == nil {
		return
	}

	if err = p.notifier.NotifyRun(ctx, *report); err != nil {
		logger(ctx).Warn("notifier.NotifyRun", logx.Error(err))
	}
}

func (p *Pipeline) uploadExecutionLog(ctx context.Context, report *RunReport) {
	entry := entity.ExecutionLog{
		RunID:     report.RunID,
		StartTime: report.StartedAt,
		EndTime:   report.FinishedAt,
		Success:   report.Err == nil,
		Stats:     report.Stats,
		Snapshot:  report.Snapshot.Pathname,
		Timestamp: p.now().UTC(),
	}
	if report.Err != nil {
		entry.Error = report.Err.Error()
	}

	content, err := json.Marshal(entry)
	if err != nil {
		logger(ctx).Warn("json.Marshal execution log", logx.Error(err))
		return
	}

	if _, err = p.store.Put(ctx, ExecutionLogName(report.StartedAt, report.RunID), content); err != nil {
		logger(ctx).Warn("execution log upload failed", logx.Error(err))
	}
}
