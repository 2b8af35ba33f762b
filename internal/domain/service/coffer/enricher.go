package coffer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/pkg/logx"
)

const officialPriceKeyPrefix = "coffer:itemdb:price:"

// Enricher получает официальную цену предмета. Вызовы должны идти строго
// последовательно: темп запросов задаёт общий Pacer.
type Enricher struct {
	source OfficialPriceSource
	pacer  Pacer
	cache  Cache

	maxRetries int
	step       time.Duration
	jitter     time.Duration
	ttl        time.Duration
}

func NewEnricher(source OfficialPriceSource, pacer Pacer, cache Cache, s Settings) *Enricher {
	s = s.withDefaults()

	return &Enricher{
		source:     source,
		pacer:      pacer,
		cache:      cache,
		maxRetries: s.MaxEnrichRetries,
		step:       s.RetryStep,
		jitter:     s.RetryJitter,
		ttl:        s.OfficialPriceTTL,
	}
}

// Enrich returns the first price the source yields. Failed attempts, including
// empty bodies, are retried with a linear backoff until maxRetries is spent,
// then ErrEnrichmentExhausted is returned.
func (e *Enricher) Enrich(ctx context.Context, c entity.Candidate) (int64, error) {
	id := c.Item.ID

	if price, ok := e.cached(ctx, id); ok {
		enrichedTotal.WithLabelValues("cached").Inc()
		return price, nil
	}

	var lastErr error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		if err := e.pacer.Wait(ctx); err != nil {
			return 0, fmt.Errorf("pacer.Wait: %w", err)
		}

		price, err := e.source.FetchOfficialPrice(ctx, id)
		if err == nil {
			e.pacer.RecordSuccess()
			e.store(ctx, id, price)
			enrichedTotal.WithLabelValues("fetched").Inc()

			return price, nil
		}

		if ctx.Err() != nil {
			return 0, fmt.Errorf("coffer.Enricher.Enrich: %w", ctx.Err())
		}

		e.pacer.RecordFailure()
		lastErr = err

		logger(ctx).Debug(
			"official price attempt failed",
			slog.Int64(logx.FieldItemID, id),
			slog.Int(logx.FieldAttempt, attempt),
			logx.Error(err),
		)

		if attempt < e.maxRetries {
			if err = sleep(ctx, e.backoff(attempt)); err != nil {
				return 0, fmt.Errorf("coffer.Enricher.Enrich: %w", err)
			}
		}
	}

	enrichedTotal.WithLabelValues("exhausted").Inc()

	return 0, fmt.Errorf("item %d after %d attempts: %w: %w", id, e.maxRetries, ErrEnrichmentExhausted, lastErr)
}

// backoff = step * attempt + rand[0, jitter).
func (e *Enricher) backoff(attempt int) time.Duration {
	d := e.step * time.Duration(attempt)
	if e.jitter > 0 {
		d += time.Duration(rand.Int64N(int64(e.jitter)))
	}
	return d
}

func (e *Enricher) cached(ctx context.Context, id int64) (int64, bool) {
	if e.cache == nil {
		return 0, false
	}

	key := officialPriceKeyPrefix + strconv.FormatInt(id, 10)

	raw, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		logger(ctx).Warn("cache.Get", slog.String("key", key), logx.Error(err))
		return 0, false
	}
	if !ok {
		return 0, false
	}

	price, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || price <= 0 {
		return 0, false
	}

	return price, true
}

func (e *Enricher) store(ctx context.Context, id, price int64) {
	if e.cache == nil || price <= 0 {
		return
	}

	key := officialPriceKeyPrefix + strconv.FormatInt(id, 10)

	if err := e.cache.Set(ctx, key, []byte(strconv.FormatInt(price, 10)), e.ttl); err != nil {
		logger(ctx).Warn("cache.Set", slog.String("key", key), logx.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
