package coffer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/internal/infrastructure/cache"
)

func fastSettings() coffer.Settings {
	s := coffer.DefaultSettings()
	s.RetryStep = time.Millisecond
	s.RetryJitter = time.Millisecond
	return s
}

func TestEnricher_StopsOnFirstSuccess(t *testing.T) {
	rq := require.New(t)

	source := newFakeOfficial(map[int64]int64{1: 2000})
	source.errs[1] = []error{errUpstreamDown, errUpstreamDown}

	pacer := &countingPacer{}
	enricher := coffer.NewEnricher(source, pacer, nil, fastSettings())

	price, err := enricher.Enrich(context.Background(), entity.Candidate{Item: entity.Item{ID: 1}})
	rq.NoError(err)
	rq.Equal(int64(2000), price)
	rq.Equal(3, source.calls[1])
	rq.Equal(3, pacer.waits)
	rq.Equal(2, pacer.failures)
	rq.Equal(1, pacer.successes)
}

func TestEnricher_Exhausted(t *testing.T) {
	rq := require.New(t)

	source := newFakeOfficial(nil)
	pacer := &countingPacer{}
	enricher := coffer.NewEnricher(source, pacer, nil, fastSettings())

	_, err := enricher.Enrich(context.Background(), entity.Candidate{Item: entity.Item{ID: 1}})
	rq.ErrorIs(err, coffer.ErrEnrichmentExhausted)
	rq.Equal(coffer.DefaultMaxEnrichRetries, source.calls[1])
	rq.Equal(coffer.DefaultMaxEnrichRetries, pacer.failures)
	rq.Zero(pacer.successes)
}

func TestEnricher_Cache(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	source := newFakeOfficial(map[int64]int64{1: 2000})
	memory := cache.NewMemory(time.Hour)
	enricher := coffer.NewEnricher(source, &countingPacer{}, memory, fastSettings())

	for range 3 {
		price, err := enricher.Enrich(ctx, entity.Candidate{Item: entity.Item{ID: 1}})
		rq.NoError(err)
		rq.Equal(int64(2000), price)
	}

	rq.Equal(1, source.calls[1])

	raw, ok, err := memory.Get(ctx, "coffer:itemdb:price:1")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal("2000", string(raw))
}

func TestEnricher_ContextCanceled(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enricher := coffer.NewEnricher(newFakeOfficial(nil), &countingPacer{}, nil, fastSettings())

	_, err := enricher.Enrich(ctx, entity.Candidate{Item: entity.Item{ID: 1}})
	rq.ErrorIs(err, context.Canceled)
	rq.NotErrorIs(err, coffer.ErrEnrichmentExhausted)
}
