package coffer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
)

func TestCofferValue(t *testing.T) {
	tests := []struct {
		official int64
		want     int64
	}{
		{official: 10000, want: 10500},
		{official: 61600000, want: 64680000},
		{official: 2100000000, want: 2205000000},
		{official: 19, want: 19},
		{official: 0, want: 0},
	}

	for _, tt := range tests {
		rq := require.New(t)
		rq.Equal(tt.want, coffer.CofferValue(tt.official), "official=%d", tt.official)
	}
}

func TestRoiCalculator_Compute(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	calc := coffer.NewRoiCalculator(100)

	candidate := entity.Candidate{
		Item:     entity.Item{ID: 1, Name: "Rune sword", Limit: 100, Members: true},
		BuyPrice: 1000,
		Volume:   42,
	}

	t.Run("Profitable", func(t *testing.T) {
		rq := require.New(t)

		row, ok := calc.Compute(candidate, 2000, now)
		rq.True(ok)
		rq.Equal(int64(2100), row.CofferValue)
		rq.InDelta(1.1, row.ROI, 1e-12)
		rq.Equal(int64(2000), row.OfficialPrice)
		rq.Equal(int64(42), row.Volume)
		rq.True(row.Members)
		rq.Equal(now, row.ProcessedAt)
	})

	t.Run("Break-even dropped", func(t *testing.T) {
		rq := require.New(t)

		// floor(953 * 1.05) = 1000
		_, ok := calc.Compute(entity.Candidate{Item: candidate.Item, BuyPrice: 1000}, 953, now)
		rq.False(ok)
	})

	t.Run("Loss dropped", func(t *testing.T) {
		rq := require.New(t)

		_, ok := calc.Compute(candidate, 900, now)
		rq.False(ok)
	})

	t.Run("Below minimum official price", func(t *testing.T) {
		rq := require.New(t)

		_, ok := coffer.NewRoiCalculator(10000).Compute(entity.Candidate{Item: candidate.Item, BuyPrice: 100}, 9999, now)
		rq.False(ok)
	})
}
