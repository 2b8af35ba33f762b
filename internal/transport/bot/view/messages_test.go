package view_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/internal/transport/bot/view"
)

func rows(n int) []entity.ResultRow {
	out := make([]entity.ResultRow, n)
	for i := range out {
		out[i] = entity.ResultRow{ID: int64(i + 1), Name: fmt.Sprintf("Item %d", i+1), BuyPrice: 100_000, CofferValue: 110_000, ROI: 0.1}
	}
	return out
}

func TestTopPage(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		page      int
		wantPages int
		wantFirst string
		wantLast  string
	}{
		{name: "first page", rows: 25, page: 1, wantPages: 3, wantFirst: "1. <b>Item 1</b>", wantLast: "10. <b>Item 10</b>"},
		{name: "last page", rows: 25, page: 3, wantPages: 3, wantFirst: "21. <b>Item 21</b>", wantLast: "25. <b>Item 25</b>"},
		{name: "page out of range", rows: 5, page: 9, wantPages: 1, wantFirst: "1. <b>Item 1</b>", wantLast: "5. <b>Item 5</b>"},
		{name: "empty", rows: 0, page: 1, wantPages: 1, wantFirst: "Нет выгодных предметов."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			text, pages := view.TopPage(coffer.ItemsView{Date: "2025-03-10", Items: rows(tt.rows)}, tt.page)

			rq.Equal(tt.wantPages, pages)
			rq.Contains(text, tt.wantFirst)
			if tt.wantLast != "" {
				rq.Contains(text, tt.wantLast)
			}
		})
	}
}

func TestTopPage_Fallback(t *testing.T) {
	rq := require.New(t)

	items := coffer.ItemsView{Date: "2025-03-09", IsFallback: true, Items: []entity.ResultRow{
		{ID: 1, Name: "A & B", BuyPrice: 1_200_000, CofferValue: 1_300_000, ROI: 0.0833, Volume: 40, VolumeEstimated: true},
	}}

	text, _ := view.TopPage(items, 1)

	rq.Contains(text, "последний день")
	rq.Contains(text, "A &amp; B")
	rq.Contains(text, "buy 1.2m → coffer 1.3m, ROI <b>8.33%</b>, vol ~40")
}

func TestStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("no runs", func(t *testing.T) {
		text := view.Status(true, coffer.RunReport{}, false, now)
		require.Contains(t, text, "🟢 работает")
		require.Contains(t, text, "Запусков ещё не было")
	})

	t.Run("failed run", func(t *testing.T) {
		rq := require.New(t)

		last := coffer.RunReport{
			FinishedAt: now.Add(-30 * time.Minute),
			Stats:      entity.RunStats{Candidates: 4},
			Err:        errors.New("store <down>"),
		}

		text := view.Status(false, last, true, now)

		rq.Contains(text, "🔴 остановлен")
		rq.Contains(text, "30m0s назад, ❌ с ошибкой")
		rq.Contains(text, "кандидатов 4")
		rq.Contains(text, "store &lt;down&gt;")
	})
}
