package notifier_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/internal/infrastructure/notifier"
)

func TestFormatGP(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{in: 950, want: "950"},
		{in: 9_999, want: "9999"},
		{in: 12_500, want: "12.5k"},
		{in: 350_000, want: "350k"},
		{in: 1_200_000, want: "1.2m"},
		{in: 61_600_000, want: "61.6m"},
		{in: 2_000_000_000, want: "2b"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, notifier.FormatGP(tt.in))
		})
	}
}

func TestRenderRunReport(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("success with rows", func(t *testing.T) {
		rq := require.New(t)

		text := notifier.RenderRunReport(coffer.RunReport{
			RunID:      "abc",
			StartedAt:  start,
			FinishedAt: start.Add(90 * time.Second),
			Stats:      entity.RunStats{Candidates: 3, SuccessCount: 2, FailCount: 1, Published: 1},
			Top: []entity.ResultRow{
				{ID: 1, Name: "Rune <sword>", BuyPrice: 350_000, CofferValue: 385_000, ROI: 0.1},
			},
		})

		rq.Contains(text, "finished")
		rq.Contains(text, "<code>abc</code> ⏱ 1m30s")
		rq.Contains(text, "candidates: 3, enriched: 2, failed: 1")
		rq.Contains(text, "1. Rune &lt;sword&gt;: buy 350k, coffer 385k, ROI 10.00%")
	})

	t.Run("failure", func(t *testing.T) {
		rq := require.New(t)

		text := notifier.RenderRunReport(coffer.RunReport{
			RunID:      "def",
			StartedAt:  start,
			FinishedAt: start,
			Err:        errors.New("mapping: 502 <bad gateway>"),
		})

		rq.Contains(text, "failed")
		rq.Contains(text, "<pre>mapping: 502 &lt;bad gateway&gt;</pre>")
		rq.NotContains(text, "Top ROI")
	})

	t.Run("nothing profitable", func(t *testing.T) {
		text := notifier.RenderRunReport(coffer.RunReport{RunID: "x", StartedAt: start, FinishedAt: start})

		require.Contains(t, text, "No profitable items")
	})
}
