package coffer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/internal/domain/service/coffer"
	"coffer_scanner/pkg/tests"
)

func TestAssemble(t *testing.T) {
	earlier := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	t.Run("Later timestamp wins regardless of ROI", func(t *testing.T) {
		rq := require.New(t)

		rows := coffer.Assemble([]entity.ResultRow{
			{ID: 1, ROI: 0.9, ProcessedAt: earlier},
			{ID: 1, ROI: 0.1, ProcessedAt: later},
		})

		rq.Len(rows, 1)
		rq.InDelta(0.1, rows[0].ROI, 0)
		rq.Equal(later, rows[0].ProcessedAt)
	})

	t.Run("Equal timestamps keep higher ROI", func(t *testing.T) {
		rq := require.New(t)

		rows := coffer.Assemble([]entity.ResultRow{
			{ID: 1, ROI: 0.2, ProcessedAt: earlier},
			{ID: 1, ROI: 0.5, ProcessedAt: earlier},
			{ID: 1, ROI: 0.3, ProcessedAt: earlier},
		})

		rq.Len(rows, 1)
		rq.InDelta(0.5, rows[0].ROI, 0)
	})

	t.Run("Sorted by ROI descending", func(t *testing.T) {
		rq := require.New(t)

		rows := coffer.Assemble([]entity.ResultRow{
			{ID: 3, ROI: 0.1, ProcessedAt: earlier},
			{ID: 2, ROI: 0.7, ProcessedAt: earlier},
			{ID: 5, ROI: 0.4, ProcessedAt: earlier},
			{ID: 4, ROI: 0.4, ProcessedAt: earlier},
		})

		ids := make([]int64, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		rq.Equal([]int64{2, 4, 5, 3}, ids)
	})
}

func TestSnapshotCodec(t *testing.T) {
	rq := require.New(t)

	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	b, err := coffer.EncodeSnapshot(nil, ts)
	rq.NoError(err)
	rq.JSONEq(`{"timestamp":"2025-03-10T12:00:00Z","itemCount":0,"items":[]}`, string(b))

	b, err = coffer.EncodeSnapshot([]entity.ResultRow{{ID: 1, Name: "Rune sword", BuyPrice: 1000, ROI: 1.1, ProcessedAt: ts}}, ts)
	rq.NoError(err)

	s, err := coffer.DecodeSnapshot(b)
	rq.NoError(err)
	rq.Equal(1, s.ItemCount)
	rq.Equal("Rune sword", s.Items[0].Name)
	rq.Equal(int64(1000), s.Items[0].BuyPrice)

	_, err = coffer.DecodeSnapshot([]byte(`{`))
	rq.Error(err)
}

func TestAssemble_RandomInput(t *testing.T) {
	rq := require.New(t)

	rnd := tests.NewRandomizer()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	var rows []entity.ResultRow

	for id := int64(1); id <= 40; id++ {
		// Несколько версий одной строки из разных снапшотов.
		for v := range 3 {
			rows = append(rows, entity.ResultRow{
				ID:          id,
				ROI:         rnd.Float64(),
				Members:     rnd.Bool(),
				ProcessedAt: base.Add(time.Duration(v)*time.Hour + time.Duration(rnd.Int63n(int64(time.Minute)))),
			})
		}
	}

	rnd.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

	out := coffer.Assemble(rows)
	rq.Len(out, 40)

	seen := make(map[int64]bool, len(out))

	for i, row := range out {
		rq.False(seen[row.ID], "duplicate id %d", row.ID)
		seen[row.ID] = true

		rq.Equal(2*time.Hour, row.ProcessedAt.Sub(base).Truncate(time.Hour), "latest version must win for id %d", row.ID)

		if i > 0 {
			prev := out[i-1]
			rq.True(prev.ROI > row.ROI || (prev.ROI == row.ROI && prev.ID < row.ID))
		}
	}
}
