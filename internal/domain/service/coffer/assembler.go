package coffer

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"coffer_scanner/internal/domain/entity"
)

// Assemble оставляет по одной строке на ID (свежее ProcessedAt, при равенстве
// больший ROI) и сортирует по ROI по убыванию, ID по возрастанию.
func Assemble(rows []entity.ResultRow) []entity.ResultRow {
	best := make(map[int64]entity.ResultRow, len(rows))

	for _, row := range rows {
		cur, ok := best[row.ID]
		if !ok || preferred(row, cur) {
			best[row.ID] = row
		}
	}

	out := lo.Values(best)

	sort.Slice(out, func(i, j int) bool {
		if out[i].ROI != out[j].ROI {
			return out[i].ROI > out[j].ROI
		}
		return out[i].ID < out[j].ID
	})

	return out
}

func preferred(candidate, current entity.ResultRow) bool {
	if !candidate.ProcessedAt.Equal(current.ProcessedAt) {
		return candidate.ProcessedAt.After(current.ProcessedAt)
	}
	return candidate.ROI > current.ROI
}

func EncodeSnapshot(rows []entity.ResultRow, ts time.Time) ([]byte, error) {
	if rows == nil {
		rows = []entity.ResultRow{}
	}

	b, err := json.Marshal(entity.Snapshot{
		Timestamp: ts.UTC(),
		ItemCount: len(rows),
		Items:     rows,
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return b, nil
}

func DecodeSnapshot(b []byte) (entity.Snapshot, error) {
	var s entity.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return entity.Snapshot{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if s.ItemCount == 0 {
		s.ItemCount = len(s.Items)
	}

	return s, nil
}
