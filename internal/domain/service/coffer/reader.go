package coffer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/pkg/logx"
)

type SourceFile struct {
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
	Timestamp  time.Time `json:"timestamp"`
	ItemCount  int       `json:"itemCount"`
}

// ItemsView — объединённые снапшоты одного дня.
type ItemsView struct {
	Date        string
	IsFallback  bool
	Items       []entity.ResultRow
	SourceFiles []SourceFile
	Timestamp   time.Time
}

// Reader — путь чтения для API: снапшоты за сегодня (UTC), иначе за
// последний день, когда что-то загружалось.
type Reader struct {
	store SnapshotStore
	now   func() time.Time
}

func NewReader(store SnapshotStore) *Reader {
	return &Reader{
		store: store,
		now:   time.Now,
	}
}

func (r *Reader) WithClock(now func() time.Time) *Reader {
	r.now = now
	return r
}

func (r *Reader) Snapshots(ctx context.Context) ([]entity.SnapshotInfo, error) {
	objects, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	snapshots := snapshotsOnly(objects)
	sortNewestFirst(snapshots)

	return snapshots, nil
}

func (r *Reader) Items(ctx context.Context) (ItemsView, error) {
	snapshots, err := r.Snapshots(ctx)
	if err != nil {
		return ItemsView{}, err
	}

	if len(snapshots) == 0 {
		return ItemsView{}, ErrNoData
	}

	today := r.now().UTC().Format(time.DateOnly)
	date := today

	selected := onDate(snapshots, today)
	if len(selected) == 0 {
		// snapshots отсортированы от свежих к старым
		if d, ok := SnapshotDate(snapshots[0].Pathname); ok {
			date = d
		} else {
			date = snapshots[0].UploadedAt.UTC().Format(time.DateOnly)
		}
		selected = onDate(snapshots, date)
	}

	if len(selected) == 0 {
		return ItemsView{}, ErrNoData
	}

	var (
		rows    []entity.ResultRow
		sources []SourceFile
	)

	for _, info := range selected {
		content, err := r.store.Get(ctx, info.URL)
		if err != nil {
			logger(ctx).Warn("snapshot load failed", slog.String(logx.FieldSnapshot, info.Pathname), logx.Error(err))
			continue
		}

		snapshot, err := DecodeSnapshot(content)
		if err != nil {
			logger(ctx).Warn("snapshot decode failed", slog.String(logx.FieldSnapshot, info.Pathname), logx.Error(err))
			continue
		}

		rows = append(rows, snapshot.Items...)
		sources = append(sources, SourceFile{
			Filename:   info.Pathname,
			UploadedAt: info.UploadedAt,
			Timestamp:  lo.Ternary(snapshot.Timestamp.IsZero(), info.UploadedAt, snapshot.Timestamp),
			ItemCount:  len(snapshot.Items),
		})
	}

	return ItemsView{
		Date:        date,
		IsFallback:  date != today,
		Items:       Assemble(rows),
		SourceFiles: sources,
		Timestamp:   r.now().UTC(),
	}, nil
}

func onDate(snapshots []entity.SnapshotInfo, date string) []entity.SnapshotInfo {
	return lo.Filter(snapshots, func(s entity.SnapshotInfo, _ int) bool {
		d, ok := SnapshotDate(s.Pathname)
		return ok && d == date
	})
}

func sortNewestFirst(objects []entity.SnapshotInfo) {
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].UploadedAt.After(objects[j].UploadedAt)
	})
}
