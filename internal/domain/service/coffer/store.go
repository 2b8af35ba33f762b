package coffer

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/pkg/logx"
)

const (
	snapshotPrefix = "items-"
	logPrefix      = "logs/execution-"
	jsonSuffix     = ".json"
)

var datePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`) //nolint:gochecknoglobals

// SnapshotName = items-<YYYY-MM-DD>-<id>.json; несколько запусков за день не
// перезаписывают друг друга.
func SnapshotName(ts time.Time, id string) string {
	return snapshotPrefix + ts.UTC().Format(time.DateOnly) + "-" + id + jsonSuffix
}

func ExecutionLogName(ts time.Time, id string) string {
	return logPrefix + ts.UTC().Format(time.DateOnly) + "-" + id + jsonSuffix
}

func IsSnapshot(pathname string) bool {
	pathname = strings.TrimPrefix(pathname, "ob/")
	return strings.HasPrefix(pathname, snapshotPrefix) && strings.HasSuffix(pathname, jsonSuffix)
}

// SnapshotDate extracts the YYYY-MM-DD part of a stored pathname.
func SnapshotDate(pathname string) (string, bool) {
	m := datePattern.FindString(pathname)
	return m, m != ""
}

// SweepRetention удаляет объекты, загруженные раньше now - days. Ошибки
// удаления логируются и не прерывают обход.
func SweepRetention(ctx context.Context, store SnapshotStore, days int, now time.Time) (int, error) {
	objects, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("store.List: %w", err)
	}

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	var deleted int

	for _, obj := range objects {
		if !obj.UploadedAt.Before(cutoff) {
			continue
		}

		if err = store.Delete(ctx, obj.Pathname); err != nil {
			logger(ctx).Warn("retention delete failed", slog.String(logx.FieldSnapshot, obj.Pathname), logx.Error(err))
			continue
		}

		deleted++
		logger(ctx).Info(
			"old object deleted",
			slog.String(logx.FieldSnapshot, obj.Pathname),
			slog.Time("uploadedAt", obj.UploadedAt),
		)
	}

	return deleted, nil
}

func snapshotsOnly(objects []entity.SnapshotInfo) []entity.SnapshotInfo {
	out := make([]entity.SnapshotInfo, 0, len(objects))
	for _, o := range objects {
		if IsSnapshot(o.Pathname) {
			out = append(out, o)
		}
	}
	return out
}
