package coffer

import (
	"context"
	"time"

	"coffer_scanner/internal/domain/entity"
)

type BulkFeeds interface {
	FetchMapping(ctx context.Context) ([]entity.Item, error)
	FetchLatestPrices(ctx context.Context) (map[int64]entity.PricePoint, error)
	FetchVolumes(ctx context.Context) (map[int64]entity.VolumePoint, error)
}

type LinkSource interface {
	Links(ctx context.Context, title string) ([]string, error)
}

type OfficialPriceSource interface {
	FetchOfficialPrice(ctx context.Context, itemID int64) (int64, error)
}

// Pacer spaces requests to the official price source.
type Pacer interface {
	Wait(ctx context.Context) error
	RecordSuccess()
	RecordFailure()
}

// Cache хранит сырые байты; промах возвращает ok == false без ошибки.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SnapshotStore — объектное хранилище снапшотов и логов запусков.
type SnapshotStore interface {
	Put(ctx context.Context, pathname string, content []byte) (string, error)
	List(ctx context.Context) ([]entity.SnapshotInfo, error)
	Get(ctx context.Context, url string) ([]byte, error)
	Delete(ctx context.Context, pathname string) error
}

type Notifier interface {
	NotifyRun(ctx context.Context, report RunReport) error
}
