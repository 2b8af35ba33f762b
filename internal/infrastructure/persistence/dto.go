package persistence

import (
	"strings"
	"time"

	"coffer_scanner/internal/domain/entity"
)

const objectURLPrefix = "db://snapshot_objects/"

// snapshotObjectSchema — строка таблицы snapshot_objects без содержимого.
type snapshotObjectSchema struct {
	Pathname   string    `db:"pathname"`
	Size       int64     `db:"size"`
	UploadedAt time.Time `db:"uploaded_at"`
}

func (s snapshotObjectSchema) toDomain() entity.SnapshotInfo {
	return entity.SnapshotInfo{
		Pathname:   s.Pathname,
		URL:        objectURL(s.Pathname),
		UploadedAt: s.UploadedAt.UTC(),
		Size:       s.Size,
	}
}

func objectURL(pathname string) string {
	return objectURLPrefix + pathname
}

// pathnameFromURL принимает и url, и голый pathname.
func pathnameFromURL(url string) string {
	return strings.TrimPrefix(url, objectURLPrefix)
}
