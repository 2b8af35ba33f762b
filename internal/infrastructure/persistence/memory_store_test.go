package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/domain"
	"coffer_scanner/internal/infrastructure/persistence"
	"coffer_scanner/pkg/errcodes"
)

func TestMemoryStore(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := persistence.NewMemoryStore().WithClock(func() time.Time { return now })

	url, err := store.Put(ctx, "items-2025-03-10-a.json", []byte(`{"items":[]}`))
	rq.NoError(err)
	rq.Equal("memory://items-2025-03-10-a.json", url)

	store.PutAt("items-2025-03-09-b.json", []byte(`{}`), now.Add(-24*time.Hour))

	infos, err := store.List(ctx)
	rq.NoError(err)
	rq.Len(infos, 2)
	rq.Equal("items-2025-03-10-a.json", infos[0].Pathname)
	rq.Equal(now, infos[0].UploadedAt)
	rq.Equal(int64(12), infos[0].Size)

	content, err := store.Get(ctx, url)
	rq.NoError(err)
	rq.Equal(`{"items":[]}`, string(content))

	rq.NoError(store.Delete(ctx, "items-2025-03-10-a.json"))

	_, err = store.Get(ctx, url)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.SnapshotNotFound, code)

	err = store.Delete(ctx, "items-2025-03-10-a.json")
	rq.True(domain.IsAppError(err))
}
