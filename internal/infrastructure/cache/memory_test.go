package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/infrastructure/cache"
)

func TestMemory(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	m := cache.NewMemory(time.Hour)

	_, ok, err := m.Get(ctx, "coffer:itemdb:price:4151")
	rq.NoError(err)
	rq.False(ok)

	value := []byte("2000")
	rq.NoError(m.Set(ctx, "coffer:itemdb:price:4151", value, time.Hour))

	value[0] = '9'

	got, ok, err := m.Get(ctx, "coffer:itemdb:price:4151")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal("2000", string(got))
	rq.Equal(1, m.ItemCount())
}

func TestMemory_Expiration(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	m := cache.NewMemory(time.Hour)
	rq.NoError(m.Set(ctx, "k", []byte("v"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	_, ok, err := m.Get(ctx, "k")
	rq.NoError(err)
	rq.False(ok)
}
