package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

// Memory — кеш в памяти процесса, живёт до перезапуска.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		c: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}

	b, ok := v.([]byte)
	if !ok {
		m.c.Delete(key)
		return nil, false, nil
	}

	return b, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.c.Set(key, stored, ttl)

	return nil
}

func (m *Memory) ItemCount() int {
	return m.c.ItemCount()
}
