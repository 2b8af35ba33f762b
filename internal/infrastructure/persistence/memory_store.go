package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"coffer_scanner/internal/domain"
	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/pkg/errcodes"
)

const memoryURLPrefix = "memory://"

type memoryObject struct {
	content    []byte
	uploadedAt time.Time
}

// MemoryStore — хранилище снапшотов в памяти процесса для локального запуска
// и тестов.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Put(_ context.Context, pathname string, content []byte) (string, error) {
	stored := make([]byte, len(content))
	copy(stored, content)

	s.mu.Lock()
	s.objects[pathname] = memoryObject{content: stored, uploadedAt: s.now().UTC()}
	s.mu.Unlock()

	return memoryURLPrefix + pathname, nil
}

// PutAt stores an object with an explicit upload time.
func (s *MemoryStore) PutAt(pathname string, content []byte, uploadedAt time.Time) string {
	s.mu.Lock()
	s.objects[pathname] = memoryObject{content: content, uploadedAt: uploadedAt.UTC()}
	s.mu.Unlock()

	return memoryURLPrefix + pathname
}

func (s *MemoryStore) List(_ context.Context) ([]entity.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]entity.SnapshotInfo, 0, len(s.objects))
	for pathname, obj := range s.objects {
		infos = append(infos, entity.SnapshotInfo{
			Pathname:   pathname,
			URL:        memoryURLPrefix + pathname,
			UploadedAt: obj.uploadedAt,
			Size:       int64(len(obj.content)),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UploadedAt.After(infos[j].UploadedAt)
	})

	return infos, nil
}

func (s *MemoryStore) Get(_ context.Context, url string) ([]byte, error) {
	s.mu.RLock()
	obj, ok := s.objects[strings.TrimPrefix(url, memoryURLPrefix)]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.NewError(errcodes.SnapshotNotFound, "snapshot not found")
	}

	out := make([]byte, len(obj.content))
	copy(out, obj.content)

	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, pathname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[pathname]; !ok {
		return domain.NewError(errcodes.SnapshotNotFound, "snapshot not found")
	}

	delete(s.objects, pathname)

	return nil
}
