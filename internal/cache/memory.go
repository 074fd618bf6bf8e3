package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value      []byte
	insertedAt time.Time
	ttl        time.Duration
}

// MemoryStore is the in-process backend: a mutex-guarded map with lazy
// expiry. An entry is visible only while now - insertedAt < ttl.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is swappable in tests.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.insertedAt) >= e.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:      value,
		insertedAt: m.now(),
		ttl:        ttl,
	}
}

func (m *MemoryStore) DeleteByTag(ctx context.Context, tag string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key := range m.entries {
		if strings.Contains(key, tag) {
			delete(m.entries, key)
			n++
		}
	}
	return n
}

func (m *MemoryStore) Flush(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
}

// Compile-time check
var _ Store = (*MemoryStore)(nil)
