package storage

import (
	"sync"
	"time"
)

// memoryStore is a process-local cache; entries vanish on restart.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	every   time.Duration
	swept   time.Time
	now     func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		entries: make(map[string]time.Time),
		ttl:     opts.EntryTTL,
		every:   opts.CleanupInterval,
		swept:   time.Now(),
		now:     time.Now,
	}
}

func (m *memoryStore) IsBroken(url string) (bool, error) {
	key := cacheKey(url)
	if key == nil {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweepLocked(now)
	expiry, ok := m.entries[string(key)]
	return ok && expiry.After(now), nil
}

func (m *memoryStore) MarkBroken(url string) error {
	key := cacheKey(url)
	if key == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweepLocked(now)
	m.entries[string(key)] = now.Add(m.ttl)
	return nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) sweepLocked(now time.Time) {
	if now.Sub(m.swept) < m.every {
		return
	}
	for k, expiry := range m.entries {
		if !expiry.After(now) {
			delete(m.entries, k)
		}
	}
	m.swept = now
}
