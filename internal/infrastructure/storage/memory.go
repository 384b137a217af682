// internal/infrastructure/storage/memory.go
package storage

import (
	"strings"
	"sync"
)

// MemoryStore implements Storage with in-memory state. It backs tests
// and the no-persistence configuration. An optional byte quota makes
// it behave like a full browser store.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int64 // 0 means unlimited
}

// NewMemoryStore creates an unbounded in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// NewMemoryStoreWithQuota creates an in-memory store that rejects
// writes once the total size of keys and values would exceed quota.
func NewMemoryStoreWithQuota(quota int64) *MemoryStore {
	return &MemoryStore{data: make(map[string]string), quota: quota}
}

// Get retrieves a value by key.
func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.data[key]
	if !exists {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores a value with the given key.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		size := int64(len(key) + len(value))
		for k, v := range m.data {
			if k == key {
				continue
			}
			size += int64(len(k) + len(v))
		}
		if size > m.quota {
			return ErrQuotaExceeded
		}
	}

	m.data[key] = value
	return nil
}

// Delete removes a key-value pair (idempotent).
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Keys returns all keys with the given prefix.
func (m *MemoryStore) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
