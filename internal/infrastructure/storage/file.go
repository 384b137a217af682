// internal/infrastructure/storage/file.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore implements Storage as a single JSON document on disk,
// rewritten synchronously after every mutation so the durable copy
// never lags the in-memory copy. A byte quota bounds the encoded
// document size, mirroring the 5MB ceiling of browser storage.
type FileStore struct {
	mu    sync.Mutex
	path  string
	quota int64
	data  map[string]string
}

// NewFileStore opens (or creates) the store at path. A corrupt or
// missing file starts the store empty rather than failing.
func NewFileStore(path string, quota int64) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	s := &FileStore{
		path:  path,
		quota: quota,
		data:  make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	// Corrupt contents are treated as absent (fail-soft).
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err == nil && data != nil {
		s.data = data
	}

	return s, nil
}

// Get retrieves a value by key.
func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, exists := s.data[key]
	if !exists {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores a value and flushes the document to disk. The write is
// rejected with ErrQuotaExceeded, leaving the store untouched, when
// the encoded document would exceed the quota.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data[key]
	s.data[key] = value

	encoded, err := json.Marshal(s.data)
	if err != nil {
		s.restore(key, previous, existed)
		return fmt.Errorf("failed to encode storage document: %w", err)
	}

	if s.quota > 0 && int64(len(encoded)) > s.quota {
		s.restore(key, previous, existed)
		return ErrQuotaExceeded
	}

	if err := s.flush(encoded); err != nil {
		s.restore(key, previous, existed)
		return err
	}
	return nil
}

// Delete removes a key-value pair and flushes (idempotent).
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists {
		return nil
	}
	delete(s.data, key)

	encoded, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode storage document: %w", err)
	}
	return s.flush(encoded)
}

// Keys returns all keys with the given prefix.
func (s *FileStore) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *FileStore) restore(key, previous string, existed bool) {
	if existed {
		s.data[key] = previous
	} else {
		delete(s.data, key)
	}
}

// flush writes through a temp file and renames so a crash mid-write
// leaves the previous document intact.
func (s *FileStore) flush(encoded []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
