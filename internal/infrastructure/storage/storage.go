// internal/infrastructure/storage/storage.go
package storage

import "errors"

// ErrNotFound is returned when a key doesn't exist in the store.
var ErrNotFound = errors.New("key not found")

// ErrQuotaExceeded is returned when a write would push the store past
// its configured byte quota. The write is not applied.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage is the durable key-value store behind the cart and override
// stores. Values are strings, like the browser storage this layer
// replaces. All implementations must be safe for concurrent use.
type Storage interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key doesn't exist.
	Get(key string) (string, error)

	// Set stores a value, overwriting any existing value for the key.
	// Returns ErrQuotaExceeded when the store is full.
	Set(key, value string) error

	// Delete removes a key-value pair. No error if the key is absent.
	Delete(key string) error

	// Keys returns all keys with the given prefix. An empty prefix
	// returns every key. Order is not guaranteed.
	Keys(prefix string) ([]string, error)
}
