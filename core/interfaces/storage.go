// Package interfaces defines the core interfaces used throughout the bridge.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Storage.Get when the key has never been set.
var ErrKeyNotFound = errors.New("key not found")

// Storage defines the interface for the synced key/value settings store.
// It is the Go-side equivalent of the extension's synced storage area:
// values are opaque bytes, writes are last-write-wins, and persistence
// outlives the process. Implementations can be in-memory, SQLite, or Redis.
//
// Example usage:
//
//	err := store.Set(ctx, "mealie_url", []byte(`"https://mealie.local"`))
//
//	data, err := store.Get(ctx, "mealie_url")
//	if errors.Is(err, interfaces.ErrKeyNotFound) {
//		// key was never configured
//	}
type Storage interface {
	// Get retrieves a value by key. Returns ErrKeyNotFound if the key
	// does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under the given key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// SecretStore holds secrets that should not live alongside ordinary
// settings, such as the Mealie API token. Implementations can be the OS
// keyring or, as a fallback, the regular Storage.
type SecretStore interface {
	// GetSecret retrieves a secret by name. Returns ErrKeyNotFound if unset.
	GetSecret(name string) (string, error)

	// SetSecret stores a secret under the given name.
	SetSecret(name, value string) error

	// DeleteSecret removes a secret. Returns nil if the secret doesn't exist.
	DeleteSecret(name string) error
}
