// ABOUTME: In-memory storage implementation using sync.Map for thread-safe operations
// ABOUTME: Backs tests and ephemeral deployments where settings need not survive restarts

package memory

import (
	"context"
	"sync"

	"mealie-bridge-api/core/interfaces"
)

// MemoryStorage implements the Storage interface using in-memory storage
type MemoryStorage struct {
	items sync.Map
}

// NewMemoryStorage creates a new in-memory storage instance
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Get retrieves a value from storage
func (s *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	value, ok := s.items.Load(key)
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}

	stored := value.([]byte)

	// Return a copy of the value
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a value
func (s *MemoryStorage) Set(ctx context.Context, key string, value []byte) error {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Store a copy of the value
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	s.items.Store(key, valueCopy)

	return nil
}

// Delete removes a key from storage
func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.items.Delete(key)
	return nil
}
