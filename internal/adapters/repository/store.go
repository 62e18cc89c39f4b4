// Package repository holds the persistence adapters: the key/value store the
// progression engine writes its snapshot to, and the local leaderboard.
package repository

import "context"

// Persisted keys.
const (
	KeyProgress = "arcade.progress"
	KeyPowerUps = "arcade.powerups"
)

// Store is a durable key/value store with last-write-wins semantics.
type Store interface {
	// Get returns the value under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the store.
	Close() error
}
