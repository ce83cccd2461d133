// Package storage provides abstractions for persistent data storage.
//
// Persistence is an opaque key-value blob store: each well-known key holds the
// JSON form of one container merged across all users.
package storage

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeyUser         = "user"
	KeyUsers        = "users"
	KeyTransactions = "transactions"
	KeyCategories   = "categories"
	KeyBudgets      = "budgets"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

// Store defines the interface for blob storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the record store.
type Store interface {
	// Get returns the blob stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
