// Package memory provides an in-memory implementation of storage.Store.
package memory

import (
	"context"
	"sync"

	"github.com/shubh-aarambh/fintrack/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps blobs in a map. It is safe for concurrent use.
// Data is lost when the process exits.
type Store struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	closed bool
}

func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, storage.ErrClosed
	}
	v, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate stored bytes
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	delete(s.blobs, key)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
