// Package redis provides a Redis-backed implementation of storage.Store.
//
// Each blob is one string key under a configurable prefix. Calls go through a
// circuit breaker: after three consecutive failures they return ErrUnavailable
// for 30 seconds without contacting the server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"

	"github.com/shubh-aarambh/fintrack/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// DefaultPrefix namespaces fintrack keys in a shared database.
const DefaultPrefix = "fintrack:"

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("storage: redis unavailable")

// Store keeps blobs in Redis.
type Store struct {
	client  goredis.Cmdable
	closer  func() error
	prefix  string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker

	mu     sync.RWMutex
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTimeout bounds each command. Zero leaves the caller's deadline alone.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// New connects to the server at addr and checks it answers.
func New(ctx context.Context, addr string, opts ...Option) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	s := NewWithClient(client, opts...)
	s.closer = client.Close
	return s, nil
}

// NewWithClient wraps an existing client. Close does not close it.
func NewWithClient(client goredis.Cmdable, opts ...Option) *Store {
	s := &Store{
		client:  client,
		prefix:  DefaultPrefix,
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "redis-storage",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return s
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

// do runs fn under the breaker and the per-command timeout. A missing key is
// a normal answer and does not count as a failure.
func (s *Store) do(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, storage.ErrClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	v, err := s.breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, err
}

type lookup struct {
	value []byte
	found bool
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.do(ctx, func(ctx context.Context) (any, error) {
		b, err := s.client.Get(ctx, s.key(key)).Bytes()
		if errors.Is(err, goredis.Nil) {
			return lookup{}, nil
		}
		if err != nil {
			return nil, err
		}
		return lookup{value: b, found: true}, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	l := v.(lookup)
	return l.value, l.found, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.do(ctx, func(ctx context.Context) (any, error) {
		return nil, s.client.Set(ctx, s.key(key), value, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.do(ctx, func(ctx context.Context) (any, error) {
		return nil, s.client.Del(ctx, s.key(key)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close marks the store closed and closes the client it created.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
