package records

import (
	"context"
	"sync"

	"github.com/shubh-aarambh/fintrack/internal/storage"
)

// State is the lifecycle of a Session.
type State int

const (
	NoUser State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case NoUser:
		return "no_user"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Session holds the record store of the active user, if any.
// Switching users replaces the whole store; records are never merged.
type Session struct {
	blobs storage.Store
	seed  bool
	opts  []Option

	mu    sync.Mutex
	state State
	store *Store
}

// NewSession returns a session with no active user. When seed is true,
// Open runs EnsureDefaults for the user.
func NewSession(blobs storage.Store, seed bool, opts ...Option) *Session {
	return &Session{blobs: blobs, seed: seed, opts: opts}
}

// Open makes userID the active user: NoUser or Ready -> Loading -> Ready.
// On failure the session returns to NoUser.
func (s *Session) Open(ctx context.Context, userID string) (*Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Loading
	s.store = nil

	store, err := Open(ctx, s.blobs, userID, s.opts...)
	if err == nil && s.seed {
		_, err = store.EnsureDefaults(ctx)
	}
	if err != nil {
		s.state = NoUser
		return nil, err
	}

	s.store = store
	s.state = Ready
	return store, nil
}

// Close drops the active user. Persisted records are kept.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = nil
	s.state = NoUser
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Store returns the active user's store, or ErrNoActiveUser.
func (s *Session) Store() (*Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return nil, ErrNoActiveUser
	}
	return s.store, nil
}
