// Package records owns one user's transactions, categories and budgets.
//
// A Store keeps the user's slice of each container in memory and persists
// every mutation with a load-merge-store cycle against the shared blob store.
// Under the write lock the user's records are re-read, the mutation is checked
// against them, and the user's part of the collection is replaced. Records of
// other users are written back as stored, even when they no longer decode.
package records

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shubh-aarambh/fintrack/internal/calculator"
	"github.com/shubh-aarambh/fintrack/internal/metrics"
	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/storage"
)

// Container names used in logs and metrics.
const (
	containerTransactions = "transactions"
	containerCategories   = "categories"
	containerBudgets      = "budgets"
)

// Store is the record store for a single user.
type Store struct {
	blobs   storage.Store
	userID  string
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
	metrics *metrics.Metrics

	// writeMu serializes load-merge-store cycles. Stores sharing a blob store
	// in one process should share it.
	writeMu sync.Locker

	mu           sync.RWMutex
	transactions []models.Transaction
	categories   []models.Category
	budgets      []models.Budget
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for CreatedAt, seeding and Recent views.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithWriteLock shares a lock between stores writing to the same blob store.
func WithWriteLock(l sync.Locker) Option {
	return func(s *Store) { s.writeMu = l }
}

// Open loads userID's records from blobs.
// Unparsable containers are treated as empty.
func Open(ctx context.Context, blobs storage.Store, userID string, opts ...Option) (*Store, error) {
	if userID == "" {
		return nil, ErrNoActiveUser
	}

	s := &Store{
		blobs:   blobs,
		userID:  userID,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		writeMu: &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("user_id", userID)

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// UserID returns the owner of this store.
func (s *Store) UserID() string {
	return s.userID
}

// Reload discards in-memory state and reads the user's records again.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx)
}

// reload reads the user's records. Callers hold s.mu.
func (s *Store) reload(ctx context.Context) error {
	transactions, err := storage.LoadSlice[models.Transaction](ctx, s.blobs, storage.KeyTransactions, s.decodeFailed)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	categories, err := storage.LoadSlice[models.Category](ctx, s.blobs, storage.KeyCategories, s.decodeFailed)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	budgets, err := storage.LoadSlice[models.Budget](ctx, s.blobs, storage.KeyBudgets, s.decodeFailed)
	if err != nil {
		return fmt.Errorf("failed to load budgets: %w", err)
	}

	s.transactions = ownedBy(transactions, s.userID, transactionOwner)
	s.categories = ownedBy(categories, s.userID, categoryOwner)
	s.budgets = ownedBy(budgets, s.userID, budgetOwner)

	s.logger.DebugContext(ctx, "Loaded records",
		"transactions", len(s.transactions),
		"categories", len(s.categories),
		"budgets", len(s.budgets),
	)
	return nil
}

func (s *Store) decodeFailed(key string, _ error) {
	s.metrics.RecordDecodeFailure(key)
}

func transactionOwner(t models.Transaction) string { return t.UserID }
func categoryOwner(c models.Category) string       { return c.UserID }
func budgetOwner(b models.Budget) string           { return b.UserID }

func ownedBy[T any](items []T, userID string, owner func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if owner(item) == userID {
			out = append(out, item)
		}
	}
	return out
}

// lockForWrite takes the shared write lock and re-reads the user's records,
// so a mutation is decided against what is stored now rather than what was
// loaded at Open. Callers hold s.mu and call the returned func when done.
func (s *Store) lockForWrite(ctx context.Context) (func(), error) {
	s.writeMu.Lock()
	if err := s.reload(ctx); err != nil {
		s.writeMu.Unlock()
		return nil, err
	}
	return s.writeMu.Unlock, nil
}

// persist writes mine as this user's part of the container under key. Other
// users' records are kept as stored. A blob that is not a JSON array is never
// overwritten. Callers hold s.mu and the write lock.
func persist[T any](ctx context.Context, s *Store, key string, mine []T) error {
	_, err := storage.UpdateSlice(ctx, s.blobs, key, storage.OwnedBy(s.userID), func([]T) ([]T, error) {
		return mine, nil
	})
	return err
}

func (s *Store) mutated(ctx context.Context, container, op, id string) {
	s.metrics.RecordMutation(container, op)
	s.logger.DebugContext(ctx, "Record mutated", "container", container, "op", op, "id", id)
}

func (s *Store) rejected(ctx context.Context, reason string, err error) {
	s.metrics.RecordRejection(reason)
	s.logger.InfoContext(ctx, "Mutation rejected", "reason", reason, "error", err)
}

// Snapshot returns a copy of all three containers for aggregation.
func (s *Store) Snapshot() calculator.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.Snapshot{
		Transactions: clone(s.transactions),
		Categories:   clone(s.categories),
		Budgets:      clone(s.budgets),
	}
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

func without[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func replaced[T any](items []T, i int, item T) []T {
	out := clone(items)
	out[i] = item
	return out
}

// ReplaceAll swaps the user's three containers for the records in snap,
// retagging each with this user. Records without an id get a fresh one.
// Fields are stored as given. If any container fails to save, the blobs
// written so far are restored on a best-effort basis.
func (s *Store) ReplaceAll(ctx context.Context, snap calculator.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	transactions := clone(snap.Transactions)
	for i := range transactions {
		transactions[i].UserID = s.userID
		if transactions[i].ID == "" {
			transactions[i].ID = s.newID()
		}
	}
	categories := clone(snap.Categories)
	for i := range categories {
		categories[i].UserID = s.userID
		if categories[i].ID == "" {
			categories[i].ID = s.newID()
		}
	}
	budgets := clone(snap.Budgets)
	for i := range budgets {
		budgets[i].UserID = s.userID
		if budgets[i].ID == "" {
			budgets[i].ID = s.newID()
		}
	}

	saved, err := s.captureBlobs(ctx)
	if err != nil {
		return err
	}
	if err := s.replaceContainers(ctx, transactions, categories, budgets); err != nil {
		s.restoreBlobs(ctx, saved)
		return err
	}

	s.metrics.RecordMutation("all", "replace")
	s.logger.InfoContext(ctx, "Replaced records",
		"transactions", len(transactions),
		"categories", len(categories),
		"budgets", len(budgets),
	)
	return nil
}

func (s *Store) replaceContainers(ctx context.Context, transactions []models.Transaction, categories []models.Category, budgets []models.Budget) error {
	if err := s.saveCategories(ctx, categories); err != nil {
		return err
	}
	if err := s.saveBudgets(ctx, budgets); err != nil {
		return err
	}
	if err := persist(ctx, s, storage.KeyTransactions, transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	s.transactions = transactions
	return nil
}

var recordKeys = []string{storage.KeyCategories, storage.KeyBudgets, storage.KeyTransactions}

// blob is a raw stored value; present is false for a missing key.
type blob struct {
	data    []byte
	present bool
}

func (s *Store) captureBlobs(ctx context.Context) (map[string]blob, error) {
	saved := make(map[string]blob, len(recordKeys))
	for _, key := range recordKeys {
		data, ok, err := s.blobs.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		saved[key] = blob{data: data, present: ok}
	}
	return saved, nil
}

// restoreBlobs puts back the values captured before a failed replace and
// reloads memory from whatever is stored afterwards. Callers hold s.mu.
func (s *Store) restoreBlobs(ctx context.Context, saved map[string]blob) {
	for _, key := range recordKeys {
		b := saved[key]
		var err error
		if b.present {
			err = s.blobs.Set(ctx, key, b.data)
		} else {
			err = s.blobs.Remove(ctx, key)
		}
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to restore records after failed replace", "key", key, "error", err)
		}
	}
	if err := s.reload(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to reload records after failed replace", "error", err)
	}
}
