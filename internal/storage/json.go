package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrMalformedCollection is returned by UpdateSlice when the blob under a key
// is not a JSON array. Nothing is written in that case.
var ErrMalformedCollection = errors.New("stored collection is not a JSON array")

// DecodeFailureFunc is notified when a stored blob or one of its elements
// cannot be parsed.
type DecodeFailureFunc func(key string, err error)

// LoadSlice reads the JSON array stored under key.
//
// A missing key yields an empty slice. A blob that is not an array is logged
// and also yields an empty slice, and elements that do not decode as T are
// skipped: stored data never makes a load fail. Only I/O errors from the store
// are returned.
func LoadSlice[T any](ctx context.Context, s Store, key string, onDecodeFailure DecodeFailureFunc) ([]T, error) {
	elems, err := loadRaw(ctx, s, key)
	if err != nil {
		if !errors.Is(err, ErrMalformedCollection) {
			return nil, err
		}
		slog.WarnContext(ctx, "Failed to parse stored collection, treating as empty", "key", key, "error", err)
		if onDecodeFailure != nil {
			onDecodeFailure(key, err)
		}
		return []T{}, nil
	}

	out := make([]T, 0, len(elems))
	for i, raw := range elems {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable stored record", "key", key, "index", i, "error", err)
			if onDecodeFailure != nil {
				onDecodeFailure(key, err)
			}
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// loadRaw splits the array under key into its elements without decoding them.
func loadRaw(ctx context.Context, s Store, key string) ([]json.RawMessage, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedCollection, key, err)
	}
	return elems, nil
}

// SaveSlice writes items as a JSON array under key.
func SaveSlice[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Selector picks stored elements by their raw JSON.
type Selector func(raw json.RawMessage) bool

// OwnedBy selects records whose "userId" is userID.
func OwnedBy(userID string) Selector {
	return func(raw json.RawMessage) bool {
		var rec struct {
			UserID string `json:"userId"`
		}
		return json.Unmarshal(raw, &rec) == nil && rec.UserID == userID
	}
}

// HasID selects the record whose "id" is id.
func HasID(id string) Selector {
	return func(raw json.RawMessage) bool {
		var rec struct {
			ID string `json:"id"`
		}
		return json.Unmarshal(raw, &rec) == nil && rec.ID == id
	}
}

// UpdateSlice rewrites the array stored under key.
//
// Elements chosen by take that decode as T are passed to mutate, and its
// result is written after the remaining elements. Every other element,
// including chosen ones that do not decode, is written back as stored.
// If the blob is not an array, or mutate fails, nothing is written.
// UpdateSlice returns what mutate produced.
func UpdateSlice[T any](ctx context.Context, s Store, key string, take Selector, mutate func([]T) ([]T, error)) ([]T, error) {
	elems, err := loadRaw(ctx, s, key)
	if err != nil {
		return nil, err
	}

	kept := make([]json.RawMessage, 0, len(elems))
	taken := []T{}
	for _, raw := range elems {
		if take != nil && take(raw) {
			var item T
			if err := json.Unmarshal(raw, &item); err == nil {
				taken = append(taken, item)
				continue
			}
		}
		kept = append(kept, raw)
	}

	next, err := mutate(taken)
	if err != nil {
		return nil, err
	}
	for _, item := range next {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		kept = append(kept, raw)
	}
	if err := SaveSlice(ctx, s, key, kept); err != nil {
		return nil, err
	}
	if next == nil {
		next = []T{}
	}
	return next, nil
}
