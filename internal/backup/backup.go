// Package backup exports and imports the persisted blob keys as one JSON document.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shubh-aarambh/fintrack/internal/storage"
)

var ErrMalformedDocument = errors.New("malformed export document")

// Document holds the raw stored JSON of each key. A nil field means the key was
// absent at export time and is left alone on import.
type Document struct {
	User         *string `json:"user"`
	Transactions *string `json:"transactions"`
	Categories   *string `json:"categories"`
	Budgets      *string `json:"budgets"`
}

// Filename is the suggested download name for an export taken at now.
func Filename(now time.Time) string {
	return "fintrack_export_" + now.UTC().Format("2006-01-02") + ".json"
}

func (d *Document) fields() []struct {
	key   string
	value **string
} {
	return []struct {
		key   string
		value **string
	}{
		{storage.KeyUser, &d.User},
		{storage.KeyTransactions, &d.Transactions},
		{storage.KeyCategories, &d.Categories},
		{storage.KeyBudgets, &d.Budgets},
	}
}

// Export reads the four keys verbatim.
func Export(ctx context.Context, blobs storage.Store) (Document, error) {
	var doc Document
	for _, f := range doc.fields() {
		data, ok, err := blobs.Get(ctx, f.key)
		if err != nil {
			return Document{}, fmt.Errorf("failed to read %s: %w", f.key, err)
		}
		if ok {
			s := string(data)
			*f.value = &s
		}
	}
	return doc, nil
}

// Marshal encodes an export document.
func Marshal(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

// Parse decodes an export document without touching storage.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return doc, nil
}

// Import overwrites every key present in data with its stored JSON, verbatim.
// A document that does not parse writes nothing. Callers reload their record
// stores afterwards.
func Import(ctx context.Context, blobs storage.Store, data []byte) (Document, error) {
	doc, err := Parse(data)
	if err != nil {
		return Document{}, err
	}

	written := 0
	for _, f := range doc.fields() {
		v := *f.value
		if v == nil || *v == "" {
			continue
		}
		if err := blobs.Set(ctx, f.key, []byte(*v)); err != nil {
			return doc, fmt.Errorf("failed to write %s: %w", f.key, err)
		}
		written++
	}

	slog.InfoContext(ctx, "Imported data", "keys", written)
	return doc, nil
}
