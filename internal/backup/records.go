package backup

import (
	"encoding/json"
	"fmt"

	"github.com/shubh-aarambh/fintrack/internal/calculator"
	"github.com/shubh-aarambh/fintrack/internal/models"
)

// Records is the decoded content of a Document.
type Records struct {
	User         *models.User
	Transactions []models.Transaction
	Categories   []models.Category
	Budgets      []models.Budget
}

// ExportUser builds a document holding one user's records only, in the same
// layout as a full export.
func ExportUser(user models.User, snap calculator.Snapshot) (Document, error) {
	var doc Document
	var err error
	if doc.User, err = encode(user.Public()); err != nil {
		return Document{}, err
	}
	if doc.Transactions, err = encode(nonNil(snap.Transactions)); err != nil {
		return Document{}, err
	}
	if doc.Categories, err = encode(nonNil(snap.Categories)); err != nil {
		return Document{}, err
	}
	if doc.Budgets, err = encode(nonNil(snap.Budgets)); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Decode parses the stored JSON carried by each present field.
func (d Document) Decode() (Records, error) {
	var r Records
	if d.User != nil && *d.User != "" {
		var u models.User
		if err := json.Unmarshal([]byte(*d.User), &u); err != nil {
			return Records{}, fmt.Errorf("%w: user: %v", ErrMalformedDocument, err)
		}
		r.User = &u
	}
	if err := decodeField(d.Transactions, "transactions", &r.Transactions); err != nil {
		return Records{}, err
	}
	if err := decodeField(d.Categories, "categories", &r.Categories); err != nil {
		return Records{}, err
	}
	if err := decodeField(d.Budgets, "budgets", &r.Budgets); err != nil {
		return Records{}, err
	}
	return r, nil
}

// OwnedBy keeps the records tagged with userID.
func (r Records) OwnedBy(userID string) Records {
	out := Records{User: r.User}
	for _, t := range r.Transactions {
		if t.UserID == userID {
			out.Transactions = append(out.Transactions, t)
		}
	}
	for _, c := range r.Categories {
		if c.UserID == userID {
			out.Categories = append(out.Categories, c)
		}
	}
	for _, b := range r.Budgets {
		if b.UserID == userID {
			out.Budgets = append(out.Budgets, b)
		}
	}
	return out
}

// Snapshot returns the containers as an aggregation snapshot.
func (r Records) Snapshot() calculator.Snapshot {
	return calculator.Snapshot{
		Transactions: nonNil(r.Transactions),
		Categories:   nonNil(r.Categories),
		Budgets:      nonNil(r.Budgets),
	}
}

func decodeField[T any](field *string, name string, out *[]T) error {
	if field == nil || *field == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(*field), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedDocument, name, err)
	}
	return nil
}

func encode(v any) (*string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	s := string(data)
	return &s, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
