package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrMissingDate   = errors.New("date is required")
)

// Transaction represents a single dated income or expense.
type Transaction struct {
	// ID is the unique identifier (UUID format), assigned by the record store.
	ID string

	// Amount is the non-negative value in dollars. The sign comes from Type.
	Amount float64

	Type TransactionType

	// CategoryID references Category.ID. The category may no longer exist.
	CategoryID string

	Date Date

	Description string

	Recurrence Recurrence

	// UserID is the owning user, attached by the record store.
	UserID string

	// CreatedAt is when the record was first stored.
	CreatedAt time.Time
}

// NewTransaction holds the user-supplied fields of a transaction to add.
type NewTransaction struct {
	Amount      float64
	Type        TransactionType
	CategoryID  string
	Date        Date
	Description string
	Recurrence  Recurrence
}

// TransactionPatch is a partial update. Nil fields keep their current value.
type TransactionPatch struct {
	Amount      *float64
	Type        *TransactionType
	CategoryID  *string
	Date        *Date
	Description *string
	Recurrence  *Recurrence
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Amount == nil && p.Type == nil && p.CategoryID == nil &&
		p.Date == nil && p.Description == nil && p.Recurrence == nil
}

// Apply returns t with the patch merged in. ID, UserID and CreatedAt never change.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Recurrence != nil {
		t.Recurrence = *p.Recurrence
	}
	return t
}

// Fields returns the user-supplied fields of t.
func (t Transaction) Fields() NewTransaction {
	return NewTransaction{
		Amount:      t.Amount,
		Type:        t.Type,
		CategoryID:  t.CategoryID,
		Date:        t.Date,
		Description: t.Description,
		Recurrence:  t.Recurrence,
	}
}

// Validate checks the fields a user can set.
func (n NewTransaction) Validate() error {
	if math.IsNaN(n.Amount) || math.IsInf(n.Amount, 0) || n.Amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, n.Amount)
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	if n.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// transactionJSON is the persisted layout.
type transactionJSON struct {
	ID                string            `json:"id"`
	Amount            float64           `json:"amount"`
	Type              TransactionType   `json:"type"`
	CategoryID        string            `json:"categoryId"`
	Date              Date              `json:"date"`
	Description       string            `json:"description"`
	IsRecurring       bool              `json:"isRecurring,omitempty"`
	RecurringInterval RecurringInterval `json:"recurringInterval,omitempty"`
	UserID            string            `json:"userId"`
	CreatedAt         time.Time         `json:"createdAt"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	interval, recurring := t.Recurrence.Interval()
	return json.Marshal(transactionJSON{
		ID:                t.ID,
		Amount:            t.Amount,
		Type:              t.Type,
		CategoryID:        t.CategoryID,
		Date:              t.Date,
		Description:       t.Description,
		IsRecurring:       recurring,
		RecurringInterval: interval,
		UserID:            t.UserID,
		CreatedAt:         t.CreatedAt,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Transaction{
		ID:          raw.ID,
		Amount:      raw.Amount,
		Type:        raw.Type,
		CategoryID:  raw.CategoryID,
		Date:        raw.Date,
		Description: raw.Description,
		UserID:      raw.UserID,
		CreatedAt:   raw.CreatedAt,
	}
	if raw.IsRecurring {
		t.Recurrence = Recurring(raw.RecurringInterval)
	}
	return nil
}
