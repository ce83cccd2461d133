package records

import (
	"context"
	"fmt"

	"github.com/shubh-aarambh/fintrack/internal/calculator"
	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/storage"
)

// AddTransaction validates fields, assigns an id and creation time, and persists
// the new transaction.
func (s *Store) AddTransaction(ctx context.Context, fields models.NewTransaction) (models.Transaction, error) {
	if err := fields.Validate(); err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	defer unlock()

	if err := s.checkCategoryType(fields.CategoryID, fields.Type); err != nil {
		s.rejected(ctx, "category_type", err)
		return models.Transaction{}, err
	}

	t := models.Transaction{
		ID:          s.newID(),
		Amount:      fields.Amount,
		Type:        fields.Type,
		CategoryID:  fields.CategoryID,
		Date:        fields.Date,
		Description: fields.Description,
		Recurrence:  fields.Recurrence,
		UserID:      s.userID,
		CreatedAt:   s.now().UTC(),
	}

	next := append(clone(s.transactions), t)
	if err := persist(ctx, s, storage.KeyTransactions, next); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to save transaction: %w", err)
	}
	s.transactions = next
	s.mutated(ctx, containerTransactions, "add", t.ID)
	return t, nil
}

// UpdateTransaction merges patch into the transaction with the given id.
// found is false, with no error, when no such transaction exists. An empty
// patch writes nothing.
func (s *Store) UpdateTransaction(ctx context.Context, id string, patch models.TransactionPatch) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	i := indexOf(s.transactions, func(t models.Transaction) bool { return t.ID == id })
	if i < 0 {
		return false, nil
	}
	if patch.IsEmpty() {
		return true, nil
	}

	updated := patch.Apply(s.transactions[i])
	if err := updated.Fields().Validate(); err != nil {
		return true, err
	}
	if err := s.checkCategoryType(updated.CategoryID, updated.Type); err != nil {
		s.rejected(ctx, "category_type", err)
		return true, err
	}

	next := replaced(s.transactions, i, updated)
	if err := persist(ctx, s, storage.KeyTransactions, next); err != nil {
		return true, fmt.Errorf("failed to save transaction: %w", err)
	}
	s.transactions = next
	s.mutated(ctx, containerTransactions, "update", id)
	return true, nil
}

// DeleteTransaction removes the transaction with the given id.
// found is false, with no error, when no such transaction exists.
func (s *Store) DeleteTransaction(ctx context.Context, id string) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	i := indexOf(s.transactions, func(t models.Transaction) bool { return t.ID == id })
	if i < 0 {
		return false, nil
	}

	next := without(s.transactions, i)
	if err := persist(ctx, s, storage.KeyTransactions, next); err != nil {
		return true, fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.transactions = next
	s.mutated(ctx, containerTransactions, "delete", id)
	return true, nil
}

// checkCategoryType rejects a reference to an existing category of the other
// type. Missing categories are allowed. Callers hold s.mu.
func (s *Store) checkCategoryType(categoryID string, t models.TransactionType) error {
	if categoryID == "" {
		return nil
	}
	i := indexOf(s.categories, func(c models.Category) bool { return c.ID == categoryID })
	if i < 0 {
		return nil
	}
	if c := s.categories[i]; c.Type != t {
		return fmt.Errorf("%w: %s category %q cannot hold %s transactions", ErrCategoryTypeMismatch, c.Type, c.Name, t)
	}
	return nil
}

// Transactions returns a copy of the user's transactions in stored order.
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.transactions)
}

// TransactionByID returns the transaction with the given id.
func (s *Store) TransactionByID(id string) (models.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.transactions, func(t models.Transaction) bool { return t.ID == id })
	if i < 0 {
		return models.Transaction{}, false
	}
	return s.transactions[i], true
}

// TransactionsByType returns the user's transactions of type t.
func (s *Store) TransactionsByType(t models.TransactionType) []models.Transaction {
	return s.filterTransactions(func(tx models.Transaction) bool { return tx.Type == t })
}

// TransactionsForCategory returns the transactions referencing categoryID.
func (s *Store) TransactionsForCategory(categoryID string) []models.Transaction {
	return s.filterTransactions(func(tx models.Transaction) bool { return tx.CategoryID == categoryID })
}

// Recent returns the n latest transactions by date.
func (s *Store) Recent(n int) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.Recent(s.transactions, n)
}

func (s *Store) filterTransactions(match func(models.Transaction) bool) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Transaction{}
	for _, t := range s.transactions {
		if match(t) {
			out = append(out, t)
		}
	}
	return out
}
