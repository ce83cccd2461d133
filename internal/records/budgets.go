package records

import (
	"context"
	"fmt"

	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/storage"
)

// AddBudget persists a new budget. It returns a *BudgetConflictError when the
// category already has a budget, and ErrCategoryTypeMismatch when the category
// exists but is not an expense category.
func (s *Store) AddBudget(ctx context.Context, fields models.NewBudget) (models.Budget, error) {
	if err := fields.Validate(); err != nil {
		return models.Budget{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return models.Budget{}, err
	}
	defer unlock()

	if err := s.checkBudgetTarget(ctx, "", fields.CategoryID); err != nil {
		return models.Budget{}, err
	}

	start := fields.StartDate
	if start.IsZero() {
		start = models.DateOf(s.now())
	}
	b := models.Budget{
		ID:         s.newID(),
		CategoryID: fields.CategoryID,
		Amount:     fields.Amount,
		Period:     fields.Period,
		StartDate:  start,
		UserID:     s.userID,
	}
	if err := s.saveBudgets(ctx, append(clone(s.budgets), b)); err != nil {
		return models.Budget{}, err
	}
	s.mutated(ctx, containerBudgets, "add", b.ID)
	return b, nil
}

// UpdateBudget merges patch into the budget with the given id. Moving the
// budget to a category that already has another budget is a conflict.
func (s *Store) UpdateBudget(ctx context.Context, id string, patch models.BudgetPatch) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	i := indexOf(s.budgets, func(b models.Budget) bool { return b.ID == id })
	if i < 0 {
		return false, nil
	}
	if patch.IsEmpty() {
		return true, nil
	}

	updated := patch.Apply(s.budgets[i])
	if err := updated.Fields().Validate(); err != nil {
		return true, err
	}
	if updated.CategoryID != s.budgets[i].CategoryID {
		if err := s.checkBudgetTarget(ctx, id, updated.CategoryID); err != nil {
			return true, err
		}
	}

	if err := s.saveBudgets(ctx, replaced(s.budgets, i, updated)); err != nil {
		return true, err
	}
	s.mutated(ctx, containerBudgets, "update", id)
	return true, nil
}

// DeleteBudget removes the budget with the given id.
// found is false, with no error, when no such budget exists.
func (s *Store) DeleteBudget(ctx context.Context, id string) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	i := indexOf(s.budgets, func(b models.Budget) bool { return b.ID == id })
	if i < 0 {
		return false, nil
	}
	if err := s.saveBudgets(ctx, without(s.budgets, i)); err != nil {
		return true, err
	}
	s.mutated(ctx, containerBudgets, "delete", id)
	return true, nil
}

// checkBudgetTarget enforces one budget per category and expense-only targets.
// selfID is the budget being moved, if any. Callers hold s.mu.
func (s *Store) checkBudgetTarget(ctx context.Context, selfID, categoryID string) error {
	for _, b := range s.budgets {
		if b.CategoryID == categoryID && b.ID != selfID {
			err := &BudgetConflictError{CategoryID: categoryID, ExistingID: b.ID}
			s.rejected(ctx, "budget_exists", err)
			return err
		}
	}

	i := indexOf(s.categories, func(c models.Category) bool { return c.ID == categoryID })
	if i >= 0 && s.categories[i].Type != models.Expense {
		err := fmt.Errorf("%w: budgets apply to expense categories, %q is %s", ErrCategoryTypeMismatch, s.categories[i].Name, s.categories[i].Type)
		s.rejected(ctx, "category_type", err)
		return err
	}
	return nil
}

// saveBudgets persists next and commits it to memory. Callers hold s.mu.
func (s *Store) saveBudgets(ctx context.Context, next []models.Budget) error {
	if err := persist(ctx, s, storage.KeyBudgets, next); err != nil {
		return fmt.Errorf("failed to save budgets: %w", err)
	}
	s.budgets = next
	return nil
}

// Budgets returns a copy of the user's budgets in stored order.
func (s *Store) Budgets() []models.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.budgets)
}

// BudgetByID returns the budget with the given id.
func (s *Store) BudgetByID(id string) (models.Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.budgets, func(b models.Budget) bool { return b.ID == id })
	if i < 0 {
		return models.Budget{}, false
	}
	return s.budgets[i], true
}

// BudgetForCategory returns the budget covering categoryID, if any.
func (s *Store) BudgetForCategory(categoryID string) (models.Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.budgets, func(b models.Budget) bool { return b.CategoryID == categoryID })
	if i < 0 {
		return models.Budget{}, false
	}
	return s.budgets[i], true
}
