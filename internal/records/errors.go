package records

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveUser         = errors.New("no active user")
	ErrBudgetExists         = errors.New("a budget already exists for this category")
	ErrCategoryInUse        = errors.New("category is referenced by transactions")
	ErrCategoryTypeMismatch = errors.New("category type does not match")
)

// BudgetConflictError is returned when a budget would target a category that
// another budget already covers.
type BudgetConflictError struct {
	CategoryID string
	ExistingID string
}

func (e *BudgetConflictError) Error() string {
	return fmt.Sprintf("budget %s already covers category %s", e.ExistingID, e.CategoryID)
}

func (e *BudgetConflictError) Is(target error) bool {
	return target == ErrBudgetExists
}

// CategoryInUseError is returned when deleting a category that transactions
// still reference.
type CategoryInUseError struct {
	CategoryID string
	Count      int
}

func (e *CategoryInUseError) Error() string {
	noun := "transactions"
	if e.Count == 1 {
		noun = "transaction"
	}
	return fmt.Sprintf("cannot delete category %s: used by %d %s", e.CategoryID, e.Count, noun)
}

func (e *CategoryInUseError) Is(target error) bool {
	return target == ErrCategoryInUse
}
