package models

import (
	"errors"
	"fmt"
	"math"
)

var ErrMissingCategory = errors.New("budget category is required")

// Budget is a spending ceiling for one expense category over a recurring period.
type Budget struct {
	ID string `json:"id"`

	// CategoryID should reference an expense-type Category.
	// At most one budget exists per category; the record store enforces this.
	CategoryID string `json:"categoryId"`

	// Amount is the positive ceiling in dollars.
	Amount float64 `json:"amount"`

	Period BudgetPeriod `json:"period"`

	StartDate Date `json:"startDate"`

	UserID string `json:"userId"`
}

// NewBudget holds the user-supplied fields of a budget to add.
type NewBudget struct {
	CategoryID string
	Amount     float64
	Period     BudgetPeriod
	StartDate  Date
}

// BudgetPatch is a partial update. Nil fields keep their current value.
type BudgetPatch struct {
	CategoryID *string
	Amount     *float64
	Period     *BudgetPeriod
	StartDate  *Date
}

func (p BudgetPatch) IsEmpty() bool {
	return p.CategoryID == nil && p.Amount == nil && p.Period == nil && p.StartDate == nil
}

func (p BudgetPatch) Apply(b Budget) Budget {
	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	return b
}

func (b Budget) Fields() NewBudget {
	return NewBudget{CategoryID: b.CategoryID, Amount: b.Amount, Period: b.Period, StartDate: b.StartDate}
}

func (n NewBudget) Validate() error {
	if n.CategoryID == "" {
		return ErrMissingCategory
	}
	if math.IsNaN(n.Amount) || math.IsInf(n.Amount, 0) || n.Amount <= 0 {
		return fmt.Errorf("%w: budget amount must be positive, got %v", ErrInvalidAmount, n.Amount)
	}
	if !n.Period.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, n.Period)
	}
	return nil
}
