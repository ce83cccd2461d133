package models

import "errors"

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

const (
	EveryDay   RecurringInterval = "daily"
	EveryWeek  RecurringInterval = "weekly"
	EveryMonth RecurringInterval = "monthly"
	EveryYear  RecurringInterval = "yearly"
)

type (
	// TransactionType partitions transactions and categories into income and expense.
	TransactionType string

	// BudgetPeriod is the recurring window a budget is measured against.
	BudgetPeriod string

	// RecurringInterval is how often a recurring transaction repeats.
	RecurringInterval string
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrInvalidInterval = errors.New("invalid recurring interval")
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Valid reports whether p is one of the supported budget periods.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Valid reports whether i is one of the supported recurring intervals.
func (i RecurringInterval) Valid() bool {
	switch i {
	case EveryDay, EveryWeek, EveryMonth, EveryYear:
		return true
	}
	return false
}

// Recurrence is either NoRecurrence or Recurring(interval).
// The zero value is NoRecurrence.
type Recurrence struct {
	interval RecurringInterval
}

// NoRecurrence marks a one-off transaction.
var NoRecurrence = Recurrence{}

// Recurring returns a recurrence repeating every interval.
// An invalid interval yields NoRecurrence.
func Recurring(interval RecurringInterval) Recurrence {
	if !interval.Valid() {
		return NoRecurrence
	}
	return Recurrence{interval: interval}
}

// IsRecurring reports whether the transaction repeats.
func (r Recurrence) IsRecurring() bool {
	return r.interval != ""
}

// Interval returns the repeat interval and whether there is one.
func (r Recurrence) Interval() (RecurringInterval, bool) {
	return r.interval, r.interval != ""
}

func (r Recurrence) String() string {
	if !r.IsRecurring() {
		return "none"
	}
	return string(r.interval)
}
