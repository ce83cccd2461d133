package calculator

import (
	"time"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

// Thresholds for budget states, in percent of the budget amount.
const (
	NearLimitPercent = 80.0
	FullPercent      = 100.0
)

// Progress is a budget's consumption within its current period window.
type Progress struct {
	BudgetID   string `json:"budgetId"`
	CategoryID string `json:"categoryId"`

	// CategoryName is filled by BudgetReport.
	CategoryName string `json:"categoryName"`

	Period models.BudgetPeriod `json:"period"`
	Amount float64             `json:"amount"`
	Spent  float64             `json:"spent"`

	// Remaining is Amount - Spent; negative when over budget.
	Remaining float64 `json:"remaining"`

	// PercentUsed is unclamped and drives IsOverBudget/IsNearLimit.
	PercentUsed float64 `json:"percentUsed"`

	// Displayed is PercentUsed clamped to 100 for progress bars.
	Displayed float64 `json:"displayed"`

	// IsOverBudget is Spent > Amount.
	IsOverBudget bool `json:"isOverBudget"`

	// IsNearLimit is 80 <= PercentUsed < 100.
	IsNearLimit bool `json:"isNearLimit"`

	// ZeroAmount marks a budget whose Amount is not positive. PercentUsed is
	// then 0 when nothing was spent and 100 otherwise.
	ZeroAmount bool `json:"zeroAmount,omitempty"`

	WindowStart models.Date `json:"windowStart"`
	WindowEnd   models.Date `json:"windowEnd"`
}

// PeriodStart returns the first day of the period window containing ref:
// the most recent Sunday for weekly, day 1 of the month for monthly and
// January 1 for yearly. An unknown period yields ref itself.
func PeriodStart(period models.BudgetPeriod, ref models.Date) models.Date {
	switch period {
	case models.Weekly:
		return ref.AddDays(-int(ref.Weekday()))
	case models.Monthly:
		return models.NewDate(ref.Year(), ref.Month(), 1)
	case models.Yearly:
		return models.NewDate(ref.Year(), time.January, 1)
	default:
		return ref
	}
}

// InWindow reports whether d lies in [start, end] inclusive.
func InWindow(d, start, end models.Date) bool {
	return !d.Before(start) && !d.After(end)
}

// BudgetProgress sums the expenses of budget.CategoryID from the start of the
// period window containing ref through ref inclusive.
func BudgetProgress(budget models.Budget, transactions []models.Transaction, ref models.Date) Progress {
	start := PeriodStart(budget.Period, ref)

	spent := 0.0
	for _, tx := range transactions {
		if tx.Type != models.Expense || tx.CategoryID != budget.CategoryID {
			continue
		}
		if InWindow(tx.Date, start, ref) {
			spent += tx.Amount
		}
	}

	p := Progress{
		BudgetID:    budget.ID,
		CategoryID:  budget.CategoryID,
		Period:      budget.Period,
		Amount:      budget.Amount,
		Spent:       spent,
		Remaining:   budget.Amount - spent,
		WindowStart: start,
		WindowEnd:   ref,
	}

	if budget.Amount > 0 {
		p.PercentUsed = spent / budget.Amount * 100
	} else {
		p.ZeroAmount = true
		if spent > 0 {
			p.PercentUsed = FullPercent
		}
	}

	p.Displayed = min(p.PercentUsed, FullPercent)
	p.IsOverBudget = spent > budget.Amount
	p.IsNearLimit = p.PercentUsed >= NearLimitPercent && p.PercentUsed < FullPercent
	return p
}

// BudgetReport computes progress for every budget whose category exists,
// in budget order. Budgets pointing at a deleted category are skipped.
func BudgetReport(budgets []models.Budget, categories []models.Category, transactions []models.Transaction, ref models.Date) []Progress {
	index := categoryIndex(categories)

	report := make([]Progress, 0, len(budgets))
	for _, b := range budgets {
		c, ok := index[b.CategoryID]
		if !ok {
			continue
		}
		p := BudgetProgress(b, transactions, ref)
		p.CategoryName = c.Name
		report = append(report, p)
	}
	return report
}
