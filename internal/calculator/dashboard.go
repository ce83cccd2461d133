package calculator

import (
	"time"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

// Dashboard defaults.
const (
	DefaultTrendMonths = 6
	DefaultRecentCount = 5
)

// DashboardOptions sizes the trend and recent lists. Zero values use defaults.
type DashboardOptions struct {
	TrendMonths int
	RecentCount int
}

// Summary is everything the dashboard shows, computed from one snapshot.
type Summary struct {
	Balance   float64              `json:"balance"`
	Income    float64              `json:"income"`
	Expenses  float64              `json:"expenses"`
	Breakdown []CategoryTotal      `json:"breakdown"`
	Trend     []MonthTotals        `json:"trend"`
	Budgets   []Progress           `json:"budgets"`
	Recent    []models.Transaction `json:"recent"`
}

// Dashboard computes a Summary for snap as of now.
func Dashboard(snap Snapshot, now time.Time, opts DashboardOptions) Summary {
	if opts.TrendMonths <= 0 {
		opts.TrendMonths = DefaultTrendMonths
	}
	if opts.RecentCount <= 0 {
		opts.RecentCount = DefaultRecentCount
	}

	income := TotalIncome(snap.Transactions)
	expenses := TotalExpenses(snap.Transactions)

	return Summary{
		Balance:   income - expenses,
		Income:    income,
		Expenses:  expenses,
		Breakdown: ExpenseBreakdown(snap.Transactions, snap.Categories),
		Trend:     MonthlySeries(snap.Transactions, opts.TrendMonths, now),
		Budgets:   BudgetReport(snap.Budgets, snap.Categories, snap.Transactions, models.DateOf(now)),
		Recent:    Recent(snap.Transactions, opts.RecentCount),
	}
}
