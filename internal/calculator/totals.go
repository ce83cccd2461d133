// Package calculator derives totals, trends and budget progress from a
// snapshot of transactions, categories and budgets.
//
// Every function is pure: the result depends only on the arguments, and no
// input slice is modified. Callers pass "now" explicitly wherever the result is
// relative to the current date.
package calculator

import "github.com/shubh-aarambh/fintrack/internal/models"

// TotalByType sums Amount over transactions of the given type.
// It returns 0 for an empty set.
func TotalByType(transactions []models.Transaction, t models.TransactionType) float64 {
	total := 0.0
	for _, tx := range transactions {
		if tx.Type == t {
			total += tx.Amount
		}
	}
	return total
}

// TotalIncome sums all income transactions.
func TotalIncome(transactions []models.Transaction) float64 {
	return TotalByType(transactions, models.Income)
}

// TotalExpenses sums all expense transactions.
func TotalExpenses(transactions []models.Transaction) float64 {
	return TotalByType(transactions, models.Expense)
}

// Balance is total income minus total expenses.
func Balance(transactions []models.Transaction) float64 {
	return TotalIncome(transactions) - TotalExpenses(transactions)
}
