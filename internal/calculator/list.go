package calculator

import (
	"sort"
	"strings"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

// SortByDateDesc returns a copy of transactions ordered newest first.
// Transactions on the same date keep their relative order.
func SortByDateDesc(transactions []models.Transaction) []models.Transaction {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

// Recent returns the n transactions with the latest dates, ties broken by
// original order. n <= 0 yields an empty slice.
func Recent(transactions []models.Transaction, n int) []models.Transaction {
	if n <= 0 {
		return []models.Transaction{}
	}
	sorted := SortByDateDesc(transactions)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// TransactionFilter narrows a transaction list view.
type TransactionFilter struct {
	// Search matches descriptions case-insensitively; empty matches all.
	Search string

	// Type restricts to one type; empty matches both.
	Type models.TransactionType
}

// Filter applies f and returns the matches ordered newest first.
func Filter(transactions []models.Transaction, f TransactionFilter) []models.Transaction {
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	matched := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(tx.Description), needle) {
			continue
		}
		matched = append(matched, tx)
	}
	return SortByDateDesc(matched)
}

// DayGroup is the transactions of one calendar date.
type DayGroup struct {
	Date         models.Date          `json:"date"`
	Transactions []models.Transaction `json:"transactions"`
	Income       float64              `json:"income"`
	Expenses     float64              `json:"expenses"`
}

// GroupByDate buckets transactions by date, newest date first.
func GroupByDate(transactions []models.Transaction) []DayGroup {
	groups := []DayGroup{}
	for _, tx := range SortByDateDesc(transactions) {
		if len(groups) == 0 || !groups[len(groups)-1].Date.Equal(tx.Date) {
			groups = append(groups, DayGroup{Date: tx.Date})
		}
		g := &groups[len(groups)-1]
		g.Transactions = append(g.Transactions, tx)
		switch tx.Type {
		case models.Income:
			g.Income += tx.Amount
		case models.Expense:
			g.Expenses += tx.Amount
		}
	}
	return groups
}
