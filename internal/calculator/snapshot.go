package calculator

import "github.com/shubh-aarambh/fintrack/internal/models"

// Snapshot is a read-only view of one user's collections.
// Aggregation functions never modify the slices they are given.
type Snapshot struct {
	Transactions []models.Transaction
	Categories   []models.Category
	Budgets      []models.Budget
}

// categoryIndex maps category IDs to categories for display lookups.
func categoryIndex(categories []models.Category) map[string]models.Category {
	index := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index
}
