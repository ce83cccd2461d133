package calculator

import (
	"sort"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

// CategoryTotal is the expense sum for one category.
type CategoryTotal struct {
	CategoryID string  `json:"categoryId"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Amount     float64 `json:"amount"`

	// Share is Amount as a percentage of all expenses (0 when there are none).
	Share float64 `json:"share"`
}

// ExpenseBreakdown groups expense transactions by category and sums each group.
//
// Groups whose category no longer exists are labelled "Uncategorized" with a
// neutral color. The result is sorted by Amount descending; equal amounts keep
// the order in which their category first appeared.
func ExpenseBreakdown(transactions []models.Transaction, categories []models.Category) []CategoryTotal {
	index := categoryIndex(categories)

	totals := []CategoryTotal{}
	position := make(map[string]int)
	grand := 0.0

	for _, tx := range transactions {
		if tx.Type != models.Expense {
			continue
		}
		grand += tx.Amount

		i, seen := position[tx.CategoryID]
		if !seen {
			i = len(totals)
			position[tx.CategoryID] = i
			totals = append(totals, newCategoryTotal(tx.CategoryID, index))
		}
		totals[i].Amount += tx.Amount
	}

	if grand > 0 {
		for i := range totals {
			totals[i].Share = totals[i].Amount / grand * 100
		}
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount > totals[j].Amount
	})
	return totals
}

func newCategoryTotal(categoryID string, index map[string]models.Category) CategoryTotal {
	c, ok := index[categoryID]
	if !ok {
		return CategoryTotal{
			CategoryID: categoryID,
			Name:       models.UncategorizedName,
			Color:      models.UncategorizedColor,
		}
	}
	return CategoryTotal{CategoryID: categoryID, Name: c.Name, Color: c.Color}
}
