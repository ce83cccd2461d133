package calculator

import (
	"testing"
	"time"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

func ids(transactions []models.Transaction) []string {
	out := make([]string, len(transactions))
	for i, tx := range transactions {
		out[i] = tx.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecent(t *testing.T) {
	transactions := []models.Transaction{
		tx("a", 1, models.Expense, "", day(2024, time.June, 1)),
		tx("b", 1, models.Expense, "", day(2024, time.June, 3)),
		tx("c", 1, models.Expense, "", day(2024, time.June, 2)),
		tx("d", 1, models.Expense, "", day(2024, time.June, 3)),
	}

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{}},
		{-1, []string{}},
		{2, []string{"b", "d"}},
		{3, []string{"b", "d", "c"}},
		{10, []string{"b", "d", "c", "a"}},
	}

	for _, tt := range tests {
		got := ids(Recent(transactions, tt.n))
		if !equalIDs(got, tt.want) {
			t.Errorf("Recent(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}

	if transactions[0].ID != "a" || transactions[1].ID != "b" {
		t.Error("Recent must not reorder its input")
	}
}

func TestFilter(t *testing.T) {
	transactions := []models.Transaction{
		{ID: "1", Type: models.Expense, Description: "Weekly Groceries", Date: day(2024, time.June, 1)},
		{ID: "2", Type: models.Income, Description: "Salary", Date: day(2024, time.June, 2)},
		{ID: "3", Type: models.Expense, Description: "groceries top-up", Date: day(2024, time.June, 3)},
		{ID: "4", Type: models.Expense, Description: "Movie Night", Date: day(2024, time.June, 4)},
	}

	tests := []struct {
		name   string
		filter TransactionFilter
		want   []string
	}{
		{"no filter", TransactionFilter{}, []string{"4", "3", "2", "1"}},
		{"search is case-insensitive", TransactionFilter{Search: "GROCER"}, []string{"3", "1"}},
		{"type only", TransactionFilter{Type: models.Income}, []string{"2"}},
		{"search and type", TransactionFilter{Search: "night", Type: models.Expense}, []string{"4"}},
		{"no match", TransactionFilter{Search: "rent"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(transactions, tt.filter))
			if !equalIDs(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupByDate(t *testing.T) {
	transactions := []models.Transaction{
		tx("a", 3500, models.Income, "", day(2024, time.June, 1)),
		tx("b", 250, models.Expense, "", day(2024, time.June, 2)),
		tx("c", 1200, models.Expense, "", day(2024, time.June, 1)),
		tx("d", 85, models.Expense, "", day(2024, time.June, 2)),
	}

	groups := GroupByDate(transactions)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !groups[0].Date.Equal(day(2024, time.June, 2)) {
		t.Errorf("first group date = %s", groups[0].Date)
	}
	if got := ids(groups[0].Transactions); !equalIDs(got, []string{"b", "d"}) {
		t.Errorf("first group = %v", got)
	}
	if groups[0].Expenses != 335 || groups[0].Income != 0 {
		t.Errorf("first group totals = %v/%v", groups[0].Income, groups[0].Expenses)
	}
	if groups[1].Income != 3500 || groups[1].Expenses != 1200 {
		t.Errorf("second group totals = %v/%v", groups[1].Income, groups[1].Expenses)
	}
}
