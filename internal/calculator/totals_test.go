package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

func tx(id string, amount float64, typ models.TransactionType, categoryID string, date models.Date) models.Transaction {
	return models.Transaction{ID: id, Amount: amount, Type: typ, CategoryID: categoryID, Date: date}
}

func day(y int, m time.Month, d int) models.Date {
	return models.NewDate(y, m, d)
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name         string
		transactions []models.Transaction
		wantIncome   float64
		wantExpenses float64
		wantBalance  float64
	}{
		{
			name:         "empty set",
			transactions: nil,
		},
		{
			name: "salary and rent",
			transactions: []models.Transaction{
				tx("t1", 3500, models.Income, "", day(2024, time.January, 1)),
				tx("t2", 1200, models.Expense, "", day(2024, time.January, 1)),
			},
			wantIncome:   3500,
			wantExpenses: 1200,
			wantBalance:  2300,
		},
		{
			name: "expenses exceed income",
			transactions: []models.Transaction{
				tx("t1", 100.25, models.Income, "", day(2024, time.March, 2)),
				tx("t2", 80.50, models.Expense, "", day(2024, time.March, 3)),
				tx("t3", 40, models.Expense, "", day(2024, time.March, 4)),
			},
			wantIncome:   100.25,
			wantExpenses: 120.50,
			wantBalance:  -20.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			income := TotalIncome(tt.transactions)
			expenses := TotalExpenses(tt.transactions)
			balance := Balance(tt.transactions)

			if math.Abs(income-tt.wantIncome) > 0.01 {
				t.Errorf("TotalIncome = %v, want %v", income, tt.wantIncome)
			}
			if math.Abs(expenses-tt.wantExpenses) > 0.01 {
				t.Errorf("TotalExpenses = %v, want %v", expenses, tt.wantExpenses)
			}
			if math.Abs(balance-tt.wantBalance) > 0.01 {
				t.Errorf("Balance = %v, want %v", balance, tt.wantBalance)
			}
			if balance != TotalByType(tt.transactions, models.Income)-TotalByType(tt.transactions, models.Expense) {
				t.Errorf("Balance must equal income minus expenses")
			}
		})
	}
}

func TestExpenseBreakdown(t *testing.T) {
	categories := []models.Category{
		{ID: "housing", Name: "Housing", Color: "#FF6D00", Type: models.Expense},
		{ID: "food", Name: "Groceries", Color: "#00BFA5", Type: models.Expense},
		{ID: "salary", Name: "Salary", Color: "#3366FF", Type: models.Income},
	}
	d := day(2024, time.June, 1)
	transactions := []models.Transaction{
		tx("t1", 250, models.Expense, "food", d),
		tx("t2", 3500, models.Income, "salary", d),
		tx("t3", 1200, models.Expense, "housing", d),
		tx("t4", 180, models.Expense, "food", d),
		tx("t5", 70, models.Expense, "deleted-category", d),
	}

	got := ExpenseBreakdown(transactions, categories)

	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(got), got)
	}

	want := []struct {
		name   string
		amount float64
	}{
		{"Housing", 1200},
		{"Groceries", 430},
		{models.UncategorizedName, 70},
	}
	for i, w := range want {
		if got[i].Name != w.name || math.Abs(got[i].Amount-w.amount) > 0.01 {
			t.Errorf("group %d = %s %v, want %s %v", i, got[i].Name, got[i].Amount, w.name, w.amount)
		}
	}

	if got[2].Color != models.UncategorizedColor {
		t.Errorf("uncategorized color = %s, want %s", got[2].Color, models.UncategorizedColor)
	}

	shares := 0.0
	for _, g := range got {
		shares += g.Share
	}
	if math.Abs(shares-100) > 0.01 {
		t.Errorf("shares sum to %v, want 100", shares)
	}
}

func TestExpenseBreakdown_TiesKeepFirstAppearance(t *testing.T) {
	d := day(2024, time.June, 1)
	got := ExpenseBreakdown([]models.Transaction{
		tx("t1", 50, models.Expense, "b", d),
		tx("t2", 50, models.Expense, "a", d),
	}, nil)

	if len(got) != 2 || got[0].CategoryID != "b" || got[1].CategoryID != "a" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestExpenseBreakdown_NoExpenses(t *testing.T) {
	got := ExpenseBreakdown([]models.Transaction{
		tx("t1", 10, models.Income, "x", day(2024, time.June, 1)),
	}, nil)
	if len(got) != 0 {
		t.Errorf("expected no groups, got %+v", got)
	}
}

func TestMonthlySeries(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	transactions := []models.Transaction{
		tx("t1", 3500, models.Income, "", day(2024, time.March, 1)),
		tx("t2", 1200, models.Expense, "", day(2024, time.March, 1)),
		tx("t3", 3500, models.Income, "", day(2024, time.February, 1)),
		tx("t4", 99, models.Expense, "", day(2023, time.October, 31)),
		tx("t5", 5, models.Expense, "", day(2023, time.September, 30)), // outside window
		tx("t6", 7, models.Expense, "", day(2023, time.March, 1)),      // same month, other year
	}

	got := MonthlySeries(transactions, 6, now)

	if len(got) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(got))
	}

	wantLabels := []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}
	for i, label := range wantLabels {
		if got[i].Label != label {
			t.Errorf("entry %d label = %s, want %s", i, got[i].Label, label)
		}
	}
	if got[0].Year != 2023 || got[5].Year != 2024 {
		t.Errorf("unexpected years: first=%d last=%d", got[0].Year, got[5].Year)
	}

	if got[0].Expenses != 99 {
		t.Errorf("Oct expenses = %v, want 99", got[0].Expenses)
	}
	if got[4].Income != 3500 || got[4].Expenses != 0 {
		t.Errorf("Feb = %+v", got[4])
	}
	if got[5].Income != 3500 || got[5].Expenses != 1200 || got[5].Balance != 2300 {
		t.Errorf("Mar = %+v", got[5])
	}
}

func TestMonthlySeries_YearBoundaryAndEmpty(t *testing.T) {
	now := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	got := MonthlySeries(nil, 2, now)
	if len(got) != 2 || got[0].Month != time.December || got[0].Year != 2023 || got[1].Month != time.January {
		t.Errorf("unexpected series: %+v", got)
	}

	if got := MonthlySeries(nil, 0, now); len(got) != 0 {
		t.Errorf("expected empty series for monthCount 0, got %d", len(got))
	}
}
