package calculator

import (
	"time"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

// MonthTotals is the income and expense sum for one calendar month.
type MonthTotals struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`

	// Label is the short English month name ("Jan").
	Label string `json:"label"`

	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// MonthlySeries computes totals for the last monthCount calendar months ending
// with the month containing now (inclusive), ordered oldest to newest.
// A non-positive monthCount yields an empty series.
func MonthlySeries(transactions []models.Transaction, monthCount int, now time.Time) []MonthTotals {
	if monthCount <= 0 {
		return []MonthTotals{}
	}

	current := models.DateOf(now)
	first := models.NewDate(current.Year(), current.Month(), 1)

	series := make([]MonthTotals, monthCount)
	slot := make(map[int]int, monthCount)
	for i := 0; i < monthCount; i++ {
		m := first.AddMonths(i - monthCount + 1)
		series[i] = MonthTotals{
			Year:  m.Year(),
			Month: m.Month(),
			Label: m.Month().String()[:3],
		}
		slot[monthKey(m.Year(), m.Month())] = i
	}

	for _, tx := range transactions {
		i, ok := slot[monthKey(tx.Date.Year(), tx.Date.Month())]
		if !ok {
			continue
		}
		switch tx.Type {
		case models.Income:
			series[i].Income += tx.Amount
		case models.Expense:
			series[i].Expenses += tx.Amount
		}
	}

	for i := range series {
		series[i].Balance = series[i].Income - series[i].Expenses
	}
	return series
}

func monthKey(year int, month time.Month) int {
	return year*12 + int(month) - 1
}
