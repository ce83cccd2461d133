package records

import (
	"context"
	"fmt"
	"time"

	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/storage"
)

// DefaultCategories are seeded for a user with no categories.
var DefaultCategories = []models.NewCategory{
	{Name: "Salary", Color: "#3366FF", Icon: "briefcase", Type: models.Income},
	{Name: "Investments", Color: "#00C853", Icon: "trending-up", Type: models.Income},
	{Name: "Gifts", Color: "#7C4DFF", Icon: "gift", Type: models.Income},
	{Name: "Housing", Color: "#FF6D00", Icon: "home", Type: models.Expense},
	{Name: "Transportation", Color: "#2962FF", Icon: "car", Type: models.Expense},
	{Name: "Groceries", Color: "#00BFA5", Icon: "shopping-cart", Type: models.Expense},
	{Name: "Utilities", Color: "#FFD600", Icon: "zap", Type: models.Expense},
	{Name: "Entertainment", Color: "#D500F9", Icon: "film", Type: models.Expense},
	{Name: "Health", Color: "#F50057", Icon: "heart", Type: models.Expense},
}

// defaultBudgets are monthly ceilings by category name, seeded with the categories.
var defaultBudgets = []struct {
	category string
	amount   float64
}{
	{"Housing", 1500},
	{"Groceries", 400},
	{"Entertainment", 200},
}

// SeedResult reports what EnsureDefaults created.
type SeedResult struct {
	Categories   int
	Budgets      int
	Transactions int
}

// EnsureDefaults seeds a new user's records in order: default categories and
// budgets when the user has no categories, then demo transactions when the
// user has no transactions. Demo transactions are skipped when the categories
// they reference are absent.
func (s *Store) EnsureDefaults(ctx context.Context) (SeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockForWrite(ctx)
	if err != nil {
		return SeedResult{}, err
	}
	defer unlock()

	var res SeedResult
	now := s.now()
	today := models.DateOf(now)

	if len(s.categories) == 0 {
		categories := make([]models.Category, 0, len(DefaultCategories))
		for _, f := range DefaultCategories {
			categories = append(categories, models.Category{
				ID:     s.newID(),
				Name:   f.Name,
				Color:  f.Color,
				Icon:   f.Icon,
				Type:   f.Type,
				UserID: s.userID,
			})
		}
		if err := s.saveCategories(ctx, categories); err != nil {
			return res, fmt.Errorf("failed to seed categories: %w", err)
		}
		res.Categories = len(categories)

		budgets := clone(s.budgets)
		for _, d := range defaultBudgets {
			c, ok := s.categoryByName(d.category)
			if !ok || indexOf(budgets, func(b models.Budget) bool { return b.CategoryID == c.ID }) >= 0 {
				continue
			}
			budgets = append(budgets, models.Budget{
				ID:         s.newID(),
				CategoryID: c.ID,
				Amount:     d.amount,
				Period:     models.Monthly,
				StartDate:  today,
				UserID:     s.userID,
			})
			res.Budgets++
		}
		if res.Budgets > 0 {
			if err := s.saveBudgets(ctx, budgets); err != nil {
				return res, fmt.Errorf("failed to seed budgets: %w", err)
			}
		}
	}

	if len(s.transactions) == 0 {
		demo, ok := s.demoTransactions(now)
		if !ok {
			s.logger.DebugContext(ctx, "Skipping demo transactions, required categories missing")
		} else {
			if err := persist(ctx, s, storage.KeyTransactions, demo); err != nil {
				return res, fmt.Errorf("failed to seed transactions: %w", err)
			}
			s.transactions = demo
			res.Transactions = len(demo)
		}
	}

	if res != (SeedResult{}) {
		s.metrics.RecordMutation("seed", "add")
		s.logger.InfoContext(ctx, "Seeded default records",
			"categories", res.Categories,
			"budgets", res.Budgets,
			"transactions", res.Transactions,
		)
	}
	return res, nil
}

// demoTransactions builds the sample history for today and one month earlier.
// Callers hold s.mu.
func (s *Store) demoTransactions(now time.Time) ([]models.Transaction, bool) {
	salaryIdx := indexOf(s.categories, func(c models.Category) bool { return c.Type == models.Income })
	rent, okRent := s.firstNamed("Housing", "Rent")
	groceries, okGroceries := s.firstNamed("Groceries", "Food")
	fun, okFun := s.firstNamed("Entertainment")
	if salaryIdx < 0 || !okRent || !okGroceries || !okFun {
		return nil, false
	}
	salary := s.categories[salaryIdx]

	lastMonth := now.AddDate(0, -1, 0)
	monthly := models.Recurring(models.EveryMonth)

	demo := []struct {
		amount     float64
		typ        models.TransactionType
		category   string
		when       time.Time
		desc       string
		recurrence models.Recurrence
	}{
		{3500, models.Income, salary.ID, now, "Monthly Salary", monthly},
		{3500, models.Income, salary.ID, lastMonth, "Monthly Salary", monthly},
		{1200, models.Expense, rent.ID, now, "Monthly Rent", monthly},
		{1200, models.Expense, rent.ID, lastMonth, "Monthly Rent", monthly},
		{250, models.Expense, groceries.ID, now, "Weekly Groceries", models.NoRecurrence},
		{180, models.Expense, groceries.ID, lastMonth, "Weekly Groceries", models.NoRecurrence},
		{85, models.Expense, fun.ID, now, "Movie Night", models.NoRecurrence},
	}

	out := make([]models.Transaction, 0, len(demo))
	for _, d := range demo {
		out = append(out, models.Transaction{
			ID:          s.newID(),
			Amount:      d.amount,
			Type:        d.typ,
			CategoryID:  d.category,
			Date:        models.DateOf(d.when),
			Description: d.desc,
			Recurrence:  d.recurrence,
			UserID:      s.userID,
			CreatedAt:   d.when.UTC(),
		})
	}
	return out, true
}

// firstNamed returns the first category matching any of names, tried in order.
func (s *Store) firstNamed(names ...string) (models.Category, bool) {
	for _, n := range names {
		if c, ok := s.categoryByName(n); ok {
			return c, true
		}
	}
	return models.Category{}, false
}
