package records

import (
	"context"
	"math"
	"testing"

	"github.com/shubh-aarambh/fintrack/internal/calculator"
	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/storage/memory"
)

func TestEnsureDefaults(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	s := openTestStore(t, blobs, "alice")

	res, err := s.EnsureDefaults(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}
	if res != (SeedResult{Categories: 9, Budgets: 3, Transactions: 7}) {
		t.Errorf("unexpected seed result: %+v", res)
	}

	housing, ok := s.categoryByName("Housing")
	if !ok {
		t.Fatal("Housing category missing")
	}
	if b, ok := s.BudgetForCategory(housing.ID); !ok || b.Amount != 1500 || b.Period != models.Monthly {
		t.Errorf("Housing budget = %+v, %v", b, ok)
	}

	for _, tx := range s.Transactions() {
		c, ok := s.CategoryByID(tx.CategoryID)
		if !ok {
			t.Errorf("demo transaction %q references missing category", tx.Description)
			continue
		}
		if c.Type != tx.Type {
			t.Errorf("demo transaction %q has type %s in %s category", tx.Description, tx.Type, c.Type)
		}
	}

	// 3500*2 income, 1200*2 + 250 + 180 + 85 expenses.
	if got := calculator.Balance(s.Transactions()); math.Abs(got-4085) > 0.01 {
		t.Errorf("seeded balance = %v, want 4085", got)
	}

	again, err := s.EnsureDefaults(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again != (SeedResult{}) {
		t.Errorf("second EnsureDefaults seeded again: %+v", again)
	}

	reopened := openTestStore(t, blobs, "alice")
	if len(reopened.Categories()) != 9 || len(reopened.Budgets()) != 3 || len(reopened.Transactions()) != 7 {
		t.Errorf("seed not persisted: %d categories, %d budgets, %d transactions",
			len(reopened.Categories()), len(reopened.Budgets()), len(reopened.Transactions()))
	}
}

func TestEnsureDefaults_SkipsTransactionsWithoutCategories(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, memory.New(), "alice")

	if _, err := s.AddCategory(ctx, models.NewCategory{Name: "Salary", Type: models.Income}); err != nil {
		t.Fatal(err)
	}

	res, err := s.EnsureDefaults(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}
	if res != (SeedResult{}) {
		t.Errorf("expected nothing seeded, got %+v", res)
	}
	if len(s.Transactions()) != 0 || len(s.Categories()) != 1 {
		t.Errorf("unexpected records: %d transactions, %d categories", len(s.Transactions()), len(s.Categories()))
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	session := NewSession(blobs, true, WithIDGenerator(sequentialIDs("s")))

	if session.State() != NoUser {
		t.Fatalf("initial state = %s", session.State())
	}
	if _, err := session.Store(); err != ErrNoActiveUser {
		t.Errorf("Store() before Open = %v, want ErrNoActiveUser", err)
	}

	store, err := session.Open(ctx, "alice")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if session.State() != Ready {
		t.Errorf("state after Open = %s, want ready", session.State())
	}
	if len(store.Categories()) != 9 {
		t.Errorf("expected seeded categories, got %d", len(store.Categories()))
	}

	bob, err := session.Open(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if bob.UserID() != "bob" {
		t.Errorf("active user = %s", bob.UserID())
	}
	for _, c := range bob.Categories() {
		if c.UserID != "bob" {
			t.Errorf("bob sees category owned by %s", c.UserID)
		}
	}

	session.Close()
	if session.State() != NoUser {
		t.Errorf("state after Close = %s", session.State())
	}
	if _, err := session.Store(); err != ErrNoActiveUser {
		t.Errorf("Store() after Close = %v", err)
	}

	if _, err := session.Open(ctx, ""); err != ErrNoActiveUser {
		t.Errorf("Open(\"\") = %v", err)
	}
	if session.State() != NoUser {
		t.Errorf("state after failed Open = %s", session.State())
	}
}
