package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shubh-aarambh/fintrack/internal/storage"
	"github.com/shubh-aarambh/fintrack/internal/storage/memory"
)

type row struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Amount int    `json:"amount"`
}

func TestLoadSlice(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key yields empty slice", func(t *testing.T) {
		got, err := storage.LoadSlice[row](ctx, memory.New(), storage.KeyTransactions, nil)
		if err != nil {
			t.Fatalf("LoadSlice failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("got %v, want empty non-nil slice", got)
		}
	})

	t.Run("corrupt blob fails open and reports", func(t *testing.T) {
		s := memory.New()
		s.Set(ctx, storage.KeyCategories, []byte(`{not json`))

		var reported string
		got, err := storage.LoadSlice[row](ctx, s, storage.KeyCategories, func(key string, _ error) {
			reported = key
		})
		if err != nil {
			t.Fatalf("LoadSlice should not fail on corrupt data: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
		if reported != storage.KeyCategories {
			t.Errorf("decode failure reported for %q, want %q", reported, storage.KeyCategories)
		}
	})

	t.Run("round trip through SaveSlice", func(t *testing.T) {
		s := memory.New()
		if err := storage.SaveSlice(ctx, s, storage.KeyBudgets, []row{{ID: "a"}, {ID: "b"}}); err != nil {
			t.Fatalf("SaveSlice failed: %v", err)
		}
		got, err := storage.LoadSlice[row](ctx, s, storage.KeyBudgets, nil)
		if err != nil {
			t.Fatalf("LoadSlice failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("null blob yields empty slice", func(t *testing.T) {
		s := memory.New()
		s.Set(ctx, storage.KeyBudgets, []byte(`null`))
		got, _ := storage.LoadSlice[row](ctx, s, storage.KeyBudgets, nil)
		if got == nil {
			t.Error("expected non-nil slice")
		}
	})

	t.Run("unreadable element is skipped", func(t *testing.T) {
		s := memory.New()
		s.Set(ctx, storage.KeyBudgets, []byte(`[{"id":"a"},{"id":"b","amount":"lots"},{"id":"c"}]`))

		failures := 0
		got, err := storage.LoadSlice[row](ctx, s, storage.KeyBudgets, func(string, error) { failures++ })
		if err != nil {
			t.Fatalf("LoadSlice failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
			t.Errorf("got %v, want a and c", got)
		}
		if failures != 1 {
			t.Errorf("reported %d failures, want 1", failures)
		}
	})
}

func TestUpdateSlice(t *testing.T) {
	ctx := context.Background()

	t.Run("other records are written back as stored", func(t *testing.T) {
		s := memory.New()
		s.Set(ctx, storage.KeyTransactions, []byte(`[{"id":"b1","userId":"bob","amount":"odd"},{"id":"a1","userId":"alice","amount":1}]`))

		got, err := storage.UpdateSlice(ctx, s, storage.KeyTransactions, storage.OwnedBy("alice"), func(mine []row) ([]row, error) {
			if len(mine) != 1 || mine[0].ID != "a1" {
				t.Errorf("mutate got %v, want a1", mine)
			}
			return append(mine, row{ID: "a2", UserID: "alice", Amount: 2}), nil
		})
		if err != nil {
			t.Fatalf("UpdateSlice failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("UpdateSlice returned %v", got)
		}

		data, _, _ := s.Get(ctx, storage.KeyTransactions)
		want := `[{"id":"b1","userId":"bob","amount":"odd"},{"id":"a1","userId":"alice","amount":1},{"id":"a2","userId":"alice","amount":2}]`
		if string(data) != want {
			t.Errorf("stored %s\nwant   %s", data, want)
		}
	})

	t.Run("malformed blob is never overwritten", func(t *testing.T) {
		s := memory.New()
		s.Set(ctx, storage.KeyCategories, []byte(`{not json`))

		_, err := storage.UpdateSlice(ctx, s, storage.KeyCategories, storage.OwnedBy("alice"), func([]row) ([]row, error) {
			return []row{{ID: "a1", UserID: "alice"}}, nil
		})
		if !errors.Is(err, storage.ErrMalformedCollection) {
			t.Fatalf("err = %v, want ErrMalformedCollection", err)
		}
		if data, _, _ := s.Get(ctx, storage.KeyCategories); string(data) != `{not json` {
			t.Errorf("blob overwritten: %s", data)
		}
	})

	t.Run("mutate error writes nothing", func(t *testing.T) {
		s := memory.New()
		boom := errors.New("boom")
		_, err := storage.UpdateSlice(ctx, s, storage.KeyUsers, storage.HasID("u1"), func([]row) ([]row, error) {
			return nil, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}
		if _, ok, _ := s.Get(ctx, storage.KeyUsers); ok {
			t.Error("blob written after mutate failed")
		}
	})
}
