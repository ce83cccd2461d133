package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shubh-aarambh/fintrack/internal/storage"
	"github.com/shubh-aarambh/fintrack/internal/storage/memory"
)

func seed(t *testing.T, blobs storage.Store, values map[string]string) {
	t.Helper()
	for k, v := range values {
		if err := blobs.Set(context.Background(), k, []byte(v)); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2024, time.March, 7, 23, 0, 0, 0, time.UTC))
	if got != "fintrack_export_2024-03-07.json" {
		t.Errorf("Filename = %s", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := memory.New()
	values := map[string]string{
		storage.KeyUser:         `{"id":"u1","email":"a@example.com","name":"A"}`,
		storage.KeyTransactions: `[{"id":"t1","amount":3500,"type":"income","categoryId":"c1","date":"2024-01-01","description":"","userId":"u1"}]`,
		storage.KeyCategories:   `[{"id":"c1","name":"Salary","color":"#3366FF","icon":"briefcase","type":"income","userId":"u1"}]`,
	}
	seed(t, source, values)

	doc, err := Export(ctx, source)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if doc.Budgets != nil {
		t.Errorf("absent key exported as %q", *doc.Budgets)
	}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	target := memory.New()
	if _, err := Import(ctx, target, data); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	for key, want := range values {
		got, ok, err := target.Get(ctx, key)
		if err != nil || !ok {
			t.Fatalf("Get(%s) = ok %v err %v", key, ok, err)
		}
		if string(got) != want {
			t.Errorf("%s = %s, want %s", key, got, want)
		}
	}
	if _, ok, _ := target.Get(ctx, storage.KeyBudgets); ok {
		t.Error("absent key was created on import")
	}

	again, err := Export(ctx, target)
	if err != nil {
		t.Fatal(err)
	}
	again2, _ := Marshal(again)
	if string(again2) != string(data) {
		t.Errorf("second export differs:\n%s\n%s", again2, data)
	}
}

func TestImportMalformedWritesNothing(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	seed(t, blobs, map[string]string{storage.KeyBudgets: `[]`})

	tests := []string{
		`not json`,
		`["a","b"]`,
		`{"transactions": 42}`,
	}
	for _, input := range tests {
		_, err := Import(ctx, blobs, []byte(input))
		if !errors.Is(err, ErrMalformedDocument) {
			t.Errorf("Import(%s) = %v, want ErrMalformedDocument", input, err)
		}
	}

	if _, ok, _ := blobs.Get(ctx, storage.KeyTransactions); ok {
		t.Error("malformed import wrote a key")
	}
	if got, _, _ := blobs.Get(ctx, storage.KeyBudgets); string(got) != `[]` {
		t.Errorf("existing key changed: %s", got)
	}
}
