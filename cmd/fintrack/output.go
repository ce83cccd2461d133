package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shubh-aarambh/fintrack/internal/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

// money formats amounts the way the dashboard shows them.
func money(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// signed prefixes income with + and expenses with -.
func signed(tx models.Transaction) string {
	if tx.Type == models.Income {
		return "+" + money(tx.Amount)
	}
	return "-" + money(tx.Amount)
}

func categoryName(categories map[string]models.Category, id string) string {
	if c, ok := categories[id]; ok {
		return c.Name
	}
	return models.UncategorizedName
}

func indexCategories(categories []models.Category) map[string]models.Category {
	index := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index
}
