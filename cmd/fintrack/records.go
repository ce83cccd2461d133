package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shubh-aarambh/fintrack/internal/calculator"
	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/records"
)

func newAddCmd(a *app) *cobra.Command {
	var category, date, description, recurring string

	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.recordStore(ctx, false)
			if err != nil {
				return err
			}

			typ := models.TransactionType(strings.ToLower(args[0]))
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			fields := models.NewTransaction{
				Amount:      amount,
				Type:        typ,
				Description: description,
				Date:        models.DateOf(a.now()),
			}
			if date != "" {
				if fields.Date, err = models.ParseDate(date); err != nil {
					return err
				}
			}
			if category != "" {
				c, err := findCategory(store, category)
				if err != nil {
					return err
				}
				fields.CategoryID = c.ID
			}
			if recurring != "" {
				interval := models.RecurringInterval(strings.ToLower(recurring))
				if !interval.Valid() {
					return fmt.Errorf("%w: %q", models.ErrInvalidInterval, recurring)
				}
				fields.Recurrence = models.Recurring(interval)
			}

			tx, err := store.AddTransaction(ctx, fields)
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), tx)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", tx.Type, money(tx.Amount), tx.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category name or ID")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "Description")
	cmd.Flags().StringVar(&recurring, "recurring", "", "Repeat interval: daily, weekly, monthly or yearly")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var search, typ string
	var limit int
	var byDay bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.recordStore(cmd.Context(), false)
			if err != nil {
				return err
			}

			filter := calculator.TransactionFilter{
				Search: search,
				Type:   models.TransactionType(strings.ToLower(typ)),
			}
			if filter.Type != "" && !filter.Type.Valid() {
				return fmt.Errorf("%w: %q", models.ErrInvalidType, typ)
			}
			txs := calculator.Filter(store.Transactions(), filter)
			if limit > 0 {
				txs = calculator.Recent(txs, limit)
			}

			if byDay {
				groups := calculator.GroupByDate(txs)
				if a.asJSON {
					return writeJSON(cmd.OutOrStdout(), groups)
				}
				categories := indexCategories(store.Categories())
				tw := newTable(cmd.OutOrStdout(), "DATE", "DESCRIPTION", "CATEGORY", "AMOUNT")
				for _, g := range groups {
					fmt.Fprintf(tw, "%s\t\t\t+%s / -%s\n", g.Date, money(g.Income), money(g.Expenses))
					for _, tx := range g.Transactions {
						fmt.Fprintf(tw, "\t%s\t%s\t%s\n", tx.Description, categoryName(categories, tx.CategoryID), signed(tx))
					}
				}
				return tw.Flush()
			}

			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), txs)
			}
			categories := indexCategories(store.Categories())
			tw := newTable(cmd.OutOrStdout(), "ID", "DATE", "DESCRIPTION", "CATEGORY", "AMOUNT", "REPEATS")
			for _, tx := range txs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					tx.ID, tx.Date, tx.Description, categoryName(categories, tx.CategoryID), signed(tx), tx.Recurrence)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match descriptions containing this text")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "Only income or expense")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many")
	cmd.Flags().BoolVar(&byDay, "by-day", false, "Group by date with daily totals")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.recordStore(ctx, false)
			if err != nil {
				return err
			}
			found, err := store.DeleteTransaction(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("transaction %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.recordStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			categories := store.Categories()
			if typ != "" {
				categories = store.CategoriesByType(models.TransactionType(strings.ToLower(typ)))
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "TYPE", "COLOR", "TRANSACTIONS")
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Type, c.Color, len(store.TransactionsForCategory(c.ID)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "Only income or expense categories")

	add := &cobra.Command{
		Use:   "add <name> <income|expense>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.recordStore(ctx, false)
			if err != nil {
				return err
			}
			color, _ := cmd.Flags().GetString("color")
			icon, _ := cmd.Flags().GetString("icon")
			c, err := store.AddCategory(ctx, models.NewCategory{
				Name:  args[0],
				Type:  models.TransactionType(strings.ToLower(args[1])),
				Color: color,
				Icon:  icon,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}
	add.Flags().String("color", "#64748B", "Display color")
	add.Flags().String("icon", "tag", "Icon name")

	remove := &cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete an unused category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.recordStore(ctx, false)
			if err != nil {
				return err
			}
			c, err := findCategory(store, args[0])
			if err != nil {
				return err
			}
			if _, err := store.DeleteCategory(ctx, c.ID); err != nil {
				var inUse *records.CategoryInUseError
				if errors.As(err, &inUse) {
					return fmt.Errorf("category %s is used by %d transactions; delete or move them first", c.Name, inUse.Count)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", c.Name)
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newBudgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show spending against budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.recordStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			snap := store.Snapshot()
			report := calculator.BudgetReport(snap.Budgets, snap.Categories, snap.Transactions, models.DateOf(a.now()))
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "CATEGORY", "PERIOD", "SPENT", "LIMIT", "USED", "STATUS")
			for _, p := range report {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
					p.BudgetID, p.CategoryName, p.Period, money(p.Spent), money(p.Amount), p.PercentUsed, budgetStatus(p))
			}
			return tw.Flush()
		},
	}

	var period string
	set := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Create or change the budget of an expense category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.recordStore(ctx, false)
			if err != nil {
				return err
			}
			c, err := findCategory(store, args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			p := models.BudgetPeriod(strings.ToLower(period))

			if existing, ok := store.BudgetForCategory(c.ID); ok {
				if _, err := store.UpdateBudget(ctx, existing.ID, models.BudgetPatch{Amount: &amount, Period: &p}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s budget to %s %s\n", c.Name, money(amount), p)
				return nil
			}

			if _, err := store.AddBudget(ctx, models.NewBudget{CategoryID: c.ID, Amount: amount, Period: p}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s budget to %s %s\n", c.Name, money(amount), p)
			return nil
		},
	}
	set.Flags().StringVarP(&period, "period", "p", string(models.Monthly), "weekly, monthly or yearly")

	remove := &cobra.Command{
		Use:   "delete <category>",
		Short: "Remove the budget of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.recordStore(ctx, false)
			if err != nil {
				return err
			}
			c, err := findCategory(store, args[0])
			if err != nil {
				return err
			}
			b, ok := store.BudgetForCategory(c.ID)
			if !ok {
				return fmt.Errorf("category %s has no budget", c.Name)
			}
			if _, err := store.DeleteBudget(ctx, b.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s budget\n", c.Name)
			return nil
		},
	}

	cmd.AddCommand(set, remove)
	return cmd
}

func budgetStatus(p calculator.Progress) string {
	switch {
	case p.IsOverBudget:
		return "over"
	case p.IsNearLimit:
		return "near limit"
	default:
		return "ok"
	}
}

func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidAmount, s)
	}
	return amount, nil
}

// findCategory matches an ID first, then a case-insensitive name.
func findCategory(store *records.Store, ref string) (models.Category, error) {
	if c, ok := store.CategoryByID(ref); ok {
		return c, nil
	}
	for _, c := range store.Categories() {
		if strings.EqualFold(c.Name, strings.TrimSpace(ref)) {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("category %q not found", ref)
}
