package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shubh-aarambh/fintrack/internal/backup"
	"github.com/shubh-aarambh/fintrack/internal/calculator"
)

func newDashboardCmd(a *app) *cobra.Command {
	var months, recent int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show balance, spending breakdown, trend and budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.recordStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			summary := calculator.Dashboard(store.Snapshot(), a.now(), calculator.DashboardOptions{
				TrendMonths: months,
				RecentCount: recent,
			})
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Balance   %s\nIncome    %s\nExpenses  %s\n\n",
				money(summary.Balance), money(summary.Income), money(summary.Expenses))

			tw := newTable(w, "CATEGORY", "SPENT", "SHARE")
			for _, c := range summary.Breakdown {
				fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", c.Name, money(c.Amount), c.Share)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(w)

			tw = newTable(w, "MONTH", "INCOME", "EXPENSES", "BALANCE")
			for _, m := range summary.Trend {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Label, money(m.Income), money(m.Expenses), money(m.Balance))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(summary.Budgets) > 0 {
				fmt.Fprintln(w)
				tw = newTable(w, "BUDGET", "SPENT", "LIMIT", "USED", "STATUS")
				for _, p := range summary.Budgets {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\t%s\n",
						p.CategoryName, money(p.Spent), money(p.Amount), p.PercentUsed, budgetStatus(p))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&months, "months", a.cfg.TrendMonths, "Months in the income and expense trend")
	cmd.Flags().IntVar(&recent, "recent", calculator.DefaultRecentCount, "Recent transactions to include in JSON output")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every stored record to a JSON backup",
		Long:  "Write every stored record to a JSON backup. The file defaults to fintrack_export_<date>.json; use - for stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := backup.Export(cmd.Context(), a.blobs)
			if err != nil {
				return err
			}
			data, err := backup.Marshal(doc)
			if err != nil {
				return err
			}

			path := backup.Filename(a.now())
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore records from a JSON backup, replacing what is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := backup.Import(cmd.Context(), a.blobs, data)
			if err != nil {
				return err
			}

			restored := 0
			for _, field := range []*string{doc.User, doc.Transactions, doc.Categories, doc.Budgets} {
				if field != nil && *field != "" {
					restored++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d collections from %s\n", restored, args[0])
			return nil
		},
	}
}
