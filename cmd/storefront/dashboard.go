package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/allegrolike/storefront/internal/guard"
)

func (a *app) dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Admin analytics",
	}

	var periodType string
	sales := &cobra.Command{
		Use:   "sales",
		Short: "Sales figures per period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.AdminOnly, "/admin/dashboard"); err != nil {
				return err
			}
			r := a.client.GetSalesData(a.ctx(), periodType)
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PERIOD\tORDERS\tREVENUE")
			for _, p := range r.Content {
				fmt.Fprintf(w, "%s\t%d\t%s\n", p.Period.Format("2006-01-02"), p.OrderCount, p.Revenue.StringFixed(2))
			}
			w.Flush()
			return nil
		},
	}
	sales.Flags().StringVar(&periodType, "period", "monthly", "aggregation period (daily, weekly, monthly)")

	trends := &cobra.Command{
		Use:   "trends",
		Short: "Per-category demand trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(guard.AdminOnly, "/admin/dashboard"); err != nil {
				return err
			}
			r := a.client.GetCategoryTrends(a.ctx())
			if !r.OK {
				return errors.New(r.ErrMessage)
			}
			for _, t := range r.Content {
				fmt.Printf("%s: %d points\n", t.Category, len(t.Values))
			}
			return nil
		},
	}

	cmd.AddCommand(sales, trends)
	return cmd
}
