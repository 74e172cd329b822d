package cli

import (
	"fmt"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/spf13/cobra"
)

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "dashboard",
		Short:       "List saved estimates with totals",
		Annotations: page("/dashboard"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			estimates := domain.PlaceholderEstimates()
			sum := domain.Summarize(estimates)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Welcome back, %s\n", a.session.DisplayName())

			rows := make([][]string, 0, len(estimates))
			for _, e := range estimates {
				rows = append(rows, []string{
					e.Name,
					fmt.Sprintf("%.0f", e.Area),
					e.Location,
					fmt.Sprintf("%.0f", e.EstimatedHarvest),
					fmt.Sprintf("%.0f", e.PotentialSavings),
					e.CreatedAt.Format("2006-01-02"),
					string(e.Status),
				})
			}
			writeTable(out,
				[]string{"Name", "Area (m²)", "Location", "Harvest (m³/yr)", "Savings (₹/yr)", "Created", "Status"},
				rows)

			fmt.Fprintf(out, "Estimates: %d (%d completed)\n", sum.Count, sum.Completed)
			fmt.Fprintf(out, "Total harvest: %.0f m³/year\n", sum.TotalHarvest)
			fmt.Fprintf(out, "Total savings: ₹%.0f/year\n", sum.TotalSavings)
			return nil
		},
	}
}
