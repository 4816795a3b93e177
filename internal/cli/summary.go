package cli

import (
	"fmt"

	"github.com/sadopc/hobbytrack/internal/activity"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app **appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show per-category totals for the selected periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			totals, err := (*app).book.Summary()
			if err != nil {
				return err
			}
			shares := activity.Shares(totals)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%-10s %-10s %8s %6s\n", "Category", "Period", "Time", "Share")
			for i, t := range totals {
				fmt.Fprintf(out, "%-10s %-10s %8s %5.0f%%\n",
					t.Category.Title(), t.Period, formatMinutes(t.Minutes), shares[i]*100)
			}
			fmt.Fprintf(out, "%-10s %-10s %8s\n", "Total", "", formatMinutes(activity.GrandTotal(totals)))
			return nil
		},
	}
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
