package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/sadopc/hobbytrack/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(app **appContext) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export logged activity to CSV or JSON",
		Long: `Export every logged cell of every category and month.

Examples:
  hobbytrack export --format csv
  hobbytrack export --format json --out activity.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			if format != "csv" && format != "json" {
				return fmt.Errorf("unsupported format: %s (use csv or json)", format)
			}
			if out == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("get home dir: %w", err)
				}
				out = export.DefaultPath(home, format, time.Now())
			}

			records, err := a.book.Records()
			if err != nil {
				return err
			}
			switch format {
			case "csv":
				err = export.ToCSV(records, out)
			case "json":
				totals, serr := a.book.Summary()
				if serr != nil {
					return serr
				}
				err = export.ToJSON(records, totals, out)
			}
			if err != nil {
				a.logger.Error("export failed", "format", format, "path", out, "error", err)
				return err
			}

			a.logger.Info("exported", "format", format, "path", out, "cells", len(records))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cells to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv, json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: ~/hobbytrack-export-<date>.<format>)")
	return cmd
}
