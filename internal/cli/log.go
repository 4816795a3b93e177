package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sadopc/hobbytrack/internal/activity"
	"github.com/spf13/cobra"
)

var errPeriodRequired = errors.New("a month is required to log minutes")

func newLogCmd(app **appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log <category> <month> <week> <day> <minutes>",
		Short: "Set the minutes of one calendar cell",
		Long: `Select <month> for <category> and set the minutes of one cell.
Week is 1-5 and day is 1-7. Minutes are 0-1440; zero clears the cell.

Examples:
  hobbytrack log music Март 1 3 45
  hobbytrack log sport 4 2 1 90`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			c, err := activity.ParseCategory(args[0])
			if err != nil {
				return err
			}
			p, err := activity.ParsePeriod(args[1])
			if err != nil {
				return err
			}
			if !p.IsSet() {
				return errPeriodRequired
			}
			week, err := parseIndex("week", args[2], activity.Rows)
			if err != nil {
				return err
			}
			day, err := parseIndex("day", args[3], activity.Days)
			if err != nil {
				return err
			}
			minutes, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("minutes: %w", err)
			}
			if minutes < 0 || minutes > activity.MaxCellMinutes {
				return fmt.Errorf("minutes must be between 0 and %d, got %d", activity.MaxCellMinutes, minutes)
			}

			l, err := a.book.Log(c)
			if err != nil {
				return err
			}
			if err := l.SetPeriod(p); err != nil {
				return err
			}
			if err := l.SetCell(week, day, minutes); err != nil {
				return err
			}

			a.logger.Info("cell logged", "category", c.Key(), "period", p, "week", week, "day", day, "minutes", minutes)
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %s: week %d day %d = %d min (total %s)\n",
				c.Title(), p, week+1, day+1, minutes, formatMinutes(l.Total()))
			return nil
		},
	}
}

// parseIndex converts a 1-based argument to a 0-based index below n.
func parseIndex(name, s string, n int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > n {
		return 0, fmt.Errorf("%s must be between 1 and %d, got %q", name, n, s)
	}
	return v - 1, nil
}
