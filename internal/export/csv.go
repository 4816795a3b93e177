package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sadopc/hobbytrack/internal/activity"
)

// ToCSV writes one row per logged cell. Week and Day are 1-based.
func ToCSV(records []activity.CellRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Category", "Period", "Week", "Day", "Minutes", "Duration"}); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Category.Title(),
			r.Period.String(),
			strconv.Itoa(r.Row + 1),
			strconv.Itoa(r.Day + 1),
			strconv.Itoa(r.Minutes),
			formatMinutes(r.Minutes),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// DefaultPath is the dated file name used when no output path is given,
// e.g. ~/hobbytrack-export-2025-03-01.csv.
func DefaultPath(dir, format string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("hobbytrack-export-%s.%s", now.Format("2006-01-02"), format))
}
