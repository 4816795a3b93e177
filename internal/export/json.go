package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/hobbytrack/internal/activity"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Totals     []jsonTotal `json:"totals"`
	Cells      []jsonCell  `json:"cells"`
}

type jsonTotal struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Period   string `json:"period"`
	Minutes  int    `json:"minutes"`
	Duration string `json:"duration"`
}

type jsonCell struct {
	Category string `json:"category"`
	Period   string `json:"period"`
	Week     int    `json:"week"`
	Day      int    `json:"day"`
	Minutes  int    `json:"minutes"`
	Duration string `json:"duration"`
}

// ToJSON writes the current per-category totals and every logged cell.
func ToJSON(records []activity.CellRecord, totals []activity.CategoryTotal, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
		Totals:     make([]jsonTotal, 0, len(totals)),
		Cells:      make([]jsonCell, 0, len(records)),
	}

	for _, t := range totals {
		export.Totals = append(export.Totals, jsonTotal{
			Category: t.Category.Key(),
			Title:    t.Category.Title(),
			Period:   t.Period.String(),
			Minutes:  t.Minutes,
			Duration: formatMinutes(t.Minutes),
		})
	}
	for _, r := range records {
		export.Cells = append(export.Cells, jsonCell{
			Category: r.Category.Key(),
			Period:   r.Period.String(),
			Week:     r.Row + 1,
			Day:      r.Day + 1,
			Minutes:  r.Minutes,
			Duration: formatMinutes(r.Minutes),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
