package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/hobbytrack/internal/activity"
)

func sampleData() ([]activity.CellRecord, []activity.CategoryTotal) {
	records := []activity.CellRecord{
		{Category: activity.Music, Period: "Март", Row: 0, Day: 0, Minutes: 30},
		{Category: activity.Music, Period: "Март", Row: 0, Day: 1, Minutes: 90},
		{Category: activity.Sport, Period: "Апрель", Row: 4, Day: 6, Minutes: 45},
	}
	totals := []activity.CategoryTotal{
		{Category: activity.Music, Period: "Март", Minutes: 120},
		{Category: activity.Sport, Period: activity.PeriodUnset, Minutes: 0},
	}
	return records, totals
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return rows
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	records, _ := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(records, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	rows := readCSV(t, path)
	// header + 3 data rows
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(rows))
	}

	expectedHeader := []string{"Category", "Period", "Week", "Day", "Minutes", "Duration"}
	for i, h := range expectedHeader {
		if rows[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}

	row := rows[2]
	want := []string{"Музыка", "Март", "1", "2", "90", "01:30"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}

	last := rows[3]
	if last[0] != "Спорт" || last[2] != "5" || last[3] != "7" {
		t.Fatalf("unexpected last row %v", last)
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if rows := readCSV(t, path); len(rows) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(rows))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestDefaultPath(t *testing.T) {
	now := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	got := DefaultPath("/home/u", "csv", now)
	if got != filepath.Join("/home/u", "hobbytrack-export-2025-03-07.csv") {
		t.Fatalf("DefaultPath = %q", got)
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	records, totals := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(records, totals, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Cells) != 3 {
		t.Fatalf("count = %d, cells = %d, want 3", result.Count, len(result.Cells))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	c := result.Cells[1]
	if c.Category != "music" || c.Period != "Март" || c.Week != 1 || c.Day != 2 {
		t.Fatalf("unexpected cell %+v", c)
	}
	if c.Minutes != 90 || c.Duration != "01:30" {
		t.Fatalf("minutes = %d, duration = %q", c.Minutes, c.Duration)
	}

	if len(result.Totals) != 2 {
		t.Fatalf("totals = %d, want 2", len(result.Totals))
	}
	if tot := result.Totals[0]; tot.Title != "Музыка" || tot.Minutes != 120 || tot.Duration != "02:00" {
		t.Fatalf("unexpected total %+v", tot)
	}
	if result.Totals[1].Period != "не задан" {
		t.Fatalf("unset period = %q", result.Totals[1].Period)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"cells": []`) {
		t.Fatalf("empty export should carry an empty cells array:\n%s", data)
	}
	var result jsonExport
	json.Unmarshal(data, &result)
	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be pretty-printed with indentation")
	}
}

// ============================================================
// formatMinutes (internal helper)
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "00:00"},
		{1, "00:01"},
		{60, "01:00"},
		{90, "01:30"},
		{1440, "24:00"},
		{6001, "100:01"},
	}

	for _, tt := range tests {
		got := formatMinutes(tt.mins)
		if got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}
