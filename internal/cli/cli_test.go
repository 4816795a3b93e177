package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupEnv points every configured path into a temp dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("HOBBYTRACK_DB_PATH", filepath.Join(dir, "test.db"))
	t.Setenv("HOBBYTRACK_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("HOBBYTRACK_LOG_FILE", filepath.Join(dir, "test.log"))
	t.Setenv("HOBBYTRACK_LOG_LEVEL", "debug")
	t.Setenv("HOBBYTRACK_THEME", "")
	return dir
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(args, &out, &errOut)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestLogAndSummary(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "log", "music", "Март", "1", "1", "30")
	if !strings.Contains(out, "total 00:30") {
		t.Fatalf("unexpected log output %q", out)
	}
	mustRun(t, "log", "music", "март", "1", "2", "90")
	mustRun(t, "log", "sport", "4", "5", "7", "60")

	out = mustRun(t, "summary")
	for _, want := range []string{"Музыка", "Март", "02:00", "Спорт", "Апрель", "01:00", "03:00", "67%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestLogReplacesCell(t *testing.T) {
	setupEnv(t)

	mustRun(t, "log", "art", "Май", "2", "2", "50")
	out := mustRun(t, "log", "art", "Май", "2", "2", "20")
	if !strings.Contains(out, "total 00:20") {
		t.Fatalf("cell should be replaced, got %q", out)
	}
}

func TestLogRejectsBadArgs(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown category", []string{"log", "cooking", "Март", "1", "1", "5"}},
		{"unknown month", []string{"log", "music", "Мартт", "1", "1", "5"}},
		{"unset month", []string{"log", "music", "unset", "1", "1", "5"}},
		{"week out of range", []string{"log", "music", "Март", "6", "1", "5"}},
		{"day out of range", []string{"log", "music", "Март", "1", "0", "5"}},
		{"negative minutes", []string{"log", "music", "Март", "1", "1", "-5"}},
		{"not a number", []string{"log", "music", "Март", "1", "1", "abc"}},
		{"more than a day", []string{"log", "music", "Март", "1", "1", "1441"}},
		{"overflowing minutes", []string{"log", "music", "Март", "1", "1", "9223372036854775807"}},
		{"missing args", []string{"log", "music"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCmd(t, tt.args...); err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
		})
	}
}

func TestExportCSV(t *testing.T) {
	dir := setupEnv(t)
	mustRun(t, "log", "reading", "Январь", "3", "4", "25")

	path := filepath.Join(dir, "out.csv")
	out := mustRun(t, "export", "--format", "csv", "--out", path)
	if !strings.Contains(out, "Exported 1 cells") {
		t.Fatalf("unexpected output %q", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][0] != "Чтение" || rows[1][4] != "25" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestExportJSONDefaultPath(t *testing.T) {
	dir := setupEnv(t)
	mustRun(t, "log", "games", "Июнь", "1", "1", "15")

	mustRun(t, "export", "-f", "json")

	matches, _ := filepath.Glob(filepath.Join(dir, "hobbytrack-export-*.json"))
	if len(matches) != 1 {
		t.Fatalf("expected one export file in home, got %v", matches)
	}
	data, _ := os.ReadFile(matches[0])
	var doc struct {
		Count  int `json:"count"`
		Totals []struct {
			Category string `json:"category"`
			Minutes  int    `json:"minutes"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Count != 1 || len(doc.Totals) != 6 {
		t.Fatalf("unexpected export %+v", doc)
	}
	if doc.Totals[4].Category != "games" || doc.Totals[4].Minutes != 15 {
		t.Fatalf("games total = %+v", doc.Totals[4])
	}
}

func TestExportRejectsFormat(t *testing.T) {
	setupEnv(t)
	if _, err := runCmd(t, "export", "--format", "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestBadConfigFailsEarly(t *testing.T) {
	setupEnv(t)
	t.Setenv("HOBBYTRACK_LOG_LEVEL", "loud")
	if _, err := runCmd(t, "summary"); err == nil {
		t.Fatal("expected config error")
	}
}

func TestCommandsWriteLogFile(t *testing.T) {
	dir := setupEnv(t)
	mustRun(t, "log", "other", "Март", "1", "1", "5")

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "cell logged") {
		t.Fatalf("log file missing entry:\n%s", data)
	}
}

func TestLogRejectedMinutesKeepPeriod(t *testing.T) {
	setupEnv(t)

	mustRun(t, "log", "music", "Март", "1", "1", "1440")
	if _, err := runCmd(t, "log", "music", "Май", "1", "2", "5000"); err == nil {
		t.Fatal("expected error for 5000 minutes")
	}
	out := mustRun(t, "summary")
	if !strings.Contains(out, "Март") || !strings.Contains(out, "24:00") {
		t.Fatalf("rejected log must not switch the month:\n%s", out)
	}
}

func TestPurge(t *testing.T) {
	setupEnv(t)

	mustRun(t, "log", "music", "Март", "1", "1", "30")
	mustRun(t, "log", "sport", "Март", "1", "1", "15")

	out := mustRun(t, "purge", "music")
	if !strings.Contains(out, "Purged 1") {
		t.Fatalf("unexpected purge output %q", out)
	}
	out = mustRun(t, "summary")
	if strings.Contains(out, "00:30") || !strings.Contains(out, "00:15") {
		t.Fatalf("only music should be purged:\n%s", out)
	}

	mustRun(t, "purge", "--all")
	out = mustRun(t, "summary")
	if strings.Contains(out, "00:15") {
		t.Fatalf("purge --all should clear sport:\n%s", out)
	}

	for _, args := range [][]string{{"purge"}, {"purge", "music", "--all"}, {"purge", "cooking"}} {
		if _, err := runCmd(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}
