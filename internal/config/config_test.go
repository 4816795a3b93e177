package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetenv(t, "XDG_CONFIG_HOME")
	for _, k := range []string{"DB_PATH", "DATA_DIR", "LOG_FILE", "LOG_LEVEL", "THEME"} {
		unsetenv(t, Prefix+"_"+k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != filepath.Join(home, ".config", "hobbytrack", "hobbytrack.db") {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	wantData := filepath.Join(home, ".local", "share", "hobbytrack")
	if cfg.DataDir != wantData {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantData)
	}
	if cfg.LogFile != filepath.Join(wantData, "hobbytrack.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.Theme != "" {
		t.Fatalf("Theme = %q, want empty", cfg.Theme)
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOBBYTRACK_DB_PATH", filepath.Join(dir, "db.sqlite"))
	t.Setenv("HOBBYTRACK_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("HOBBYTRACK_LOG_FILE", "")
	t.Setenv("HOBBYTRACK_LOG_LEVEL", "debug")
	t.Setenv("HOBBYTRACK_THEME", " Light ")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != filepath.Join(dir, "db.sqlite") {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LogFile != filepath.Join(dir, "data", "hobbytrack.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.Theme != "light" {
		t.Fatalf("Theme = %q", cfg.Theme)
	}
	lvl, err := cfg.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Fatalf("SlogLevel = %v, %v", lvl, err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	t.Run("log level", func(t *testing.T) {
		t.Setenv("HOBBYTRACK_LOG_LEVEL", "chatty")
		t.Setenv("HOBBYTRACK_THEME", "")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown log level")
		}
	})
	t.Run("theme", func(t *testing.T) {
		t.Setenv("HOBBYTRACK_LOG_LEVEL", "info")
		t.Setenv("HOBBYTRACK_THEME", "neon")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown theme")
		}
	})
}
