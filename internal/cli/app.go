package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sadopc/hobbytrack/internal/account"
	"github.com/sadopc/hobbytrack/internal/activity"
	"github.com/sadopc/hobbytrack/internal/blob"
	"github.com/sadopc/hobbytrack/internal/config"
	"github.com/sadopc/hobbytrack/internal/store"
)

// appContext holds the shared dependencies for all commands.
type appContext struct {
	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File
	store   *store.Store
	blobs   *blob.Store
	account *account.Service
	book    *activity.Book
}

func newAppContext(cfg *config.Config) (*appContext, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	// The TUI owns the terminal, so logs only go to the file.
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	s, err := store.New(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	blobs, err := blob.New(filepath.Join(cfg.DataDir, "blobs"))
	if err != nil {
		s.Close()
		logFile.Close()
		return nil, fmt.Errorf("open blob storage: %w", err)
	}

	acct := account.NewService(s, blobs, logger)
	if _, _, err := acct.Restore(); err != nil {
		logger.Warn("session restore failed", "error", err)
	}

	logger.Debug("app context ready", "db", cfg.DBPath, "data_dir", cfg.DataDir)
	return &appContext{
		cfg:     cfg,
		logger:  logger,
		logFile: logFile,
		store:   s,
		blobs:   blobs,
		account: acct,
		book:    activity.NewBook(s),
	}, nil
}

// Close releases the database and the log file.
func (a *appContext) Close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
	}
	if a.logFile != nil {
		if cerr := a.logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
