package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/hobbytrack/internal/activity"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCategories viewState = iota
	viewCategory
	viewActivity
	viewProfile
	viewSettings
)

var viewNames = []string{"Categories", "Category", "Activity", "Profile", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// openCategoryMsg asks the app to show a category's log screen.
type openCategoryMsg struct {
	category activity.Category
}

// logChangedMsg is sent after a category log was written.
type logChangedMsg struct {
	category activity.Category
}

type themeChangedMsg struct {
	theme theme
}

type weekStartChangedMsg struct {
	weekStart string
}

type sessionChangedMsg struct{}

// --- Helpers ---

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// failCmd logs err and reports it in the status line.
func failCmd(l *slog.Logger, action string, err error) tea.Cmd {
	l.Error(action+" failed", "error", err)
	text := fmt.Sprintf("%s: %v", action, err)
	return func() tea.Msg { return statusMsg{text: text, isError: true} }
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatMinutes renders a minute count as HH:MM.
func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

func formatHours(mins int) string {
	return fmt.Sprintf("%.1fh", float64(mins)/60)
}
