package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hobbytrack/internal/store"
)

// settingsStore is the part of the store the settings view uses.
type settingsStore interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	GetAllSettings() ([]store.Setting, error)
}

type settingsModel struct {
	store  settingsStore
	l      *slog.Logger
	st     styles
	width  int
	height int

	settings      []store.Setting
	themeOverride string
	formActive    bool
	form          *huh.Form

	// Form values as pointers (survive value copies)
	theme     *string
	weekStart *string
}

func newSettingsModel(s settingsStore, l *slog.Logger, st styles, themeOverride string) settingsModel {
	th, ws := "", ""
	return settingsModel{
		store:         s,
		l:             l.With("view", "settings"),
		st:            st,
		themeOverride: themeOverride,
		theme:         &th,
		weekStart:     &ws,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	err      error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, failCmd(s.l, "Load settings", msg.err)
		}
		s.settings = visibleSettings(msg.settings)
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

// visibleSettings drops internal keys such as the saved session.
func visibleSettings(all []store.Setting) []store.Setting {
	var out []store.Setting
	for _, st := range all {
		if _, ok := settingLabels[st.Key]; ok {
			out = append(out, st)
		}
	}
	return out
}

var settingLabels = map[string]string{
	"theme":      "Theme",
	"week_start": "Week starts on",
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.theme = s.getVal("theme", string(themeDark))
	*s.weekStart = s.getVal("week_start", "monday")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", string(themeDark)),
					huh.NewOption("Light", string(themeLight)),
				).Value(s.theme),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
		).Title("General"),
	).WithTheme(s.st.formTheme()).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, failCmd(s.l, "Save settings", err)
		}
		th, ws := parseTheme(*s.theme), *s.weekStart
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return themeChangedMsg{theme: th} },
			func() tea.Msg { return weekStartChangedMsg{weekStart: ws} },
		)
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	if err := s.store.SetSetting("theme", *s.theme); err != nil {
		return err
	}
	if err := s.store.SetSetting("week_start", *s.weekStart); err != nil {
		return err
	}
	s.l.Info("settings saved", "theme", *s.theme, "week_start", *s.weekStart)
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4
	st := s.st

	if s.formActive && s.form != nil {
		title := st.title.Render("Settings")
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, st.title.Render("Settings"), "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(settingLabels[setting.Key])
		value := st.highlight.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	if s.themeOverride != "" {
		rows = append(rows, "", st.warning.Render(fmt.Sprintf("  HOBBYTRACK_THEME=%s overrides the saved theme", s.themeOverride)))
	}

	rows = append(rows, "", st.muted.Render("Press enter to edit settings"))
	return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "theme":
		if v == string(themeLight) {
			return "Light"
		}
		return "Dark"
	case "week_start":
		if v == "sunday" {
			return "Sunday"
		}
		return "Monday"
	}
	return v
}
