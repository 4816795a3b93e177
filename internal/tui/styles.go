package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// theme selects a palette. It is passed explicitly to every view.
type theme string

const (
	themeDark  theme = "dark"
	themeLight theme = "light"
)

func parseTheme(s string) theme {
	if s == string(themeLight) {
		return themeLight
	}
	return themeDark
}

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var palettes = map[theme]palette{
	themeDark: {
		primary:   "#6C63FF",
		secondary: "#2EC4B6",
		accent:    "#FF6B6B",
		muted:     "#666666",
		success:   "#2ECC71",
		warning:   "#F39C12",
		err:       "#E74C3C",
		fg:        "#C0CAF5",
		subtle:    "#414868",
		highlight: "#7AA2F7",
	},
	themeLight: {
		primary:   "#4B3FD9",
		secondary: "#168F84",
		accent:    "#D64545",
		muted:     "#8A8A8A",
		success:   "#1E8E4F",
		warning:   "#B86E00",
		err:       "#C0392B",
		fg:        "#24283B",
		subtle:    "#C8CCE0",
		highlight: "#2E59C7",
	},
}

type styles struct {
	theme theme
	pal   palette

	// Tabs
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style

	// Panels
	panel       lipgloss.Style
	activePanel lipgloss.Style

	// Timer
	timer        lipgloss.Style
	timerRunning lipgloss.Style
	timerPaused  lipgloss.Style

	// Grid
	cell         lipgloss.Style
	cellFilled   lipgloss.Style
	cellSelected lipgloss.Style

	// Text
	title     lipgloss.Style
	subtitle  lipgloss.Style
	accent    lipgloss.Style
	success   lipgloss.Style
	warning   lipgloss.Style
	errorText lipgloss.Style
	muted     lipgloss.Style
	highlight lipgloss.Style

	// Header/footer
	header lipgloss.Style
	footer lipgloss.Style

	// List items
	selectedItem lipgloss.Style
	normalItem   lipgloss.Style

	avatar lipgloss.Style
}

func newStyles(th theme) styles {
	p, ok := palettes[th]
	if !ok {
		th, p = themeDark, palettes[themeDark]
	}

	return styles{
		theme: th,
		pal:   p,

		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(p.primary).
			Padding(0, 2),
		inactiveTab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.subtle).
			Padding(1, 2),
		activePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2),

		timer: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		timerRunning: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.success),
		timerPaused: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.warning),

		cell: lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Right).
			Foreground(p.muted),
		cellFilled: lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Right).
			Foreground(p.fg),
		cellSelected: lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Right).
			Bold(true).
			Foreground(p.primary).
			Reverse(true),

		title:     lipgloss.NewStyle().Bold(true).Foreground(p.fg),
		subtitle:  lipgloss.NewStyle().Foreground(p.muted),
		accent:    lipgloss.NewStyle().Foreground(p.accent),
		success:   lipgloss.NewStyle().Foreground(p.success),
		warning:   lipgloss.NewStyle().Foreground(p.warning),
		errorText: lipgloss.NewStyle().Foreground(p.err),
		muted:     lipgloss.NewStyle().Foreground(p.muted),
		highlight: lipgloss.NewStyle().Foreground(p.highlight),

		header: lipgloss.NewStyle().Padding(0, 1),
		footer: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),

		selectedItem: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		normalItem: lipgloss.NewStyle().
			Foreground(p.fg),

		avatar: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.fg).
			Background(p.primary).
			Padding(1, 3),
	}
}

// formTheme is the huh theme matching the palette.
func (s styles) formTheme() *huh.Theme {
	if s.theme == themeLight {
		return huh.ThemeBase16()
	}
	return huh.ThemeCharm()
}

// dot renders a colored bullet for a category or series.
func (s styles) dot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
