package tui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hobbytrack/internal/account"
	"github.com/sadopc/hobbytrack/internal/activity"
	"github.com/sadopc/hobbytrack/internal/export"
	"github.com/sadopc/hobbytrack/internal/store"
)

// Deps are the services the UI runs on.
type Deps struct {
	Store     *store.Store
	Book      *activity.Book
	Account   *account.Service
	Logger    *slog.Logger
	// Theme, when set, overrides the saved theme setting.
	Theme     string
	// ExportDir defaults to the user's home directory.
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	l      *slog.Logger
	st     styles
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	categories categoriesModel
	category   categoryModel
	activity   activityModel
	profile    profileModel
	settings   settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(d Deps) App {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	l := d.Logger.With("component", "tui")

	th := d.Theme
	if th == "" {
		th, _ = d.Store.GetSetting("theme")
	}
	st := newStyles(parseTheme(th))

	h := help.New()
	h.ShowAll = false

	cat := newCategoryModel(d.Book, d.Logger, st)
	if ws, err := d.Store.GetSetting("week_start"); err == nil {
		cat.weekStart = ws
	}

	return App{
		deps:       d,
		l:          l,
		st:         st,
		activeView: viewCategories,
		categories: newCategoriesModel(d.Book, d.Logger, st),
		category:   cat,
		activity:   newActivityModel(d.Book, d.Logger, st),
		profile:    newProfileModel(d.Account, d.Logger, st),
		settings:   newSettingsModel(d.Store, d.Logger, st, d.Theme),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.categories.refresh(),
		a.category.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// setStyles applies a new theme to every view.
func (a *App) setStyles(st styles) {
	a.st = st
	a.categories.st = st
	a.category.st = st
	a.activity.st = st
	a.profile.st = st
	a.settings.st = st
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.categories.setSize(a.width, contentHeight)
		a.category.setSize(a.width, contentHeight)
		a.activity.setSize(a.width, contentHeight)
		a.profile.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child form captures all input.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewCategories)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewCategory)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewActivity)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewProfile)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		case key.Matches(msg, keys.Back):
			if a.activeView == viewCategory {
				return a.switchView(viewCategories)
			}
		}

	case tickMsg:
		a.category, cmd = a.category.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		return a, nil

	case openCategoryMsg:
		a.activeView = viewCategory
		a.category, cmd = a.category.open(msg.category)
		return a, cmd

	case logChangedMsg:
		return a, tea.Batch(a.categories.refresh(), a.activity.refresh())

	case themeChangedMsg:
		if a.deps.Theme == "" {
			a.setStyles(newStyles(msg.theme))
			a.activity.buildChart()
		}
		return a, nil

	case weekStartChangedMsg:
		a.category, cmd = a.category.update(msg)
		return a, cmd

	case sessionChangedMsg:
		return a, a.profile.refresh()

	// Loaded data goes to its view whichever view is active.
	case categoriesDataMsg:
		a.categories, cmd = a.categories.update(msg)
		return a, cmd
	case categoryLoadedMsg:
		a.category, cmd = a.category.update(msg)
		return a, cmd
	case activityDataMsg:
		a.activity, cmd = a.activity.update(msg)
		return a, cmd
	case profileDataMsg:
		a.profile, cmd = a.profile.update(msg)
		return a, cmd
	case settingsDataMsg:
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewCategories:
		a.categories, cmd = a.categories.update(msg)
	case viewCategory:
		a.category, cmd = a.category.update(msg)
	case viewActivity:
		a.activity, cmd = a.activity.update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewCategory:
		return a.category.formActive
	case viewProfile:
		return a.profile.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewCategories:
		return a.categories.refresh()
	case viewCategory:
		return a.category.refresh()
	case viewActivity:
		return a.activity.refresh()
	case viewProfile:
		return a.profile.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewCategories:
		content = a.categories.view()
	case viewCategory:
		content = a.category.view()
	case viewActivity:
		content = a.activity.view()
	case viewProfile:
		content = a.profile.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, a.st.activeTab.Render(name))
		} else {
			tabs = append(tabs, a.st.inactiveTab.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(a.st.pal.primary).Render("hobbytrack")
	user := ""
	if a.deps.Account != nil {
		if sess, ok := a.deps.Account.Current(); ok {
			user = a.st.muted.Render("  " + sess.Email)
		}
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(user) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return a.st.header.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, user, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := a.st.muted
		if a.statusErr {
			style = a.st.errorText
		}
		status = style.Render(" " + a.status)
	}

	// Session indicator
	timerInfo := ""
	if t := a.category.timer; t.running() {
		elapsed := formatDuration(t.currentElapsed())
		timerInfo = a.st.success.Render(" ● " + t.category.Title() + " " + elapsed)
		if t.paused() {
			timerInfo = a.st.warning.Render(" ⏸ " + t.category.Title() + " " + elapsed)
		}
	}

	left := a.st.footer.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"csv", "json"}

func (a App) renderExportPicker() string {
	rows := []string{a.st.title.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := a.st.normalItem
		if i == a.exportCursor {
			cursor = "> "
			style = a.st.selectedItem
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", a.st.muted.Render("  enter: export  esc: cancel"))

	return a.st.activePanel.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format string) tea.Cmd {
	book, l, dir := a.deps.Book, a.l, a.deps.ExportDir
	return func() tea.Msg {
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return exportFailed(l, err)
			}
			dir = home
		}
		path := export.DefaultPath(dir, format, time.Now())

		records, err := book.Records()
		if err != nil {
			return exportFailed(l, err)
		}
		if format == "csv" {
			err = export.ToCSV(records, path)
		} else {
			var totals []activity.CategoryTotal
			if totals, err = book.Summary(); err == nil {
				err = export.ToJSON(records, totals, path)
			}
		}
		if err != nil {
			return exportFailed(l, err)
		}

		l.Info("exported", "format", format, "path", path, "cells", len(records))
		return exportDoneMsg{path: path}
	}
}

func exportFailed(l *slog.Logger, err error) tea.Msg {
	l.Error("export failed", "error", err)
	return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
}
