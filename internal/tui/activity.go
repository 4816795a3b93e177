package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hobbytrack/internal/activity"
)

// activityModel charts the selected-period totals of all categories.
type activityModel struct {
	book   *activity.Book
	l      *slog.Logger
	st     styles
	width  int
	height int

	totals []activity.CategoryTotal
	chart  barchart.Model
}

func newActivityModel(b *activity.Book, l *slog.Logger, st styles) activityModel {
	return activityModel{
		book:  b,
		l:     l.With("view", "activity"),
		st:    st,
		chart: barchart.New(60, 12),
	}
}

func (a *activityModel) setSize(w, h int) {
	a.width = w
	a.height = h
	if a.totals != nil {
		a.buildChart()
	}
}

type activityDataMsg struct {
	totals []activity.CategoryTotal
	err    error
}

func (a activityModel) refresh() tea.Cmd {
	return func() tea.Msg {
		totals, err := a.book.Summary()
		return activityDataMsg{totals: totals, err: err}
	}
}

func (a activityModel) update(msg tea.Msg) (activityModel, tea.Cmd) {
	switch msg := msg.(type) {
	case activityDataMsg:
		if msg.err != nil {
			return a, failCmd(a.l, "Load summary", msg.err)
		}
		a.totals = msg.totals
		a.buildChart()
		return a, nil
	}
	return a, nil
}

func (a *activityModel) buildChart() {
	chartWidth := a.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if a.height > 30 {
		chartHeight = 16
	}

	a.chart = barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(a.totals))
	for _, t := range a.totals {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Category.Color()))
		bars = append(bars, barchart.BarData{
			Label: t.Category.Title(),
			Values: []barchart.BarValue{{
				Name:  t.Category.Title(),
				Value: float64(t.Minutes) / 60,
				Style: style,
			}},
		})
	}

	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a activityModel) view() string {
	w := a.width - 4
	st := a.st

	grand := activity.GrandTotal(a.totals)
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		st.title.Render("Activity"), "  ",
		st.muted.Render("hours per category, selected month  total "),
		st.highlight.Render(formatMinutes(grand)),
	)

	if len(a.totals) == 0 {
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", st.muted.Render("Loading...")),
		)
	}

	body := []string{header, ""}
	if grand == 0 {
		body = append(body, st.muted.Render("  Nothing logged yet. Open a category and fill in the grid."))
	} else {
		body = append(body, a.chart.View())
	}
	body = append(body, "", a.renderLegend(w))

	return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (a activityModel) renderLegend(w int) string {
	st := a.st
	shares := activity.Shares(a.totals)

	var rows []string
	rows = append(rows, st.muted.Render(fmt.Sprintf("  %-14s %-10s %8s %6s %6s", "Category", "Month", "Time", "Hours", "Share")))
	rows = append(rows, st.muted.Render("  "+strings.Repeat("─", min(w-6, 50))))
	for i, t := range a.totals {
		rows = append(rows, fmt.Sprintf("  %s %-12s %-10s %8s %6s %5.0f%%",
			st.dot(t.Category.Color()), t.Category.Title(), t.Period,
			formatMinutes(t.Minutes), formatHours(t.Minutes), shares[i]*100,
		))
	}
	return strings.Join(rows, "\n")
}
