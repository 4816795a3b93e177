package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hobbytrack/internal/activity"
)

type categoriesModel struct {
	book   *activity.Book
	l      *slog.Logger
	st     styles
	width  int
	height int

	rows   []categoryRow
	cursor int
}

// categoryRow is the overview line of one category.
type categoryRow struct {
	category  activity.Category
	period    activity.Period
	total     int
	goals     int
	tasks     int
	tasksDone int
}

func newCategoriesModel(b *activity.Book, l *slog.Logger, st styles) categoriesModel {
	return categoriesModel{
		book: b,
		l:    l.With("view", "categories"),
		st:   st,
	}
}

func (c *categoriesModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type categoriesDataMsg struct {
	rows []categoryRow
	err  error
}

func (c categoriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		rows := make([]categoryRow, 0, len(activity.Categories))
		for _, cat := range activity.Categories {
			log, err := c.book.Log(cat)
			if err != nil {
				return categoriesDataMsg{err: err}
			}
			row := categoryRow{
				category: cat,
				period:   log.Period(),
				total:    log.Total(),
				goals:    len(log.Goals()),
			}
			for _, t := range log.Tasks() {
				row.tasks++
				if t.Completed {
					row.tasksDone++
				}
			}
			rows = append(rows, row)
		}
		return categoriesDataMsg{rows: rows}
	}
}

func (c categoriesModel) selected() activity.Category {
	if c.cursor < len(c.rows) {
		return c.rows[c.cursor].category
	}
	return activity.Categories[0]
}

func (c categoriesModel) update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesDataMsg:
		if msg.err != nil {
			return c, failCmd(c.l, "Load categories", msg.err)
		}
		c.rows = msg.rows
		if c.cursor >= len(c.rows) {
			c.cursor = max(0, len(c.rows)-1)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.rows)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(c.rows) > 0 {
				cat := c.selected()
				return c, func() tea.Msg { return openCategoryMsg{category: cat} }
			}
		}
	}
	return c, nil
}

func (c categoriesModel) view() string {
	if c.width < 20 {
		return "Terminal too small"
	}
	w := c.width - 4
	st := c.st

	title := st.title.Render("Hobbies")
	if len(c.rows) == 0 {
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", st.muted.Render("Loading...")),
		)
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, st.muted.Render(fmt.Sprintf("    %-12s %-10s %8s %6s %7s", "Category", "Month", "Time", "Goals", "Tasks")))

	for i, r := range c.rows {
		cursor := "  "
		style := st.normalItem
		if i == c.cursor {
			cursor = "> "
			style = st.selectedItem
		}
		period := r.period.String()
		total := formatMinutes(r.total)
		if !r.period.IsSet() {
			total = "--:--"
		}
		line := fmt.Sprintf("%s%s %-12s %-10s %8s %6d %3d/%-3d",
			cursor, st.dot(r.category.Color()), r.category.Title(), period, total, r.goals, r.tasksDone, r.tasks)
		rows = append(rows, style.Render(line))
	}

	rows = append(rows, "", st.muted.Render("  enter: open  ↑/↓: move  e: export"))
	return st.panel.Width(w).Render(strings.Join(rows, "\n"))
}
