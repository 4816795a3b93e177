package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/hobbytrack/internal/activity"
)

type categoryFocus int

const (
	focusGrid categoryFocus = iota
	focusGoals
	focusTasks
)

var (
	weekdaysMonday = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}
	weekdaysSunday = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
)

// categoryModel is the activity log screen of one category: month
// selector, 5x7 minutes grid, goals, tasks and the session timer.
type categoryModel struct {
	book   *activity.Book
	base   *slog.Logger
	l      *slog.Logger
	st     styles
	width  int
	height int

	category  activity.Category
	log       *activity.Log
	weekStart string

	row, day   int
	focus      categoryFocus
	goalCursor int
	taskCursor int

	timer timerModel

	formActive bool
	form       *huh.Form
	formType   string // "period", "cell", "goal", "task", "reset"

	// Form field pointers (survive value copies)
	formText    *string
	formPeriod  *string
	formConfirm *bool
}

func newCategoryModel(b *activity.Book, l *slog.Logger, st styles) categoryModel {
	text, period, confirm := "", "", false
	return categoryModel{
		book:        b,
		base:        l,
		l:           l.With("view", "category", "category", activity.Music.Key()),
		st:          st,
		category:    activity.Music,
		weekStart:   "monday",
		timer:       newTimerModel(),
		formText:    &text,
		formPeriod:  &period,
		formConfirm: &confirm,
	}
}

func (c *categoryModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type categoryLoadedMsg struct {
	category activity.Category
	log      *activity.Log
	err      error
}

// open switches the screen to category and loads its log.
func (c categoryModel) open(cat activity.Category) (categoryModel, tea.Cmd) {
	if cat != c.category {
		c.category = cat
		c.log = nil
		c.row, c.day = 0, 0
		c.goalCursor, c.taskCursor = 0, 0
		c.focus = focusGrid
		c.l = c.base.With("view", "category", "category", cat.Key())
	}
	return c, c.refresh()
}

func (c categoryModel) refresh() tea.Cmd {
	cat := c.category
	return func() tea.Msg {
		log, err := c.book.Log(cat)
		return categoryLoadedMsg{category: cat, log: log, err: err}
	}
}

func (c categoryModel) update(msg tea.Msg) (categoryModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case categoryLoadedMsg:
		if msg.err != nil {
			return c, failCmd(c.l, "Open "+msg.category.Title(), msg.err)
		}
		if msg.category == c.category {
			c.log = msg.log
			c.clampCursors()
		}
		return c, nil

	case weekStartChangedMsg:
		c.weekStart = msg.weekStart
		return c, nil

	case tickMsg:
		c.timer.tick()
		return c, nil

	case tea.KeyMsg:
		c.timer.recordActivity()
		if c.log == nil {
			return c, nil
		}
		return c.updateKeys(msg)
	}
	return c, nil
}

func (c categoryModel) updateKeys(msg tea.KeyMsg) (categoryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Focus):
		c.focus = (c.focus + 1) % 3
		return c, nil
	case key.Matches(msg, keys.Period):
		return c.showPeriodForm()
	case key.Matches(msg, keys.Goal):
		return c.showTextForm("goal", "New goal")
	case key.Matches(msg, keys.Task):
		return c.showTextForm("task", "New task")
	case key.Matches(msg, keys.Reset):
		if !c.log.Period().IsSet() {
			return c, statusCmd("Select a month first (p)")
		}
		return c.showResetForm()
	case key.Matches(msg, keys.Start):
		return c.startSession()
	case key.Matches(msg, keys.Stop):
		return c.stopSession()
	case key.Matches(msg, keys.Pause):
		c.timer.toggle()
		return c, nil
	}

	switch c.focus {
	case focusGoals:
		return c.updateGoals(msg)
	case focusTasks:
		return c.updateTasks(msg)
	}
	return c.updateGrid(msg)
}

func (c categoryModel) updateGrid(msg tea.KeyMsg) (categoryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if c.row > 0 {
			c.row--
		}
	case key.Matches(msg, keys.Down):
		if c.row < activity.Rows-1 {
			c.row++
		}
	case key.Matches(msg, keys.Left):
		if c.day > 0 {
			c.day--
		}
	case key.Matches(msg, keys.Right):
		if c.day < activity.Days-1 {
			c.day++
		}
	case key.Matches(msg, keys.Enter):
		if !c.log.Period().IsSet() {
			return c, statusCmd("Select a month first (p)")
		}
		return c.showCellForm()
	}
	return c, nil
}

func (c categoryModel) updateGoals(msg tea.KeyMsg) (categoryModel, tea.Cmd) {
	goals := c.log.Goals()
	switch {
	case key.Matches(msg, keys.Up):
		if c.goalCursor > 0 {
			c.goalCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.goalCursor < len(goals)-1 {
			c.goalCursor++
		}
	case key.Matches(msg, keys.Delete):
		if c.goalCursor < len(goals) {
			g := goals[c.goalCursor]
			if _, err := c.log.RemoveGoalByID(g.ID); err != nil {
				return c, failCmd(c.l, "Delete goal", err)
			}
			c.l.Info("goal removed", "id", g.ID)
			c.clampCursors()
			return c, c.changed()
		}
	}
	return c, nil
}

func (c categoryModel) updateTasks(msg tea.KeyMsg) (categoryModel, tea.Cmd) {
	tasks := c.log.Tasks()
	switch {
	case key.Matches(msg, keys.Up):
		if c.taskCursor > 0 {
			c.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.taskCursor < len(tasks)-1 {
			c.taskCursor++
		}
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if c.taskCursor < len(tasks) {
			t := tasks[c.taskCursor]
			if _, err := c.log.ToggleTaskByID(t.ID, !t.Completed); err != nil {
				return c, failCmd(c.l, "Update task", err)
			}
			return c, c.changed()
		}
	case key.Matches(msg, keys.Delete):
		if c.taskCursor < len(tasks) {
			t := tasks[c.taskCursor]
			if _, err := c.log.RemoveTaskByID(t.ID); err != nil {
				return c, failCmd(c.l, "Delete task", err)
			}
			c.l.Info("task removed", "id", t.ID)
			c.clampCursors()
			return c, c.changed()
		}
	}
	return c, nil
}

func (c *categoryModel) clampCursors() {
	if c.log == nil {
		return
	}
	if n := len(c.log.Goals()); c.goalCursor >= n {
		c.goalCursor = max(0, n-1)
	}
	if n := len(c.log.Tasks()); c.taskCursor >= n {
		c.taskCursor = max(0, n-1)
	}
}

func (c categoryModel) changed() tea.Cmd {
	cat := c.category
	return func() tea.Msg { return logChangedMsg{category: cat} }
}

// --- Session timer ---

func (c categoryModel) startSession() (categoryModel, tea.Cmd) {
	if c.timer.running() {
		return c, statusCmd("A session is already running")
	}
	if !c.log.Period().IsSet() {
		return c, statusCmd("Select a month first (p)")
	}
	cell := activity.Cell{Row: c.row, Day: c.day}
	c.timer.start(c.category, cell)
	c.l.Info("session started", "row", cell.Row, "day", cell.Day)
	return c, statusCmd(fmt.Sprintf("Session started: %s, week %d day %d", c.category.Title(), cell.Row+1, cell.Day+1))
}

func (c categoryModel) stopSession() (categoryModel, tea.Cmd) {
	if !c.timer.running() {
		return c, nil
	}
	cat, cell := c.timer.category, c.timer.cell
	mins := wholeMinutes(c.timer.stop())
	if mins == 0 {
		return c, statusCmd("Session under a minute, nothing logged")
	}

	log, err := c.book.Log(cat)
	if err != nil {
		return c, failCmd(c.l, "Log session", err)
	}
	if !log.Period().IsSet() {
		return c, statusCmd("Month was cleared, session not logged")
	}
	if err := log.AddMinutes(cell.Row, cell.Day, mins); err != nil {
		return c, failCmd(c.l, "Log session", err)
	}
	c.l.Info("session logged", "category", cat.Key(), "row", cell.Row, "day", cell.Day, "minutes", mins)
	return c, tea.Batch(
		statusCmd(fmt.Sprintf("Logged %d min to %s", mins, cat.Title())),
		func() tea.Msg { return logChangedMsg{category: cat} },
	)
}

// --- Forms ---

func (c categoryModel) showPeriodForm() (categoryModel, tea.Cmd) {
	*c.formPeriod = c.log.Period().String()
	c.formType = "period"

	opts := []huh.Option[string]{huh.NewOption(activity.PeriodUnset.String(), activity.PeriodUnset.String())}
	for _, m := range activity.Months {
		opts = append(opts, huh.NewOption(m.String(), m.String()))
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Month").Options(opts...).Value(c.formPeriod),
		),
	).WithTheme(c.st.formTheme()).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c categoryModel) showCellForm() (categoryModel, tea.Cmd) {
	*c.formText = strconv.Itoa(c.log.Cell(c.row, c.day))
	c.formType = "cell"

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Minutes, week %d day %d (0 clears)", c.row+1, c.day+1)).
				Value(c.formText).
				Validate(validateMinutes),
		),
	).WithTheme(c.st.formTheme()).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c categoryModel) showTextForm(formType, title string) (categoryModel, tea.Cmd) {
	*c.formText = ""
	c.formType = formType

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(title).Value(c.formText),
		),
	).WithTheme(c.st.formTheme()).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c categoryModel) showResetForm() (categoryModel, tea.Cmd) {
	*c.formConfirm = false
	c.formType = "reset"

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Clear all minutes of %s for %s?", c.category.Title(), c.log.Period())).
				Affirmative("Reset").
				Negative("Cancel").
				Value(c.formConfirm),
		),
	).WithTheme(c.st.formTheme()).WithShowHelp(true)

	c.formActive = true
	return c, c.form.Init()
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number of minutes")
	}
	if n < 0 {
		return errors.New("minutes cannot be negative")
	}
	if n > activity.MaxCellMinutes {
		return fmt.Errorf("at most %d minutes a day", activity.MaxCellMinutes)
	}
	return nil
}

func (c categoryModel) updateForm(msg tea.Msg) (categoryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		c.form = nil
		return c.submitForm()
	}
	return c, cmd
}

func (c categoryModel) submitForm() (categoryModel, tea.Cmd) {
	switch c.formType {
	case "period":
		p, err := activity.ParsePeriod(*c.formPeriod)
		if err != nil {
			return c, failCmd(c.l, "Select month", err)
		}
		if err := c.log.SetPeriod(p); err != nil {
			return c, failCmd(c.l, "Select month", err)
		}
		c.l.Info("period selected", "period", p)
		return c, c.changed()

	case "cell":
		mins, _ := strconv.Atoi(strings.TrimSpace(*c.formText))
		if err := c.log.SetCell(c.row, c.day, mins); err != nil {
			return c, failCmd(c.l, "Save minutes", err)
		}
		c.l.Debug("cell set", "row", c.row, "day", c.day, "minutes", mins)
		return c, c.changed()

	case "goal":
		_, ok, err := c.log.AddGoal(*c.formText)
		if err != nil {
			return c, failCmd(c.l, "Add goal", err)
		}
		if !ok {
			return c, nil
		}
		c.focus = focusGoals
		c.goalCursor = len(c.log.Goals()) - 1
		return c, c.changed()

	case "task":
		_, ok, err := c.log.AddTask(*c.formText)
		if err != nil {
			return c, failCmd(c.l, "Add task", err)
		}
		if !ok {
			return c, nil
		}
		c.focus = focusTasks
		c.taskCursor = len(c.log.Tasks()) - 1
		return c, c.changed()

	case "reset":
		if !*c.formConfirm {
			return c, nil
		}
		if err := c.log.Reset(); err != nil {
			return c, failCmd(c.l, "Reset month", err)
		}
		c.l.Info("period reset", "period", c.log.Period())
		return c, tea.Batch(statusCmd("Month cleared"), c.changed())
	}
	return c, nil
}

// --- View ---

func (c categoryModel) view() string {
	w := c.width - 4
	st := c.st

	if c.formActive && c.form != nil {
		title := st.title.Render(c.formTitle())
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()),
		)
	}

	if c.log == nil {
		return st.panel.Width(w).Render(st.muted.Render("Loading..."))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		st.dot(c.category.Color()), " ",
		st.title.Render(c.category.Title()), "  ",
		st.highlight.Render(c.log.Period().String()), "  ",
		st.muted.Render("total "), st.title.Render(formatMinutes(c.log.Total())),
	)

	gridPanel := c.panelFor(focusGrid).Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", c.renderGrid(), "", c.renderSession()),
	)

	half := max(20, w/2-1)
	goals := c.panelFor(focusGoals).Width(half).Render(c.renderGoals())
	tasks := c.panelFor(focusTasks).Width(half).Render(c.renderTasks())
	lists := lipgloss.JoinHorizontal(lipgloss.Top, goals, " ", tasks)

	return lipgloss.JoinVertical(lipgloss.Left, gridPanel, lists)
}

func (c categoryModel) formTitle() string {
	switch c.formType {
	case "period":
		return "Select Month"
	case "cell":
		return "Edit Minutes"
	case "goal":
		return "New Goal"
	case "task":
		return "New Task"
	case "reset":
		return "Reset Month"
	}
	return ""
}

func (c categoryModel) panelFor(f categoryFocus) lipgloss.Style {
	if c.focus == f {
		return c.st.activePanel
	}
	return c.st.panel
}

func (c categoryModel) weekdays() []string {
	if c.weekStart == "sunday" {
		return weekdaysSunday
	}
	return weekdaysMonday
}

func (c categoryModel) renderGrid() string {
	st := c.st
	set := c.log.Period().IsSet()

	head := []string{st.muted.Width(8).Render("")}
	for _, d := range c.weekdays() {
		head = append(head, st.muted.Width(6).Align(lipgloss.Right).Render(d))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, head...)}

	for r := 0; r < activity.Rows; r++ {
		cells := []string{st.muted.Width(8).Render(fmt.Sprintf("Нед %d", r+1))}
		for d := 0; d < activity.Days; d++ {
			v := c.log.Cell(r, d)
			text := "·"
			style := st.cell
			if v > 0 {
				text = strconv.Itoa(v)
				style = st.cellFilled
			}
			if c.focus == focusGrid && r == c.row && d == c.day {
				style = st.cellSelected
			}
			cells = append(cells, style.Render(text))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if !set {
		lines = append(lines, "", st.muted.Render("No month selected. Press p to choose one."))
	}
	return strings.Join(lines, "\n")
}

func (c categoryModel) renderSession() string {
	st := c.st
	if !c.timer.running() {
		return st.muted.Render("■  no session  s: start  enter: edit  p: month  r: reset  f: switch panel")
	}

	elapsed := formatDuration(c.timer.currentElapsed())
	target := fmt.Sprintf("%s, week %d day %d", c.timer.category.Title(), c.timer.cell.Row+1, c.timer.cell.Day+1)
	if c.timer.paused() {
		label := "⏸  PAUSED"
		if c.timer.isIdle {
			label = "⏸  IDLE"
		}
		return st.timerPaused.Render(label+"  "+elapsed) + st.muted.Render("  "+target)
	}
	return st.timerRunning.Render("●  "+elapsed) + st.muted.Render("  "+target+"  x: stop  P: pause")
}

func (c categoryModel) renderGoals() string {
	st := c.st
	rows := []string{st.title.Render("Goals")}
	goals := c.log.Goals()
	if len(goals) == 0 {
		rows = append(rows, st.muted.Render("No goals. Press g to add one."))
	}
	for i, g := range goals {
		cursor := "  "
		style := st.normalItem
		if c.focus == focusGoals && i == c.goalCursor {
			cursor = "> "
			style = st.selectedItem
		}
		rows = append(rows, style.Render(cursor+"• "+g.Text))
	}
	return strings.Join(rows, "\n")
}

func (c categoryModel) renderTasks() string {
	st := c.st
	rows := []string{st.title.Render("Tasks")}
	tasks := c.log.Tasks()
	if len(tasks) == 0 {
		rows = append(rows, st.muted.Render("No tasks. Press t to add one."))
	}
	for i, t := range tasks {
		cursor := "  "
		style := st.normalItem
		if c.focus == focusTasks && i == c.taskCursor {
			cursor = "> "
			style = st.selectedItem
		}
		box := "[ ] "
		if t.Completed {
			box = "[x] "
		}
		rows = append(rows, style.Render(cursor+box+t.Text))
	}
	return strings.Join(rows, "\n")
}
