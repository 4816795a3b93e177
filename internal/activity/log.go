// Package activity implements the per-category activity log: a selected
// period, a 5×7 grid of logged minutes with a running total, and goal and
// task lists, all persisted through a namespaced key-value store.
package activity

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MaxCellMinutes is the most one day of the grid can hold.
const MaxCellMinutes = 24 * 60

var (
	ErrCellOutOfRange  = errors.New("cell out of range")
	ErrNegativeMinutes = errors.New("minutes must not be negative")
	ErrTooManyMinutes  = errors.New("minutes exceed one day")
)

type Goal struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Log is the activity log of a single category. All methods are safe for
// concurrent use. In-memory state changes only after the corresponding
// write succeeded.
type Log struct {
	mu       sync.Mutex
	prefs    PrefStore
	category Category
	newID    func() string

	period Period
	cells  map[Cell]int
	total  int
	goals  []Goal
	tasks  []Task
}

// Open loads the category's period, the cells of that period, goals and
// tasks in one read. Lists stored in the legacy delimited format are
// rewritten as JSON.
func Open(prefs PrefStore, c Category) (*Log, error) {
	return open(prefs, c, uuid.NewString)
}

func open(prefs PrefStore, c Category, newID func() string) (*Log, error) {
	if !c.valid() {
		return nil, fmt.Errorf("open log: %w: %d", ErrUnknownCategory, int(c))
	}
	l := &Log{
		prefs:    prefs,
		category: c,
		newID:    newID,
		period:   PeriodUnset,
		cells:    make(map[Cell]int),
	}

	values, err := prefs.GetPrefs(c.Namespace())
	if err != nil {
		return nil, fmt.Errorf("open %s log: %w", c.Key(), err)
	}

	// An unknown stored period is treated as unset.
	if p, err := ParsePeriod(values[keyMonth]); err == nil {
		l.period = p
	}
	l.cells, l.total = cellsFor(values, l.period)

	goals, legacyGoals, err := decodeGoals(values[keyGoals], newID)
	if err != nil {
		return nil, fmt.Errorf("open %s log: %w", c.Key(), err)
	}
	tasks, legacyTasks, err := decodeTasks(values[keyTasks], newID)
	if err != nil {
		return nil, fmt.Errorf("open %s log: %w", c.Key(), err)
	}

	upgrade := make(map[string]string)
	if legacyGoals {
		if upgrade[keyGoals], err = encodeGoals(goals); err != nil {
			return nil, err
		}
	}
	if legacyTasks {
		if upgrade[keyTasks], err = encodeTasks(tasks); err != nil {
			return nil, err
		}
	}
	if len(upgrade) > 0 {
		if err := prefs.PutPrefs(c.Namespace(), upgrade); err != nil {
			return nil, fmt.Errorf("upgrade %s lists: %w", c.Key(), err)
		}
	}

	l.goals = goals
	l.tasks = tasks
	return l, nil
}

// cellsFor scans all 35 cells of p and sums them. This full recompute is
// the reconciliation point for the incrementally maintained total.
func cellsFor(values map[string]string, p Period) (map[Cell]int, int) {
	cells := make(map[Cell]int)
	if !p.IsSet() {
		return cells, 0
	}
	total := 0
	for _, c := range AllCells() {
		if m := parseMinutes(values[cellKey(p, c)]); m > 0 {
			cells[c] = m
			total += m
		}
	}
	return cells, total
}

func (l *Log) Category() Category { return l.category }

func (l *Log) Period() Period {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.period
}

// Total is the sum of minutes over the grid of the selected period.
func (l *Log) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Cell returns the minutes logged in (row, day), or 0.
func (l *Log) Cell(row, day int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cells[Cell{Row: row, Day: day}]
}

// Cells returns a copy of the non-zero cells.
func (l *Log) Cells() map[Cell]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.cells)
}

func (l *Log) Goals() []Goal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.goals)
}

func (l *Log) Tasks() []Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.tasks)
}

// SetPeriod selects p. Selecting a month reloads its cells from storage;
// selecting PeriodUnset empties the grid without touching stored cells.
func (l *Log) SetPeriod(p Period) error {
	if !p.Valid() {
		return fmt.Errorf("set period: %w: %q", ErrInvalidPeriod, string(p))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if p == l.period {
		return nil
	}

	ns := l.category.Namespace()
	cells, total := make(map[Cell]int), 0
	if p.IsSet() {
		values, err := l.prefs.GetPrefs(ns)
		if err != nil {
			return fmt.Errorf("load %s %s: %w", l.category.Key(), p, err)
		}
		cells, total = cellsFor(values, p)
	}

	if err := l.prefs.PutPrefs(ns, map[string]string{keyMonth: string(p)}); err != nil {
		return fmt.Errorf("save %s period: %w", l.category.Key(), err)
	}

	l.period = p
	l.cells = cells
	l.total = total
	return nil
}

// SetCell replaces the minutes in (row, day). The cell and the adjusted
// total are written together. It does nothing while no period is selected.
func (l *Log) SetCell(row, day, minutes int) error {
	c := Cell{Row: row, Day: day}
	if !c.Valid() {
		return fmt.Errorf("set cell (%d, %d): %w", row, day, ErrCellOutOfRange)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.setCellLocked(c, minutes)
}

// AddMinutes adds to the current value of (row, day).
func (l *Log) AddMinutes(row, day, minutes int) error {
	c := Cell{Row: row, Day: day}
	if !c.Valid() {
		return fmt.Errorf("add to cell (%d, %d): %w", row, day, ErrCellOutOfRange)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if minutes > MaxCellMinutes {
		return fmt.Errorf("add to cell (%d, %d): %w", row, day, ErrTooManyMinutes)
	}
	return l.setCellLocked(c, l.cells[c]+minutes)
}

// setCellLocked must be called with l.mu held.
func (l *Log) setCellLocked(c Cell, minutes int) error {
	row, day := c.Row, c.Day
	if minutes < 0 {
		return fmt.Errorf("set cell (%d, %d): %w", row, day, ErrNegativeMinutes)
	}
	if minutes > MaxCellMinutes {
		return fmt.Errorf("set cell (%d, %d): %w: %d > %d", row, day, ErrTooManyMinutes, minutes, MaxCellMinutes)
	}
	if !l.period.IsSet() {
		return nil
	}

	total := max(0, l.total+minutes-l.cells[c])

	err := l.prefs.PutPrefs(l.category.Namespace(), map[string]string{
		cellKey(l.period, c): strconv.Itoa(minutes),
		totalKey(l.period):   strconv.Itoa(total),
	})
	if err != nil {
		return fmt.Errorf("save %s cell (%d, %d): %w", l.category.Key(), row, day, err)
	}

	if minutes == 0 {
		delete(l.cells, c)
	} else {
		l.cells[c] = minutes
	}
	l.total = total
	return nil
}

// Reset zeroes all 35 cells and the total of the selected period.
func (l *Log) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.period.IsSet() {
		return nil
	}

	values := map[string]string{totalKey(l.period): "0"}
	for _, c := range AllCells() {
		values[cellKey(l.period, c)] = "0"
	}
	if err := l.prefs.PutPrefs(l.category.Namespace(), values); err != nil {
		return fmt.Errorf("reset %s %s: %w", l.category.Key(), l.period, err)
	}

	l.cells = make(map[Cell]int)
	l.total = 0
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// AddGoal appends a goal. Blank text is ignored and reported as not added.
func (l *Log) AddGoal(text string) (Goal, bool, error) {
	if blank(text) {
		return Goal{}, false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	g := Goal{ID: l.newID(), Text: text}
	goals := append(slices.Clone(l.goals), g)
	if err := l.saveGoals(goals); err != nil {
		return Goal{}, false, err
	}
	return g, true, nil
}

// RemoveGoal removes every goal whose text equals text exactly and reports
// how many were removed.
func (l *Log) RemoveGoal(text string) (int, error) {
	return l.removeGoals(func(g Goal) bool { return g.Text == text })
}

// RemoveGoalByID removes the single goal with the given id.
func (l *Log) RemoveGoalByID(id string) (bool, error) {
	n, err := l.removeGoals(func(g Goal) bool { return g.ID == id })
	return n > 0, err
}

func (l *Log) removeGoals(match func(Goal) bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	goals := slices.DeleteFunc(slices.Clone(l.goals), match)
	removed := len(l.goals) - len(goals)
	if removed == 0 {
		return 0, nil
	}
	if err := l.saveGoals(goals); err != nil {
		return 0, err
	}
	return removed, nil
}

func (l *Log) saveGoals(goals []Goal) error {
	raw, err := encodeGoals(goals)
	if err != nil {
		return err
	}
	if err := l.prefs.PutPrefs(l.category.Namespace(), map[string]string{keyGoals: raw}); err != nil {
		return fmt.Errorf("save %s goals: %w", l.category.Key(), err)
	}
	l.goals = goals
	return nil
}

// AddTask appends an incomplete task. Blank text is ignored.
func (l *Log) AddTask(text string) (Task, bool, error) {
	if blank(text) {
		return Task{}, false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	t := Task{ID: l.newID(), Text: text}
	tasks := append(slices.Clone(l.tasks), t)
	if err := l.saveTasks(tasks); err != nil {
		return Task{}, false, err
	}
	return t, true, nil
}

// RemoveTask removes every task whose text equals text exactly.
func (l *Log) RemoveTask(text string) (int, error) {
	return l.removeTasks(func(t Task) bool { return t.Text == text })
}

func (l *Log) RemoveTaskByID(id string) (bool, error) {
	n, err := l.removeTasks(func(t Task) bool { return t.ID == id })
	return n > 0, err
}

func (l *Log) removeTasks(match func(Task) bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks := slices.DeleteFunc(slices.Clone(l.tasks), match)
	removed := len(l.tasks) - len(tasks)
	if removed == 0 {
		return 0, nil
	}
	if err := l.saveTasks(tasks); err != nil {
		return 0, err
	}
	return removed, nil
}

// ToggleTask sets the completion flag of every task with matching text.
// Unknown text leaves the list untouched.
func (l *Log) ToggleTask(text string, completed bool) (int, error) {
	return l.toggleTasks(func(t Task) bool { return t.Text == text }, completed)
}

func (l *Log) ToggleTaskByID(id string, completed bool) (bool, error) {
	n, err := l.toggleTasks(func(t Task) bool { return t.ID == id }, completed)
	return n > 0, err
}

func (l *Log) toggleTasks(match func(Task) bool, completed bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tasks := slices.Clone(l.tasks)
	matched := 0
	for i := range tasks {
		if match(tasks[i]) {
			tasks[i].Completed = completed
			matched++
		}
	}
	if matched == 0 {
		return 0, nil
	}
	if err := l.saveTasks(tasks); err != nil {
		return 0, err
	}
	return matched, nil
}

func (l *Log) saveTasks(tasks []Task) error {
	raw, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := l.prefs.PutPrefs(l.category.Namespace(), map[string]string{keyTasks: raw}); err != nil {
		return fmt.Errorf("save %s tasks: %w", l.category.Key(), err)
	}
	l.tasks = tasks
	return nil
}
