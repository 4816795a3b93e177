package activity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PrefStore is the namespaced key-value storage a Log persists through.
// PutPrefs must write all values atomically.
type PrefStore interface {
	GetPrefs(namespace string) (map[string]string, error)
	PutPrefs(namespace string, values map[string]string) error
}

const (
	keyMonth      = "month"
	keyGoals      = "goals"
	keyTasks      = "tasks"
	cellKeyPrefix = "cell_"
)

func cellKey(p Period, c Cell) string {
	return fmt.Sprintf("%s%s_%d_%d", cellKeyPrefix, p, c.Row, c.Day)
}

func totalKey(p Period) string {
	return "total_" + string(p)
}

// parseCellKey is the inverse of cellKey.
func parseCellKey(key string) (Period, Cell, bool) {
	rest, ok := strings.CutPrefix(key, cellKeyPrefix)
	if !ok {
		return "", Cell{}, false
	}
	parts := strings.Split(rest, "_")
	if len(parts) != 3 {
		return "", Cell{}, false
	}
	row, err1 := strconv.Atoi(parts[1])
	day, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		return "", Cell{}, false
	}
	c := Cell{Row: row, Day: day}
	p := Period(parts[0])
	if !c.Valid() || !p.IsSet() || !p.Valid() {
		return "", Cell{}, false
	}
	return p, c, true
}

// parseMinutes reads a stored minute count; anything unreadable or
// negative counts as zero, and values written before the per-day cap are
// clamped to it.
func parseMinutes(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return min(n, MaxCellMinutes)
}

func encodeGoals(goals []Goal) (string, error) {
	if goals == nil {
		goals = []Goal{}
	}
	b, err := json.Marshal(goals)
	if err != nil {
		return "", fmt.Errorf("encode goals: %w", err)
	}
	return string(b), nil
}

func encodeTasks(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(b), nil
}

func isJSONList(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "[")
}

// decodeGoals reads the JSON list format, falling back to the legacy
// comma-joined format. legacy reports whether the fallback was used.
func decodeGoals(raw string, newID func() string) (goals []Goal, legacy bool, err error) {
	if strings.TrimSpace(raw) == "" {
		return nil, false, nil
	}
	if isJSONList(raw) {
		if err := json.Unmarshal([]byte(raw), &goals); err != nil {
			return nil, false, fmt.Errorf("decode goals: %w", err)
		}
		for i := range goals {
			if goals[i].ID == "" {
				goals[i].ID = newID()
			}
		}
		return goals, false, nil
	}
	// Legacy values have no escaping: a goal containing a comma comes back
	// as two goals.
	for _, text := range strings.Split(raw, ",") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		goals = append(goals, Goal{ID: newID(), Text: text})
	}
	return goals, true, nil
}

// decodeTasks mirrors decodeGoals. Legacy entries are "text:true" pairs
// joined by commas.
func decodeTasks(raw string, newID func() string) (tasks []Task, legacy bool, err error) {
	if strings.TrimSpace(raw) == "" {
		return nil, false, nil
	}
	if isJSONList(raw) {
		if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
			return nil, false, fmt.Errorf("decode tasks: %w", err)
		}
		for i := range tasks {
			if tasks[i].ID == "" {
				tasks[i].ID = newID()
			}
		}
		return tasks, false, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		completed := len(parts) > 1 && strings.EqualFold(parts[1], "true")
		tasks = append(tasks, Task{ID: newID(), Text: parts[0], Completed: completed})
	}
	return tasks, true, nil
}
