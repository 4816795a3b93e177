package activity

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Book opens category logs lazily and keeps them for reuse, so every
// screen that asks for a category sees the same Log.
type Book struct {
	prefs PrefStore

	mu   sync.Mutex
	logs map[Category]*Log
}

func NewBook(prefs PrefStore) *Book {
	return &Book{prefs: prefs, logs: make(map[Category]*Log)}
}

// Log returns the category's log, opening it on first use.
func (b *Book) Log(c Category) (*Log, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if l, ok := b.logs[c]; ok {
		return l, nil
	}
	l, err := Open(b.prefs, c)
	if err != nil {
		return nil, err
	}
	b.logs[c] = l
	return l, nil
}

// CategoryTotal is a category's total for its selected period.
type CategoryTotal struct {
	Category Category
	Period   Period
	Minutes  int
}

// Summary collects the already computed totals of all six categories.
func (b *Book) Summary() ([]CategoryTotal, error) {
	totals := make([]CategoryTotal, 0, len(Categories))
	for _, c := range Categories {
		l, err := b.Log(c)
		if err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		totals = append(totals, CategoryTotal{
			Category: c,
			Period:   l.Period(),
			Minutes:  l.Total(),
		})
	}
	return totals, nil
}

// GrandTotal sums the minutes of all totals.
func GrandTotal(totals []CategoryTotal) int {
	sum := 0
	for _, t := range totals {
		sum += t.Minutes
	}
	return sum
}

// Shares returns each total's fraction of the grand total, or all zeros
// when nothing was logged.
func Shares(totals []CategoryTotal) []float64 {
	shares := make([]float64, len(totals))
	sum := GrandTotal(totals)
	if sum == 0 {
		return shares
	}
	for i, t := range totals {
		shares[i] = float64(t.Minutes) / float64(sum)
	}
	return shares
}

// CellRecord is one stored non-zero cell, used for export.
type CellRecord struct {
	Category Category
	Period   Period
	Row      int
	Day      int
	Minutes  int
}

// Records reads every non-zero cell of every category and period straight
// from storage, ordered by category, month, row and day.
func (b *Book) Records() ([]CellRecord, error) {
	var records []CellRecord
	for _, c := range Categories {
		values, err := b.prefs.GetPrefs(c.Namespace())
		if err != nil {
			return nil, fmt.Errorf("records %s: %w", c.Key(), err)
		}
		for k, v := range values {
			p, cell, ok := parseCellKey(k)
			if !ok {
				continue
			}
			m := parseMinutes(v)
			if m == 0 {
				continue
			}
			records = append(records, CellRecord{
				Category: c,
				Period:   p,
				Row:      cell.Row,
				Day:      cell.Day,
				Minutes:  m,
			})
		}
	}
	slices.SortFunc(records, func(a, b CellRecord) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.Period.monthIndex(), b.Period.monthIndex()),
			cmp.Compare(a.Row, b.Row),
			cmp.Compare(a.Day, b.Day),
		)
	})
	return records, nil
}
