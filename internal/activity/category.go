package activity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Category is one of the six fixed hobby types.
type Category int

const (
	Music Category = iota
	Sport
	Art
	Reading
	Games
	Other
)

// Categories lists every category in display order.
var Categories = []Category{Music, Sport, Art, Reading, Games, Other}

var (
	categoryKeys   = [...]string{"music", "sport", "art", "reading", "games", "other"}
	categoryTitles = [...]string{"Музыка", "Спорт", "Искусство", "Чтение", "Игры", "Другое"}
	categoryColors = [...]string{"#6C63FF", "#2ECC71", "#FF6B6B", "#3498DB", "#F39C12", "#9B59B6"}
)

var ErrUnknownCategory = errors.New("unknown category")

func (c Category) valid() bool { return c >= Music && c <= Other }

// Key is the stable storage identifier.
func (c Category) Key() string {
	if !c.valid() {
		return "category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryKeys[c]
}

func (c Category) Title() string {
	if !c.valid() {
		return c.Key()
	}
	return categoryTitles[c]
}

// Color is the hex color used for charts and legends.
func (c Category) Color() string {
	if !c.valid() {
		return "#666666"
	}
	return categoryColors[c]
}

func (c Category) String() string { return c.Title() }

// Namespace is the key-value namespace holding this category's data.
func (c Category) Namespace() string { return c.Key() + "_hobby_prefs" }

// ParseCategory accepts a storage key or a display title, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, c.Key()) || strings.EqualFold(s, c.Title()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
