package activity

import (
	"errors"
	"math"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"music", Music},
		{"SPORT", Sport},
		{"Искусство", Art},
		{"чтение", Reading},
		{" games ", Games},
		{"Другое", Other},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseCategory("cooking"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestCategoryNamespacesDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Categories {
		ns := c.Namespace()
		if seen[ns] {
			t.Fatalf("duplicate namespace %q", ns)
		}
		seen[ns] = true
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(seen))
	}
	if Music.Namespace() != "music_hobby_prefs" {
		t.Fatalf("music namespace = %q", Music.Namespace())
	}
}

func TestInvalidCategoryStrings(t *testing.T) {
	c := Category(99)
	if c.Key() == "" || c.Title() == "" || c.Color() == "" {
		t.Fatal("invalid category should still render something")
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
	}{
		{"Март", "Март"},
		{"март", "Март"},
		{"3", "Март"},
		{"12", "Декабрь"},
		{"", PeriodUnset},
		{"unset", PeriodUnset},
		{"не задан", PeriodUnset},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePeriod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"0", "13", "Мартт", "March"} {
		if _, err := ParsePeriod(bad); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("ParsePeriod(%q) = %v, want ErrInvalidPeriod", bad, err)
		}
	}
}

func TestPeriodValid(t *testing.T) {
	if !PeriodUnset.Valid() || PeriodUnset.IsSet() {
		t.Fatal("unset sentinel should be valid and not set")
	}
	for _, m := range Months {
		if !m.Valid() || !m.IsSet() {
			t.Fatalf("%s should be a valid set period", m)
		}
	}
	if Period("typo").Valid() {
		t.Fatal("unknown period should be invalid")
	}
}

func TestAllCells(t *testing.T) {
	cells := AllCells()
	if len(cells) != Rows*Days {
		t.Fatalf("got %d cells, want %d", len(cells), Rows*Days)
	}
	for _, c := range cells {
		if !c.Valid() {
			t.Fatalf("cell %v invalid", c)
		}
	}
}

// ============================================================
// Book / summary
// ============================================================

func TestBookReusesLogs(t *testing.T) {
	b := NewBook(newTestStore(t))
	first, err := b.Log(Sport)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := b.Log(Sport)
	if first != second {
		t.Fatal("book should return the same log per category")
	}
}

func TestSummaryCollectsAllCategories(t *testing.T) {
	b := NewBook(newTestStore(t))
	sport, _ := b.Log(Sport)
	mustSetPeriod(t, sport, "Март")
	mustSetCell(t, sport, 0, 0, 45)

	totals, err := b.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != len(Categories) {
		t.Fatalf("got %d totals, want %d", len(totals), len(Categories))
	}
	for i, tt := range totals {
		if tt.Category != Categories[i] {
			t.Fatalf("totals[%d] = %v, want %v", i, tt.Category, Categories[i])
		}
		want := 0
		if tt.Category == Sport {
			want = 45
		}
		if tt.Minutes != want {
			t.Fatalf("%s minutes = %d, want %d", tt.Category, tt.Minutes, want)
		}
	}
	if GrandTotal(totals) != 45 {
		t.Fatalf("grand total = %d", GrandTotal(totals))
	}
}

func TestShares(t *testing.T) {
	totals := []CategoryTotal{{Minutes: 30}, {Minutes: 90}, {Minutes: 0}}
	shares := Shares(totals)
	want := []float64{0.25, 0.75, 0}
	for i := range want {
		if math.Abs(shares[i]-want[i]) > 1e-9 {
			t.Fatalf("shares[%d] = %v, want %v", i, shares[i], want[i])
		}
	}

	zero := Shares([]CategoryTotal{{}, {}})
	for _, s := range zero {
		if s != 0 {
			t.Fatal("shares of an empty summary should be zero")
		}
	}
}

func TestRecordsAcrossPeriods(t *testing.T) {
	s := newTestStore(t)
	b := NewBook(s)

	music, _ := b.Log(Music)
	mustSetPeriod(t, music, "Апрель")
	mustSetCell(t, music, 1, 1, 10)
	mustSetPeriod(t, music, "Март")
	mustSetCell(t, music, 0, 2, 20)
	mustSetCell(t, music, 0, 1, 5)
	mustSetCell(t, music, 0, 1, 0)

	art, _ := b.Log(Art)
	mustSetPeriod(t, art, "Январь")
	mustSetCell(t, art, 4, 6, 60)

	records, err := b.Records()
	if err != nil {
		t.Fatal(err)
	}
	want := []CellRecord{
		{Category: Music, Period: "Март", Row: 0, Day: 2, Minutes: 20},
		{Category: Music, Period: "Апрель", Row: 1, Day: 1, Minutes: 10},
		{Category: Art, Period: "Январь", Row: 4, Day: 6, Minutes: 60},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d: %v", len(records), len(want), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Fatalf("records[%d] = %+v, want %+v", i, records[i], want[i])
		}
	}
}
