package activity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Period is a reporting window: a month name or PeriodUnset.
type Period string

// PeriodUnset means no month is selected; the grid reads as empty.
const PeriodUnset Period = "не задан"

var Months = []Period{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

var ErrInvalidPeriod = errors.New("invalid period")

func (p Period) IsSet() bool { return p != PeriodUnset }

func (p Period) Valid() bool {
	return p == PeriodUnset || p.monthIndex() >= 0
}

func (p Period) monthIndex() int {
	for i, m := range Months {
		if m == p {
			return i
		}
	}
	return -1
}

func (p Period) String() string { return string(p) }

// ParsePeriod accepts a month name (any case), a month number 1..12,
// or "", "unset" and the unset sentinel for PeriodUnset.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unset") || strings.EqualFold(s, string(PeriodUnset)) {
		return PeriodUnset, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(Months) {
			return Months[n-1], nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	for _, m := range Months {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}
