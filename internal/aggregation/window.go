// Package aggregation derives report-ready views from a user's expenses:
// window filtering, daily series, category totals and budget summary.
// Everything here is pure; the same inputs always give the same output.
package aggregation

import (
	"fmt"
	"time"

	apperrors "fitr/internal/errors"
)

// NamedRange is a rolling window ending today.
type NamedRange string

const (
	Last7Days  NamedRange = "last-7-days"
	Last30Days NamedRange = "last-30-days"
)

// DefaultRange applies when a selection names neither range nor month.
const DefaultRange = Last7Days

// Days returns how many days the range reaches back from today.
func (r NamedRange) Days() (int, bool) {
	switch r {
	case Last7Days:
		return 7, true
	case Last30Days:
		return 30, true
	}
	return 0, false
}

// Selection picks a window: a named range, or a calendar month. A month
// takes precedence whenever Year or Month is set.
type Selection struct {
	Range NamedRange `json:"range,omitempty"`
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
}

// HasMonth reports whether the selection asks for a calendar month.
func (s Selection) HasMonth() bool {
	return s.Year != 0 || s.Month != 0
}

// Window is an inclusive range of calendar days. Start and End are the first
// instants of those days in the location of the "today" used to resolve it.
type Window struct {
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Range NamedRange `json:"range,omitempty"`
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
}

// Resolve turns a selection into a window relative to today.
func Resolve(sel Selection, today time.Time) (Window, error) {
	if sel.HasMonth() {
		if sel.Month < time.January || sel.Month > time.December {
			return Window{}, apperrors.WithMessage(apperrors.ErrInvalidWindow, fmt.Sprintf("invalid month %d", sel.Month))
		}
		if sel.Year < 1 || sel.Year > 9999 {
			return Window{}, apperrors.WithMessage(apperrors.ErrInvalidWindow, fmt.Sprintf("invalid year %d", sel.Year))
		}
		loc := today.Location()
		return Window{
			Start: dayStart(sel.Year, sel.Month, 1, loc),
			End:   dayStart(sel.Year, sel.Month+1, 0, loc),
			Year:  sel.Year,
			Month: sel.Month,
		}, nil
	}

	r := sel.Range
	if r == "" {
		r = DefaultRange
	}
	days, ok := r.Days()
	if !ok {
		return Window{}, apperrors.WithMessage(apperrors.ErrInvalidWindow, fmt.Sprintf("unknown range %q", r))
	}
	y, m, d := today.Date()
	loc := today.Location()
	return Window{Start: dayStart(y, m, d-days, loc), End: dayStart(y, m, d, loc), Range: r}, nil
}

// dayStart is the first instant of the civil day y-m-d in loc: 01:00 where
// the day begins after a DST gap. Out of range days normalize the way
// time.Date does.
func dayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	y, m, d = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for i := 0; i < 4; i++ {
		ty, tm, td := t.Date()
		if ty == y && tm == m && td == d {
			break
		}
		t = t.Add(time.Hour)
	}
	return t
}

// civil maps t's calendar day, in t's own location, to UTC midnight so days
// can be compared and stepped without DST effects.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateOf is t's calendar day as seen from the window's location, as a civil date.
func (w Window) dateOf(t time.Time) time.Time {
	return civil(t.In(w.Start.Location()))
}

// Contains reports whether t falls on a day in [Start, End].
func (w Window) Contains(t time.Time) bool {
	d := w.dateOf(t)
	return !d.Before(civil(w.Start)) && !d.After(civil(w.End))
}

// Days is the number of calendar days covered, or 0 when Start is after End.
func (w Window) Days() int {
	s, e := civil(w.Start), civil(w.End)
	if s.After(e) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// Label describes the window for titles: "June 2024" for a month,
// "last 7 days (Jun 3 - Jun 10)" for a named range.
func (w Window) Label() string {
	if w.Year != 0 {
		return fmt.Sprintf("%s %d", w.Month, w.Year)
	}
	days, _ := w.Range.Days()
	return fmt.Sprintf("last %d days (%s - %s)", days, w.Start.Format(dayLabelLayout), w.End.Format(dayLabelLayout))
}

const dayLabelLayout = "Jan 2"
