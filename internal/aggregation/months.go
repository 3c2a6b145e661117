package aggregation

import (
	"fmt"
	"time"

	apperrors "fitr/internal/errors"
)

// MonthOption is an entry of the month picker.
type MonthOption struct {
	Value string     `json:"value"`
	Label string     `json:"label"`
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// RecentMonths lists the n months up to and including today's, newest first.
func RecentMonths(today time.Time, n int) []MonthOption {
	opts := make([]MonthOption, 0, n)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, -i, 0)
		opts = append(opts, MonthOption{
			Value: m.Format(monthValueLayout),
			Label: fmt.Sprintf("%s %d", m.Month(), m.Year()),
			Year:  m.Year(),
			Month: m.Month(),
		})
	}
	return opts
}

const monthValueLayout = "2006-01"

// ParseMonth parses a "YYYY-MM" month value.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(monthValueLayout, s)
	if err != nil {
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidWindow, fmt.Sprintf("invalid month %q, expected YYYY-MM", s))
	}
	return t.Year(), t.Month(), nil
}
