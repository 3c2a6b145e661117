package aggregation

import (
	"time"

	"github.com/shopspring/decimal"

	"fitr/internal/models"
)

// View is the complete derived view for one window.
type View struct {
	Window     Window           `json:"window"`
	Label      string           `json:"label"`
	Expenses   []models.Expense `json:"expenses"`
	Daily      []DailyPoint     `json:"daily"`
	Categories []CategoryTotal  `json:"categories"`
	Summary    Summary          `json:"summary"`
	// ProgressFill is the clamped progress bar width.
	ProgressFill float64 `json:"progress_fill"`
}

// Build resolves sel against today and derives every view over expenses.
func Build(expenses []models.Expense, categories []models.Category, sel Selection, budget decimal.Decimal, today time.Time) (View, error) {
	w, err := Resolve(sel, today)
	if err != nil {
		return View{}, err
	}

	filtered := Filter(expenses, w)
	summary := Summarize(filtered, budget)
	totals := CategoryTotals(filtered, categories)
	for i := range totals {
		totals[i].Share = CategoryShare(totals[i].Total, summary.TotalSpent)
	}

	return View{
		Window:       w,
		Label:        w.Label(),
		Expenses:     filtered,
		Daily:        DailySeries(filtered, w),
		Categories:   totals,
		Summary:      summary,
		ProgressFill: summary.ProgressFill(),
	}, nil
}
