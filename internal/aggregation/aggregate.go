package aggregation

import (
	"time"

	"github.com/shopspring/decimal"

	"fitr/internal/models"
)

// Filter returns the expenses created on a day inside w, in input order.
func Filter(expenses []models.Expense, w Window) []models.Expense {
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if w.Contains(e.CreatedAt) {
			out = append(out, e)
		}
	}
	return out
}

// DailyPoint is one day of the spending series.
type DailyPoint struct {
	Date   time.Time       `json:"date"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// DailySeries sums expenses per calendar day of w. Every day of the window
// gets a point, zero when nothing was spent; expenses outside w are ignored.
// Amounts are rounded to cents.
func DailySeries(expenses []models.Expense, w Window) []DailyPoint {
	n := w.Days()
	if n == 0 {
		return []DailyPoint{}
	}

	sums := make(map[string]decimal.Decimal, n)
	for _, e := range expenses {
		if !w.Contains(e.CreatedAt) {
			continue
		}
		key := w.dateOf(e.CreatedAt).Format(time.DateOnly)
		sums[key] = sums[key].Add(e.Amount)
	}

	loc := w.Start.Location()
	first := civil(w.Start)
	points := make([]DailyPoint, 0, n)
	for i := 0; i < n; i++ {
		d := first.AddDate(0, 0, i)
		y, m, dd := d.Date()
		points = append(points, DailyPoint{
			Date:   dayStart(y, m, dd, loc),
			Label:  d.Format(dayLabelLayout),
			Amount: sums[d.Format(time.DateOnly)].Round(2),
		})
	}
	return points
}

// CategoryTotal is the spending of one category.
type CategoryTotal struct {
	// CategoryID is empty for the fallback group.
	CategoryID string          `json:"category_id,omitempty"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
	Share      Percent         `json:"share"`
}

// CategoryTotals groups expenses by category in first-seen order. Expenses
// whose category is not in categories share one group named
// models.FallbackCategoryName. Totals are not rounded.
func CategoryTotals(expenses []models.Expense, categories []models.Category) []CategoryTotal {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	index := make(map[string]int)
	totals := []CategoryTotal{}
	for _, e := range expenses {
		key, name := "", models.FallbackCategoryName
		if n, ok := names[e.CategoryID]; ok {
			key, name = e.CategoryID, n
		}
		i, seen := index[key]
		if !seen {
			i = len(totals)
			index[key] = i
			totals = append(totals, CategoryTotal{CategoryID: key, Name: name})
		}
		totals[i].Total = totals[i].Total.Add(e.Amount)
	}
	return totals
}

// CategoryName resolves an expense's display name the same way
// CategoryTotals does.
func CategoryName(e models.Expense, categories []models.Category) string {
	for _, c := range categories {
		if c.ID == e.CategoryID {
			return c.Name
		}
	}
	return models.FallbackCategoryName
}

// CategoryShare is a category's percentage of total spending, undefined
// when nothing was spent.
func CategoryShare(categoryTotal, totalSpent decimal.Decimal) Percent {
	return PercentOf(categoryTotal, totalSpent)
}

// Summary compares spending against the budget.
type Summary struct {
	Budget     decimal.Decimal `json:"budget"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	// Remaining goes negative when over budget.
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed Percent         `json:"percent_used"`
}

// Summarize totals expenses against budget.
func Summarize(expenses []models.Expense, budget decimal.Decimal) Summary {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return Summary{
		Budget:      budget,
		TotalSpent:  total,
		Remaining:   budget.Sub(total),
		PercentUsed: PercentOf(total, budget),
	}
}

// ProgressFill is the progress bar fill in [0, 100]; 0 when the percentage
// is undefined.
func (s Summary) ProgressFill() float64 {
	v, ok := s.PercentUsed.Value()
	if !ok {
		return 0
	}
	f, _ := decimal.Min(decimal.Max(v, decimal.Zero), hundred).Float64()
	return f
}
