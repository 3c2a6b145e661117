// Package report renders the downloadable PDF spending report.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"fitr/internal/aggregation"
	"fitr/internal/models"
)

// Header colour of every table (#fca311).
var headerFill = [3]int{252, 163, 17}

const (
	pageMargin = 14.0
	rowHeight  = 7.0
	dateLayout = "2006-01-02"
)

// Filename is the attachment name for a report generated on today.
func Filename(today time.Time) string {
	return fmt.Sprintf("financial-report-%s.pdf", today.Format(dateLayout))
}

// FormatAmount renders an amount with two decimals and thousands
// separators, e.g. 1,234.50.
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return humanize.FormatFloat("#,###.##", f)
}

// Render writes the report for view to w. categories resolves the category
// name shown on each expense row.
func Render(w io.Writer, view aggregation.View, categories []models.Category) error {
	return render(w, view, categories, true)
}

func render(w io.Writer, view aggregation.View, categories []models.Category, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle("Financial Report", true)
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentWidth, 10, "Financial Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(contentWidth, 8, tr("Report for "+view.Label), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	summary := view.Summary
	section(pdf, "Budget Overview")
	table(pdf, tr, []column{{"Item", 0.6, "L"}, {"Value", 0.4, "R"}}, contentWidth, [][]string{
		{"Total Budget", FormatAmount(summary.Budget)},
		{"Total Expenses", FormatAmount(summary.TotalSpent)},
		{"Remaining", FormatAmount(summary.Remaining)},
		{"Budget Used %", summary.PercentUsed.String()},
	})

	section(pdf, "Expense Details")
	expenses := make([]models.Expense, len(view.Expenses))
	copy(expenses, view.Expenses)
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	detailCols := []column{{"Date", 0.18, "L"}, {"Category", 0.24, "L"}, {"Description", 0.38, "L"}, {"Amount", 0.20, "R"}}
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.CreatedAt.In(view.Window.Start.Location()).Format(dateLayout),
			aggregation.CategoryName(e, categories),
			e.Description,
			FormatAmount(e.Amount),
		})
	}
	table(pdf, tr, detailCols, contentWidth, rows)

	section(pdf, "Category Summary")
	rows = make([][]string, 0, len(view.Categories))
	for _, c := range view.Categories {
		rows = append(rows, []string{c.Name, FormatAmount(c.Total), c.Share.String()})
	}
	table(pdf, tr, []column{{"Category", 0.5, "L"}, {"Amount", 0.25, "R"}, {"Percentage", 0.25, "R"}}, contentWidth, rows)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("building report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

type column struct {
	title string
	// width is a fraction of the content width.
	width float64
	align string
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
}

func table(pdf *fpdf.Fpdf, tr func(string) string, cols []column, contentWidth float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		pdf.CellFormat(c.width*contentWidth, rowHeight, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for i, c := range cols {
			w := c.width * contentWidth
			pdf.CellFormat(w, rowHeight, fit(pdf, tr(row[i]), w-2), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

// fit truncates s with an ellipsis so it fits in width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
