package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitr/internal/aggregation"
	"fitr/internal/models"
	"fitr/internal/services"
)

const pdfContentType = "application/pdf"

// DashboardHandler serves the derived dashboard and the PDF report.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardRequest selects the window and budget period. A month wins
// over a range; with neither, the last 7 days are shown.
type DashboardRequest struct {
	Range  string              `form:"range" binding:"omitempty,named_range"`
	Month  string              `form:"month" binding:"omitempty,year_month"`
	Period models.BudgetPeriod `form:"period" binding:"omitempty,budget_period"`
}

func (r DashboardRequest) query() (services.DashboardQuery, error) {
	q := services.DashboardQuery{
		Selection: aggregation.Selection{Range: aggregation.NamedRange(r.Range)},
		Period:    r.Period,
	}
	if r.Month != "" {
		year, month, err := aggregation.ParseMonth(r.Month)
		if err != nil {
			return q, err
		}
		q.Selection.Year, q.Selection.Month = year, month
	}
	return q, nil
}

func (h *DashboardHandler) bind(c *gin.Context) (services.DashboardQuery, error) {
	var req DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return services.DashboardQuery{}, bindError(err)
	}
	return req.query()
}

// GetDashboard handles the dashboard view
// @Summary     Dashboard
// @Description Daily series, category totals and budget summary for a window
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       range  query string false "last-7-days or last-30-days"
// @Param       month  query string false "Month as YYYY-MM; takes precedence over range"
// @Param       period query string false "Budget period, daily or monthly (default monthly)"
// @Success     200 {object} aggregation.View "Derived view"
// @Failure     400 {object} ErrorResponse "Invalid window or period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Failed to load data"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	q, err := h.bind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.dashboardService.View(c.Request.Context(), sess, q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetReport handles the PDF download
// @Summary     Download report
// @Description Render the dashboard window as a PDF attachment
// @Tags        dashboard
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       range  query string false "last-7-days or last-30-days"
// @Param       month  query string false "Month as YYYY-MM"
// @Param       period query string false "Budget period, daily or monthly"
// @Success     200 {file} file "PDF report"
// @Failure     400 {object} ErrorResponse "Invalid window or period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Failed to generate report"
// @Router      /dashboard/report [get]
func (h *DashboardHandler) GetReport(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	q, err := h.bind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.dashboardService.Report(c.Request.Context(), sess, q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename))
	c.Data(http.StatusOK, pdfContentType, report.Content)
}

// GetMonths lists the month picker options
// @Summary     Month options
// @Description The last 12 months, newest first
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} aggregation.MonthOption "Months"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard/months [get]
func (h *DashboardHandler) GetMonths(c *gin.Context) {
	if _, err := getSession(c); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": h.dashboardService.Months()})
}
