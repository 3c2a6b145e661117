package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fitr/internal/models"
	"fitr/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetQuery selects the budget period; monthly when omitted.
type BudgetQuery struct {
	Period models.BudgetPeriod `form:"period" binding:"omitempty,budget_period"`
}

// SetBudgetRequest represents the request payload for setting a budget.
type SetBudgetRequest struct {
	Period models.BudgetPeriod `json:"period" binding:"required,budget_period"`
	Amount decimal.Decimal     `json:"amount" swaggertype:"number"`
}

// BudgetResponse wraps a budget that may not be set.
type BudgetResponse struct {
	Budget *models.Budget `json:"budget"`
}

// GetBudget handles reading the budget for a period.
// @Summary     Get budget
// @Description Get the budget for a period; budget is null when none is set
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "daily or monthly (default monthly)"
// @Success     200 {object} BudgetResponse "Budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Failed to load budget"
// @Router      /budget [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q BudgetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if q.Period == "" {
		q.Period = models.BudgetPeriodMonthly
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), sess, q.Period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Budget: budget})
}

// SetBudget handles creating or replacing the budget for a period.
// @Summary     Set budget
// @Description Create or replace the budget for a period and return the reloaded budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBudgetRequest true "Budget details"
// @Success     200 {object} BudgetResponse "Budget set"
// @Failure     400 {object} ErrorResponse "Invalid amount or period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Failed to update budget"
// @Router      /budget [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.budgetService.SetBudget(c.Request.Context(), sess, req.Period, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Budget: budget})
}
