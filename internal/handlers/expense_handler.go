package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fitr/internal/aggregation"
	"fitr/internal/models"
	"fitr/internal/pagination"
	"fitr/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the add-expense form. Amount, category
// and description are checked by the service so each gets its own message.
type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	CategoryID  string          `json:"category_id"`
	Description string          `json:"description" binding:"max=500"`
}

// RecordsQuery holds the records filters.
type RecordsQuery struct {
	Month      string `form:"month" binding:"omitempty,year_month"`
	CategoryID string `form:"category_id" binding:"max=64"`
}

// ExpenseListResponse is the reloaded expense list returned after a mutation.
type ExpenseListResponse struct {
	Expense  *models.Expense  `json:"expense,omitempty"`
	Expenses []models.Expense `json:"expenses"`
}

// CreateExpense handles adding an expense
// @Summary     Add an expense
// @Description Add an expense and return it with the reloaded expense list
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} ExpenseListResponse "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid amount, category or description"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Failed to add expense"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	expense, err := h.expenseService.CreateExpense(ctx, sess, services.CreateExpenseInput{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.ListExpenses(ctx, sess)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ExpenseListResponse{Expense: expense, Expenses: expenses})
}

// DeleteExpense handles removing an expense
// @Summary     Delete an expense
// @Description Delete an expense and return the reloaded expense list
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseListResponse "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     502 {object} ErrorResponse "Failed to delete expense"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.expenseService.DeleteExpense(ctx, sess, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.ListExpenses(ctx, sess)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpenseListResponse{Expenses: expenses})
}

// GetExpenses handles the records view
// @Summary     List expense records
// @Description Get the user's expenses newest first, optionally for one month and one category
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       month       query string false "Month as YYYY-MM"
// @Param       category_id query string false "Category ID, or 'uncategorized'"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Failed to load expenses"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var q RecordsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter := services.RecordsFilter{CategoryID: q.CategoryID}
	if q.Month != "" {
		year, month, err := aggregation.ParseMonth(q.Month)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.Year, filter.Month = year, month
	}

	result, err := h.expenseService.ListRecords(c.Request.Context(), sess, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
