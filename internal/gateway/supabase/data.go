package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/models"
	"fitr/internal/session"
)

const (
	preferRepresentation = "return=representation"
	preferUpsert         = "resolution=merge-duplicates,return=representation"

	// uniqueViolation is the Postgres SQLSTATE for duplicate keys.
	uniqueViolation = "23505"

	expenseSelect = "*,categories(id,name)"
)

var _ gateway.Gateway = (*Client)(nil)

// ListCategories returns the user's categories ordered by name.
func (c *Client) ListCategories(ctx context.Context, sess session.Session) ([]models.Category, error) {
	var categories []models.Category
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/categories",
		query:  url.Values{"select": {"*"}, "user_id": {"eq." + sess.UserID}, "order": {"name.asc"}},
		token:  sess.AccessToken,
	}, &categories)
	if err != nil {
		return nil, dataError(err)
	}
	return categories, nil
}

// CreateCategory inserts a category.
func (c *Client) CreateCategory(ctx context.Context, sess session.Session, name string) (*models.Category, error) {
	var rows []models.Category
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/categories",
		token:  sess.AccessToken,
		body:   map[string]string{"user_id": sess.UserID, "name": name},
		prefer: preferRepresentation,
	}, &rows)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.Code == uniqueViolation || se.Status == http.StatusConflict) {
			return nil, apperrors.Wrap(apperrors.ErrDuplicateCategory, err)
		}
		return nil, dataError(err)
	}
	return first(rows)
}

// ListExpenses returns the user's expenses joined with their category, newest first.
func (c *Client) ListExpenses(ctx context.Context, sess session.Session) ([]models.Expense, error) {
	var expenses []models.Expense
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/expenses",
		query:  url.Values{"select": {expenseSelect}, "user_id": {"eq." + sess.UserID}, "order": {"created_at.desc"}},
		token:  sess.AccessToken,
	}, &expenses)
	if err != nil {
		return nil, dataError(err)
	}
	return expenses, nil
}

type expenseRow struct {
	UserID      string          `json:"user_id"`
	CategoryID  string          `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// CreateExpense inserts an expense and returns it joined with its category.
func (c *Client) CreateExpense(ctx context.Context, sess session.Session, in gateway.NewExpense) (*models.Expense, error) {
	var rows []models.Expense
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/expenses",
		query:  url.Values{"select": {expenseSelect}},
		token:  sess.AccessToken,
		body: expenseRow{
			UserID:      sess.UserID,
			CategoryID:  in.CategoryID,
			Amount:      in.Amount,
			Description: in.Description,
		},
		prefer: preferRepresentation,
	}, &rows)
	if err != nil {
		return nil, dataError(err)
	}
	return first(rows)
}

// DeleteExpense removes an expense. Row-level security hides other users'
// rows, so deleting one of those reports not found as well.
func (c *Client) DeleteExpense(ctx context.Context, sess session.Session, id string) error {
	var deleted []struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/rest/v1/expenses",
		query:  url.Values{"id": {"eq." + id}, "user_id": {"eq." + sess.UserID}, "select": {"id"}},
		token:  sess.AccessToken,
		prefer: preferRepresentation,
	}, &deleted)
	if err != nil {
		return dataError(err)
	}
	if len(deleted) == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// GetBudget returns the budget for period, or nil when none is set.
func (c *Client) GetBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod) (*models.Budget, error) {
	var rows []models.Budget
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/budgets",
		query: url.Values{
			"select":  {"*"},
			"user_id": {"eq." + sess.UserID},
			"period":  {"eq." + string(period)},
			"limit":   {"1"},
		},
		token: sess.AccessToken,
	}, &rows)
	if err != nil {
		return nil, dataError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// UpsertBudget sets the amount for period, merging on (user_id, period).
func (c *Client) UpsertBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error) {
	var rows []models.Budget
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/budgets",
		query:  url.Values{"on_conflict": {"user_id,period"}},
		token:  sess.AccessToken,
		body: struct {
			UserID string              `json:"user_id"`
			Period models.BudgetPeriod `json:"period"`
			Amount decimal.Decimal     `json:"amount"`
		}{sess.UserID, period, amount},
		prefer: preferUpsert,
	}, &rows)
	if err != nil {
		return nil, dataError(err)
	}
	return first(rows)
}

// CreateFeedback appends a feedback entry.
func (c *Client) CreateFeedback(ctx context.Context, sess session.Session, message string, rating int) (*models.Feedback, error) {
	var rows []models.Feedback
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/feedback",
		token:  sess.AccessToken,
		body: struct {
			UserID  string `json:"user_id"`
			Message string `json:"message"`
			Rating  int    `json:"rating"`
		}{sess.UserID, message, rating},
		prefer: preferRepresentation,
	}, &rows)
	if err != nil {
		return nil, dataError(err)
	}
	return first(rows)
}

func first[T any](rows []T) (*T, error) {
	if len(rows) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrGateway, "backend returned no rows")
	}
	return &rows[0], nil
}

// dataError classifies a failed table call.
func dataError(err error) error {
	var se *statusError
	if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
		return apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}
	return apperrors.Wrap(apperrors.ErrGateway, err)
}
