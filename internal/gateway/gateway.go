// Package gateway defines the data and authentication contracts FiTr
// consumes from its backend. Every call takes the caller's session
// explicitly; implementations scope rows to Session.UserID.
package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fitr/internal/models"
	"fitr/internal/session"
)

// NewExpense carries the fields of an expense to insert.
type NewExpense struct {
	CategoryID  string
	Amount      decimal.Decimal
	Description string
}

// Gateway is the typed CRUD surface over categories, expenses, budgets
// and feedback.
type Gateway interface {
	ListCategories(ctx context.Context, sess session.Session) ([]models.Category, error)
	// CreateCategory returns apperrors.ErrDuplicateCategory when the user
	// already has a category with that name.
	CreateCategory(ctx context.Context, sess session.Session, name string) (*models.Category, error)

	// ListExpenses returns every expense of the user joined with its
	// category, newest first.
	ListExpenses(ctx context.Context, sess session.Session) ([]models.Expense, error)
	CreateExpense(ctx context.Context, sess session.Session, in NewExpense) (*models.Expense, error)
	// DeleteExpense returns apperrors.ErrExpenseNotFound when nothing was removed.
	DeleteExpense(ctx context.Context, sess session.Session, id string) error

	// GetBudget returns nil, nil when no budget is set for the period.
	GetBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod) (*models.Budget, error)
	UpsertBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error)

	CreateFeedback(ctx context.Context, sess session.Session, message string, rating int) (*models.Feedback, error)
}

// SignUpResult reports the outcome of a registration. Session is nil when
// the provider requires email confirmation first.
type SignUpResult struct {
	Email                string           `json:"email"`
	Session              *session.Session `json:"session,omitempty"`
	ConfirmationRequired bool             `json:"confirmation_required"`
}

// Authenticator issues, refreshes and validates sessions.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error)
	// SignInWithOAuth returns the URL the browser should visit to start the
	// provider's authorization flow.
	SignInWithOAuth(ctx context.Context, provider string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (*session.Session, error)
	// Verify resolves an access token to its session. Invalid or expired
	// tokens yield apperrors.ErrUnauthorized.
	Verify(ctx context.Context, accessToken string) (*session.Session, error)
	SignOut(ctx context.Context, sess session.Session) error
}

// ProviderError is an authentication failure reported by the provider.
// Message is the provider's own text; callers map it to user-facing copy.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth provider: %s (%s)", e.Message, e.Code)
	}
	return "auth provider: " + e.Message
}
