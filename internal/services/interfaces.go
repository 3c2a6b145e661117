package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fitr/internal/aggregation"
	"fitr/internal/gateway"
	"fitr/internal/models"
	"fitr/internal/pagination"
	"fitr/internal/session"
)

// Workspace is the loaded state of one signed-in user. A Workspace is
// never modified after it is stored; reloads replace it.
type Workspace struct {
	Categories []models.Category
	Expenses   []models.Expense
	Budgets    map[models.BudgetPeriod]*models.Budget
	LoadedAt   time.Time
}

// Budget returns the budget for period, or nil when none is set.
func (w *Workspace) Budget(period models.BudgetPeriod) *models.Budget {
	return w.Budgets[period]
}

// HasCategory reports whether id is one of the loaded categories.
func (w *Workspace) HasCategory(id string) bool {
	for _, c := range w.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// WorkspaceServicer keeps per-session state loaded from the gateway.
type WorkspaceServicer interface {
	// Load fetches categories (seeding defaults), expenses and budgets and
	// stores the result for the session's user.
	Load(ctx context.Context, sess session.Session) (*Workspace, error)
	// Get returns the stored workspace, loading it on first use.
	Get(ctx context.Context, sess session.Session) (*Workspace, error)
	// Reload refetches everything after a mutation.
	Reload(ctx context.Context, sess session.Session) (*Workspace, error)
	Discard(userID string)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(ctx context.Context, sess session.Session) ([]models.Category, error)
	CreateCategory(ctx context.Context, sess session.Session, name string) (*models.Category, error)
}

// CreateExpenseInput holds the fields of the add-expense form.
type CreateExpenseInput struct {
	Amount      decimal.Decimal
	CategoryID  string
	Description string
}

// RecordsFilter narrows the expense records list. Zero values mean no filter.
type RecordsFilter struct {
	Year  int
	Month time.Month
	// CategoryID may be UncategorizedFilter to select expenses whose
	// category no longer exists.
	CategoryID string
}

// UncategorizedFilter selects expenses without a resolvable category.
const UncategorizedFilter = "uncategorized"

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, sess session.Session, in CreateExpenseInput) (*models.Expense, error)
	DeleteExpense(ctx context.Context, sess session.Session, id string) error
	ListExpenses(ctx context.Context, sess session.Session) ([]models.Expense, error)
	ListRecords(ctx context.Context, sess session.Session, filter RecordsFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	GetBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod) (*models.Budget, error)
	SetBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error)
}

// FeedbackServicer defines the contract for feedback submission.
type FeedbackServicer interface {
	Submit(ctx context.Context, sess session.Session, message string, rating int) (*models.Feedback, error)
}

// DashboardQuery selects the window and the budget the dashboard compares against.
type DashboardQuery struct {
	Selection aggregation.Selection
	Period    models.BudgetPeriod
}

// Report is a rendered PDF ready for download.
type Report struct {
	Filename string
	Content  []byte
}

// DashboardServicer derives the dashboard views and the PDF report.
type DashboardServicer interface {
	View(ctx context.Context, sess session.Session, q DashboardQuery) (*aggregation.View, error)
	Report(ctx context.Context, sess session.Session, q DashboardQuery) (*Report, error)
	Months() []aggregation.MonthOption
}

// AuthServicer defines the contract for sign-up, sign-in and session handling.
type AuthServicer interface {
	SignUp(ctx context.Context, email, password string) (*gateway.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	OAuthURL(ctx context.Context, provider string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (*session.Session, error)
	// Authenticate resolves a bearer token for the session middleware.
	Authenticate(ctx context.Context, accessToken string) (*session.Session, error)
	SignOut(ctx context.Context, sess session.Session) error
}
