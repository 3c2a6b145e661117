package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fitr/internal/gateway"
	"fitr/internal/gateway/store"
	"fitr/internal/models"
	"fitr/internal/session"
	"fitr/internal/testutil"
)

// faultyGateway wraps a real gateway and fails the calls named in failOn.
type faultyGateway struct {
	gateway.Gateway
	failOn map[string]error
	calls  map[string]*atomic.Int32
}

func newFaultyGateway(inner gateway.Gateway) *faultyGateway {
	calls := make(map[string]*atomic.Int32)
	for _, name := range []string{"ListCategories", "CreateCategory", "ListExpenses", "CreateExpense", "DeleteExpense", "GetBudget", "UpsertBudget", "CreateFeedback"} {
		calls[name] = &atomic.Int32{}
	}
	return &faultyGateway{Gateway: inner, failOn: map[string]error{}, calls: calls}
}

func (g *faultyGateway) hit(name string) error {
	g.calls[name].Add(1)
	return g.failOn[name]
}

func (g *faultyGateway) count(name string) int {
	return int(g.calls[name].Load())
}

func (g *faultyGateway) ListCategories(ctx context.Context, sess session.Session) ([]models.Category, error) {
	if err := g.hit("ListCategories"); err != nil {
		return nil, err
	}
	return g.Gateway.ListCategories(ctx, sess)
}

func (g *faultyGateway) CreateCategory(ctx context.Context, sess session.Session, name string) (*models.Category, error) {
	if err := g.hit("CreateCategory"); err != nil {
		return nil, err
	}
	return g.Gateway.CreateCategory(ctx, sess, name)
}

func (g *faultyGateway) ListExpenses(ctx context.Context, sess session.Session) ([]models.Expense, error) {
	if err := g.hit("ListExpenses"); err != nil {
		return nil, err
	}
	return g.Gateway.ListExpenses(ctx, sess)
}

func (g *faultyGateway) CreateExpense(ctx context.Context, sess session.Session, in gateway.NewExpense) (*models.Expense, error) {
	if err := g.hit("CreateExpense"); err != nil {
		return nil, err
	}
	return g.Gateway.CreateExpense(ctx, sess, in)
}

func (g *faultyGateway) DeleteExpense(ctx context.Context, sess session.Session, id string) error {
	if err := g.hit("DeleteExpense"); err != nil {
		return err
	}
	return g.Gateway.DeleteExpense(ctx, sess, id)
}

func (g *faultyGateway) GetBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod) (*models.Budget, error) {
	if err := g.hit("GetBudget"); err != nil {
		return nil, err
	}
	return g.Gateway.GetBudget(ctx, sess, period)
}

func (g *faultyGateway) UpsertBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error) {
	if err := g.hit("UpsertBudget"); err != nil {
		return nil, err
	}
	return g.Gateway.UpsertBudget(ctx, sess, period, amount)
}

func (g *faultyGateway) CreateFeedback(ctx context.Context, sess session.Session, message string, rating int) (*models.Feedback, error) {
	if err := g.hit("CreateFeedback"); err != nil {
		return nil, err
	}
	return g.Gateway.CreateFeedback(ctx, sess, message, rating)
}

type testEnv struct {
	db         *gorm.DB
	gw         *faultyGateway
	workspaces WorkspaceServicer
	user       *models.User
	sess       session.Session
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	gw := newFaultyGateway(store.New(db))
	user := testutil.CreateTestUser(t, db)
	return &testEnv{
		db:         db,
		gw:         gw,
		workspaces: NewWorkspaceService(gw),
		user:       user,
		sess:       testutil.TestSession(user),
	}
}
