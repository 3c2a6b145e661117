package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fitr/internal/gateway"
	"fitr/internal/logger"
	"fitr/internal/models"
	"fitr/internal/session"
)

// workspaceService holds one Workspace per signed-in user in memory.
type workspaceService struct {
	gw  gateway.Gateway
	now func() time.Time

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

// NewWorkspaceService creates a new WorkspaceServicer.
func NewWorkspaceService(gw gateway.Gateway) WorkspaceServicer {
	return &workspaceService{
		gw:         gw,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Load fetches the user's categories, expenses and both budgets concurrently.
// When two loads overlap, whichever finishes last wins.
func (s *workspaceService) Load(ctx context.Context, sess session.Session) (*Workspace, error) {
	ws := &Workspace{Budgets: make(map[models.BudgetPeriod]*models.Budget, 2)}
	var daily, monthly *models.Budget

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories, err := ensureDefaultCategories(gctx, s.gw, sess)
		if err != nil {
			return failed("load categories", err)
		}
		ws.Categories = categories
		return nil
	})
	g.Go(func() error {
		expenses, err := s.gw.ListExpenses(gctx, sess)
		if err != nil {
			return failed("load expenses", err)
		}
		ws.Expenses = expenses
		return nil
	})
	g.Go(func() error {
		b, err := s.gw.GetBudget(gctx, sess, models.BudgetPeriodDaily)
		if err != nil {
			return failed("load budget", err)
		}
		daily = b
		return nil
	})
	g.Go(func() error {
		b, err := s.gw.GetBudget(gctx, sess, models.BudgetPeriodMonthly)
		if err != nil {
			return failed("load budget", err)
		}
		monthly = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if daily != nil {
		ws.Budgets[models.BudgetPeriodDaily] = daily
	}
	if monthly != nil {
		ws.Budgets[models.BudgetPeriodMonthly] = monthly
	}
	if ws.Expenses == nil {
		ws.Expenses = []models.Expense{}
	}
	ws.LoadedAt = s.now()

	s.mu.Lock()
	s.workspaces[sess.UserID] = ws
	s.mu.Unlock()

	logger.ForUser(sess.UserID).Debugw("Workspace loaded",
		"categories", len(ws.Categories),
		"expenses", len(ws.Expenses),
	)
	return ws, nil
}

// Get returns the stored workspace, loading it on first use.
func (s *workspaceService) Get(ctx context.Context, sess session.Session) (*Workspace, error) {
	s.mu.RLock()
	ws, ok := s.workspaces[sess.UserID]
	s.mu.RUnlock()
	if ok {
		return ws, nil
	}
	return s.Load(ctx, sess)
}

// Reload refetches the workspace. On failure the stale copy is dropped so
// the next Get starts fresh.
func (s *workspaceService) Reload(ctx context.Context, sess session.Session) (*Workspace, error) {
	ws, err := s.Load(ctx, sess)
	if err != nil {
		s.Discard(sess.UserID)
		return nil, err
	}
	return ws, nil
}

// Discard forgets the user's workspace.
func (s *workspaceService) Discard(userID string) {
	s.mu.Lock()
	delete(s.workspaces, userID)
	s.mu.Unlock()
}

// WatchSessions loads a workspace on sign-in and discards it on sign-out.
// It returns the function that stops watching.
func WatchSessions(broker *session.Broker, workspaces WorkspaceServicer, timeout time.Duration) func() {
	return broker.Subscribe(func(ev session.Event) {
		switch ev.Type {
		case session.SignedIn:
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if _, err := workspaces.Load(ctx, ev.Session); err != nil {
				logger.ForUser(ev.Session.UserID).Warnw("Failed to load workspace after sign-in", "error", err)
			}
		case session.SignedOut:
			workspaces.Discard(ev.Session.UserID)
		}
	})
}
