package services

import (
	"context"

	"github.com/shopspring/decimal"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/logger"
	"fitr/internal/models"
	"fitr/internal/session"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	gw         gateway.Gateway
	workspaces WorkspaceServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(gw gateway.Gateway, workspaces WorkspaceServicer) BudgetServicer {
	return &budgetService{gw: gw, workspaces: workspaces}
}

// GetBudget returns the loaded budget for period, or nil when none is set.
func (s *budgetService) GetBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod) (*models.Budget, error) {
	if !period.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}
	ws, err := s.workspaces.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	return ws.Budget(period), nil
}

// SetBudget replaces the budget for period and reloads the workspace.
func (s *budgetService) SetBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error) {
	if !period.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}
	if !models.ValidAmount(amount) {
		return nil, apperrors.ErrInvalidAmount
	}

	budget, err := s.gw.UpsertBudget(ctx, sess, period, amount)
	if err != nil {
		return nil, failed("update budget", err)
	}

	ws, err := s.workspaces.Reload(ctx, sess)
	if err != nil {
		logger.ForUser(sess.UserID).Warnw("Failed to reload workspace after budget update", "error", err)
		return budget, nil
	}
	if reloaded := ws.Budget(period); reloaded != nil {
		return reloaded, nil
	}
	return budget, nil
}
