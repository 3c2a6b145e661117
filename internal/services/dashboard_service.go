package services

import (
	"bytes"
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fitr/internal/aggregation"
	apperrors "fitr/internal/errors"
	"fitr/internal/logger"
	"fitr/internal/models"
	"fitr/internal/report"
	"fitr/internal/session"
)

// monthOptions is how many months the month picker offers.
const monthOptions = 12

// dashboardService derives dashboard views from the loaded workspace.
type dashboardService struct {
	workspaces WorkspaceServicer
	now        func() time.Time
}

// NewDashboardService creates a new DashboardServicer. now supplies "today"
// and its location; nil means time.Now.
func NewDashboardService(workspaces WorkspaceServicer, now func() time.Time) DashboardServicer {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{workspaces: workspaces, now: now}
}

// View builds the derived view for the query. The budget period defaults
// to monthly; a missing budget counts as zero.
func (s *dashboardService) View(ctx context.Context, sess session.Session, q DashboardQuery) (*aggregation.View, error) {
	view, _, err := s.build(ctx, sess, q)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Report renders the PDF for the same view the dashboard shows.
func (s *dashboardService) Report(ctx context.Context, sess session.Session, q DashboardQuery) (*Report, error) {
	view, ws, err := s.build(ctx, sess, q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, *view, ws.Categories); err != nil {
		logger.Get().Errorw("Failed to render report", "user_id", sess.UserID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrReportRenderFailed, err)
	}
	return &Report{Filename: report.Filename(s.now()), Content: buf.Bytes()}, nil
}

// Months lists the month picker options, newest first.
func (s *dashboardService) Months() []aggregation.MonthOption {
	return aggregation.RecentMonths(s.now(), monthOptions)
}

func (s *dashboardService) build(ctx context.Context, sess session.Session, q DashboardQuery) (*aggregation.View, *Workspace, error) {
	period := q.Period
	if period == "" {
		period = models.BudgetPeriodMonthly
	}
	if !period.Valid() {
		return nil, nil, apperrors.ErrInvalidPeriod
	}

	ws, err := s.workspaces.Get(ctx, sess)
	if err != nil {
		return nil, nil, err
	}

	budget := decimal.Zero
	if b := ws.Budget(period); b != nil {
		budget = b.Amount
	}

	view, err := aggregation.Build(ws.Expenses, ws.Categories, q.Selection, budget, s.now())
	if err != nil {
		return nil, nil, err
	}
	return &view, ws, nil
}
