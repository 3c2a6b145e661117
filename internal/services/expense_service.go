package services

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/logger"
	"fitr/internal/models"
	"fitr/internal/pagination"
	"fitr/internal/session"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	gw         gateway.Gateway
	workspaces WorkspaceServicer
	loc        *time.Location
}

// NewExpenseService creates a new ExpenseServicer. Month filters are
// evaluated in loc; nil means time.Local.
func NewExpenseService(gw gateway.Gateway, workspaces WorkspaceServicer, loc *time.Location) ExpenseServicer {
	if loc == nil {
		loc = time.Local
	}
	return &expenseService{gw: gw, workspaces: workspaces, loc: loc}
}

// CreateExpense validates the form against the loaded categories, inserts
// the expense and reloads the workspace.
func (s *expenseService) CreateExpense(ctx context.Context, sess session.Session, in CreateExpenseInput) (*models.Expense, error) {
	if !models.ValidAmount(in.Amount) {
		return nil, apperrors.ErrInvalidAmount
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperrors.ErrEmptyDescription
	}

	ws, err := s.workspaces.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	if in.CategoryID == "" || !ws.HasCategory(in.CategoryID) {
		return nil, apperrors.ErrInvalidCategory
	}

	expense, err := s.gw.CreateExpense(ctx, sess, gateway.NewExpense{
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Description: description,
	})
	if err != nil {
		return nil, failed("add expense", err)
	}

	s.reload(ctx, sess, "add expense")
	return expense, nil
}

// DeleteExpense removes an expense and reloads the workspace. A missing
// expense is reported as apperrors.ErrExpenseNotFound.
func (s *expenseService) DeleteExpense(ctx context.Context, sess session.Session, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense id is required")
	}

	if err := s.gw.DeleteExpense(ctx, sess, id); err != nil {
		return failed("delete expense", err)
	}

	s.reload(ctx, sess, "delete expense")
	return nil
}

// ListExpenses returns the loaded expenses, newest first.
func (s *expenseService) ListExpenses(ctx context.Context, sess session.Session) ([]models.Expense, error) {
	ws, err := s.workspaces.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	return ws.Expenses, nil
}

// ListRecords filters the loaded expenses by month and category and pages
// through them in reverse chronological order.
func (s *expenseService) ListRecords(ctx context.Context, sess session.Session, filter RecordsFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if (filter.Year != 0 || filter.Month != 0) && (filter.Year < 1 || filter.Month < time.January || filter.Month > time.December) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month filter")
	}

	ws, err := s.workspaces.Get(ctx, sess)
	if err != nil {
		return nil, err
	}

	records := make([]models.Expense, 0, len(ws.Expenses))
	for _, e := range ws.Expenses {
		if filter.Year != 0 {
			created := e.CreatedAt.In(s.loc)
			if created.Year() != filter.Year || created.Month() != filter.Month {
				continue
			}
		}
		switch filter.CategoryID {
		case "":
		case UncategorizedFilter:
			if ws.HasCategory(e.CategoryID) {
				continue
			}
		default:
			if e.CategoryID != filter.CategoryID {
				continue
			}
		}
		records = append(records, e)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	result := pagination.Slice(records, page)
	return &result, nil
}

// reload refreshes the workspace after a successful mutation. The mutation
// stands even if the reload fails; the next read loads again.
func (s *expenseService) reload(ctx context.Context, sess session.Session, action string) {
	if _, err := s.workspaces.Reload(ctx, sess); err != nil {
		logger.ForUser(sess.UserID).Warnw("Failed to reload workspace", "after", action, "error", err)
	}
}
