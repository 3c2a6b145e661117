// Package store implements the data gateway on top of GORM for self-hosted
// deployments and tests. Every query is scoped by the session's user id.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/models"
	"fitr/internal/session"
)

// Store is a gateway.Gateway backed by a relational database.
type Store struct {
	db *gorm.DB
}

// New creates a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ gateway.Gateway = (*Store)(nil)

// ListCategories returns the user's categories ordered by name.
func (s *Store) ListCategories(ctx context.Context, sess session.Session) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", sess.UserID).
		Order("name").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return categories, nil
}

// CreateCategory inserts a category, reporting name clashes as duplicates.
func (s *Store) CreateCategory(ctx context.Context, sess session.Session, name string) (*models.Category, error) {
	category := &models.Category{UserID: sess.UserID, Name: name}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Wrap(apperrors.ErrDuplicateCategory, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return category, nil
}

// ListExpenses returns the user's expenses with their categories, newest first.
func (s *Store) ListExpenses(ctx context.Context, sess session.Session) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.WithContext(ctx).
		Preload("Category", "user_id = ?", sess.UserID).
		Where("user_id = ?", sess.UserID).
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return expenses, nil
}

// CreateExpense inserts an expense and returns it joined with its category.
func (s *Store) CreateExpense(ctx context.Context, sess session.Session, in gateway.NewExpense) (*models.Expense, error) {
	expense := &models.Expense{
		UserID:      sess.UserID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Description: in.Description,
	}
	db := s.db.WithContext(ctx)
	if err := db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}

	var category models.Category
	err := db.Where("id = ? AND user_id = ?", in.CategoryID, sess.UserID).First(&category).Error
	switch {
	case err == nil:
		expense.Category = &category
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return expense, nil
}

// DeleteExpense removes the user's expense with id.
func (s *Store) DeleteExpense(ctx context.Context, sess session.Session, id string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, sess.UserID).
		Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrGateway, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// GetBudget returns the budget for period, or nil when none is set.
func (s *Store) GetBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND period = ?", sess.UserID, period).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return &budget, nil
}

// UpsertBudget sets the amount for period, replacing any existing row.
func (s *Store) UpsertBudget(ctx context.Context, sess session.Session, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error) {
	budget := &models.Budget{UserID: sess.UserID, Period: period, Amount: amount}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "period"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount"}),
		}).
		Create(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}

	// On conflict the generated id is discarded, so read back the stored row.
	stored, err := s.GetBudget(ctx, sess, period)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, apperrors.WithMessage(apperrors.ErrGateway, "budget missing after upsert")
	}
	return stored, nil
}

// CreateFeedback appends a feedback entry.
func (s *Store) CreateFeedback(ctx context.Context, sess session.Session, message string, rating int) (*models.Feedback, error) {
	feedback := &models.Feedback{UserID: sess.UserID, Message: message, Rating: rating}
	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return feedback, nil
}

// isDuplicate recognises unique violations, including drivers that do not
// translate them to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
