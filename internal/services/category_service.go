package services

import (
	"context"
	"errors"
	"strings"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/logger"
	"fitr/internal/models"
	"fitr/internal/session"
)

// categoryService handles category-related business logic.
type categoryService struct {
	gw         gateway.Gateway
	workspaces WorkspaceServicer
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(gw gateway.Gateway, workspaces WorkspaceServicer) CategoryServicer {
	return &categoryService{gw: gw, workspaces: workspaces}
}

// ListCategories returns the user's categories, seeding the defaults for a
// user who has none.
func (s *categoryService) ListCategories(ctx context.Context, sess session.Session) ([]models.Category, error) {
	categories, err := ensureDefaultCategories(ctx, s.gw, sess)
	if err != nil {
		return nil, failed("load categories", err)
	}
	return categories, nil
}

// CreateCategory adds a category and reloads the workspace.
func (s *categoryService) CreateCategory(ctx context.Context, sess session.Session, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrEmptyCategoryName
	}

	category, err := s.gw.CreateCategory(ctx, sess, name)
	if err != nil {
		return nil, failed("add category", err)
	}

	if _, err := s.workspaces.Reload(ctx, sess); err != nil {
		logger.Get().Warnw("Failed to reload workspace after adding category", "user_id", sess.UserID, "error", err)
	}
	return category, nil
}

// ensureDefaultCategories lists the user's categories and, when there are
// none, inserts models.DefaultCategoryNames. Names that already exist are
// skipped silently, so concurrent first logins converge.
func ensureDefaultCategories(ctx context.Context, gw gateway.Gateway, sess session.Session) ([]models.Category, error) {
	categories, err := gw.ListCategories(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return categories, nil
	}

	for _, name := range models.DefaultCategoryNames {
		if _, err := gw.CreateCategory(ctx, sess, name); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateCategory) {
				continue
			}
			return nil, err
		}
	}
	logger.Get().Infow("Seeded default categories", "user_id", sess.UserID)

	return gw.ListCategories(ctx, sess)
}
