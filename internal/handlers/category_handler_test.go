package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fitr/internal/errors"
	"fitr/internal/models"
	"fitr/internal/services"
	"fitr/internal/session"
)

type mockCategoryService struct {
	listCategoriesFn func(sess session.Session) ([]models.Category, error)
	createCategoryFn func(sess session.Session, name string) (*models.Category, error)
}

func (m *mockCategoryService) ListCategories(_ context.Context, sess session.Session) ([]models.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(sess)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) CreateCategory(_ context.Context, sess session.Session, name string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(sess, name)
	}
	return &models.Category{Name: name}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectSession(testSession))
	auth.GET("/categories", handler.GetCategories)
	auth.POST("/categories", handler.CreateCategory)
	return r
}

func TestCategoryHandler_GetCategories(t *testing.T) {
	t.Run("returns categories of the session user", func(t *testing.T) {
		svc := &mockCategoryService{
			listCategoriesFn: func(sess session.Session) ([]models.Category, error) {
				if sess.UserID != testSession.UserID {
					t.Errorf("expected user %s, got %s", testSession.UserID, sess.UserID)
				}
				return []models.Category{
					{Base: models.Base{ID: "c1"}, UserID: sess.UserID, Name: "Food & Dining"},
					{Base: models.Base{ID: "c2"}, UserID: sess.UserID, Name: "Travel"},
				}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		list := parseJSON(t, rec)["categories"].([]interface{})
		if len(list) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(list))
		}
		if list[0].(map[string]interface{})["name"] != "Food & Dining" {
			t.Errorf("unexpected first category %v", list[0])
		}
	})

	t.Run("returns 502 banner when loading fails", func(t *testing.T) {
		svc := &mockCategoryService{
			listCategoriesFn: func(session.Session) ([]models.Category, error) {
				return nil, apperrors.Failed("load categories", apperrors.ErrGateway)
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "GATEWAY_ERROR")
		if msg := result["error"].(map[string]interface{})["message"]; msg != "Failed to load categories. Please try again." {
			t.Errorf("unexpected message %v", msg)
		}
	})
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/categories", `{"name":"Pets"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		category := parseJSON(t, rec)["category"].(map[string]interface{})
		if category["name"] != "Pets" {
			t.Errorf("expected Pets, got %v", category["name"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "POST", "/categories", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(session.Session, string) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategory
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "POST", "/categories", `{"name":"Travel"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
	})
}
