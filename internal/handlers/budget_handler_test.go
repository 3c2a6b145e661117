package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fitr/internal/errors"
	"fitr/internal/models"
	"fitr/internal/services"
	"fitr/internal/session"
)

type mockBudgetService struct {
	getBudgetFn func(sess session.Session, period models.BudgetPeriod) (*models.Budget, error)
	setBudgetFn func(sess session.Session, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error)
}

func (m *mockBudgetService) GetBudget(_ context.Context, sess session.Session, period models.BudgetPeriod) (*models.Budget, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(sess, period)
	}
	return nil, nil
}

func (m *mockBudgetService) SetBudget(_ context.Context, sess session.Session, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error) {
	if m.setBudgetFn != nil {
		return m.setBudgetFn(sess, period, amount)
	}
	return &models.Budget{UserID: sess.UserID, Period: period, Amount: amount}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectSession(testSession))
	auth.GET("/budget", handler.GetBudget)
	auth.PUT("/budget", handler.SetBudget)
	return r
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("defaults to monthly and returns null when unset", func(t *testing.T) {
		var period models.BudgetPeriod
		svc := &mockBudgetService{
			getBudgetFn: func(_ session.Session, p models.BudgetPeriod) (*models.Budget, error) {
				period = p
				return nil, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "GET", "/budget", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if period != models.BudgetPeriodMonthly {
			t.Errorf("expected monthly, got %q", period)
		}
		result := parseJSON(t, rec)
		if v, ok := result["budget"]; !ok || v != nil {
			t.Errorf("expected budget null, got %v", result)
		}
	})

	t.Run("returns 400 on unknown period", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "GET", "/budget?period=yearly", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestBudgetHandler_SetBudget(t *testing.T) {
	t.Run("returns 200 with budget", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "PUT", "/budget", `{"period":"daily","amount":25}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if budget["period"] != "daily" || budget["amount"].(float64) != 25 {
			t.Errorf("unexpected budget %v", budget)
		}
	})

	t.Run("returns 400 on missing period", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}))

		rec := doRequest(r, "PUT", "/budget", `{"amount":25}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		svc := &mockBudgetService{
			setBudgetFn: func(session.Session, models.BudgetPeriod, decimal.Decimal) (*models.Budget, error) {
				return nil, apperrors.ErrInvalidAmount
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc))

		rec := doRequest(r, "PUT", "/budget", `{"period":"monthly","amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT")
	})
}
