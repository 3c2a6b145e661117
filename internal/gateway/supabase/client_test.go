package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fitr/internal/gateway"
	"fitr/internal/models"
	"fitr/internal/session"
	"fitr/internal/testutil"
)

var testSession = session.Session{UserID: "user-1", Email: "a@b.com", AccessToken: "user-token"}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{URL: server.URL + "/", AnonKey: "anon-key", RedirectURL: "http://localhost:3000/dashboard"}, server.Client())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/rest/v1/categories" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "eq.user-1" {
			t.Errorf("expected user filter, got %q", got)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Error("missing or wrong apikey header")
		}
		if r.Header.Get("Authorization") != "Bearer user-token" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "c1", "user_id": "user-1", "name": "Food & Dining", "created_at": "2024-06-01T10:00:00.123456+00:00"},
		})
	})

	categories, err := c.ListCategories(context.Background(), testSession)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Food & Dining" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

func TestCreateCategory_Duplicate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("unexpected Prefer header %q", r.Header.Get("Prefer"))
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"code":    "23505",
			"message": `duplicate key value violates unique constraint "categories_user_id_name_key"`,
		})
	})

	_, err := c.CreateCategory(context.Background(), testSession, "Travel")
	testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
}

func TestListExpenses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("select"); got != "*,categories(id,name)" {
			t.Errorf("expected category join, got %q", got)
		}
		if got := r.URL.Query().Get("order"); got != "created_at.desc" {
			t.Errorf("expected newest first, got %q", got)
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{
				"id": "e1", "user_id": "user-1", "category_id": "c1", "amount": 12.5,
				"description": "Lunch", "created_at": "2024-06-05T12:00:00+00:00",
				"categories": map[string]any{"id": "c1", "name": "Food & Dining"},
			},
			{
				"id": "e2", "user_id": "user-1", "category_id": "gone", "amount": 3,
				"description": "Bus", "created_at": "2024-06-04T08:00:00+00:00",
				"categories": nil,
			},
		})
	})

	expenses, err := c.ListExpenses(context.Background(), testSession)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
	if !expenses[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("unexpected amount %s", expenses[0].Amount)
	}
	if expenses[0].Category == nil || expenses[0].Category.Name != "Food & Dining" {
		t.Errorf("expected joined category, got %+v", expenses[0].Category)
	}
	if expenses[1].Category != nil {
		t.Errorf("expected missing category to stay nil, got %+v", expenses[1].Category)
	}
	want := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)
	if !expenses[0].CreatedAt.Equal(want) {
		t.Errorf("expected %v, got %v", want, expenses[0].CreatedAt)
	}
}

func TestCreateExpense_SendsAmountAsNumber(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(raw), `"amount":42.1`) {
			t.Errorf("expected numeric amount in %s", raw)
		}
		writeJSON(w, http.StatusCreated, []map[string]any{
			{"id": "e9", "user_id": "user-1", "category_id": "c1", "amount": 42.1, "description": "Books"},
		})
	})

	expense, err := c.CreateExpense(context.Background(), testSession, gateway.NewExpense{
		CategoryID:  "c1",
		Amount:      decimal.RequireFromString("42.10"),
		Description: "Books",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expense.ID != "e9" {
		t.Errorf("unexpected expense %+v", expense)
	}
}

func TestDeleteExpense(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", r.Method)
			}
			if got := r.URL.Query().Get("id"); got != "eq.e1" {
				t.Errorf("unexpected id filter %q", got)
			}
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "e1"}})
		})
		if err := c.DeleteExpense(context.Background(), testSession, "e1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("already gone", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{})
		})
		err := c.DeleteExpense(context.Background(), testSession, "e1")
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestBudget(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("period"); got != "eq.monthly" {
				t.Errorf("unexpected period filter %q", got)
			}
			writeJSON(w, http.StatusOK, []map[string]any{})
		})
		budget, err := c.GetBudget(context.Background(), testSession, models.BudgetPeriodMonthly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if budget != nil {
			t.Errorf("expected nil budget, got %+v", budget)
		}
	})

	t.Run("upsert merges on user and period", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("on_conflict"); got != "user_id,period" {
				t.Errorf("unexpected on_conflict %q", got)
			}
			if got := r.Header.Get("Prefer"); got != "resolution=merge-duplicates,return=representation" {
				t.Errorf("unexpected Prefer header %q", got)
			}
			writeJSON(w, http.StatusCreated, []map[string]any{
				{"id": "b1", "user_id": "user-1", "period": "monthly", "amount": 750},
			})
		})
		budget, err := c.UpsertBudget(context.Background(), testSession, models.BudgetPeriodMonthly, decimal.NewFromInt(750))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !budget.Amount.Equal(decimal.NewFromInt(750)) || budget.Period != models.BudgetPeriodMonthly {
			t.Errorf("unexpected budget %+v", budget)
		}
	})
}

func TestDataErrors(t *testing.T) {
	t.Run("server error is a gateway failure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := c.ListExpenses(context.Background(), testSession)
		testutil.AssertAppError(t, err, "GATEWAY_ERROR")
		if !strings.Contains(errors.Unwrap(err).Error(), "unexpected status 503") {
			t.Errorf("expected status in cause, got %v", errors.Unwrap(err))
		}
	})

	t.Run("expired jwt is unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "PGRST301", "message": "JWT expired"})
		})
		_, err := c.ListCategories(context.Background(), testSession)
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}

func TestSignInWithPassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
				t.Errorf("unexpected request %s", r.URL)
			}
			if r.Header.Get("Authorization") != "Bearer anon-key" {
				t.Errorf("expected anon bearer, got %q", r.Header.Get("Authorization"))
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token":  "at",
				"refresh_token": "rt",
				"expires_in":    3600,
				"expires_at":    1718020800,
				"user":          map[string]any{"id": "user-1", "email": "a@b.com", "app_metadata": map[string]any{"provider": "email"}},
			})
		})

		sess, err := c.SignInWithPassword(context.Background(), "a@b.com", "secret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sess.UserID != "user-1" || sess.AccessToken != "at" || sess.RefreshToken != "rt" || sess.Provider != "email" {
			t.Errorf("unexpected session %+v", sess)
		}
		if sess.ExpiresAt.Unix() != 1718020800 {
			t.Errorf("unexpected expiry %v", sess.ExpiresAt)
		}
	})

	t.Run("provider rejection keeps its text", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code": 400, "error_code": "invalid_credentials", "msg": "Invalid login credentials",
			})
		})

		_, err := c.SignInWithPassword(context.Background(), "a@b.com", "wrong")
		var pe *gateway.ProviderError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ProviderError, got %T: %v", err, err)
		}
		if pe.Message != "Invalid login credentials" || pe.Code != "invalid_credentials" {
			t.Errorf("unexpected provider error %+v", pe)
		}
	})
}

func TestSignUp(t *testing.T) {
	t.Run("confirmation required", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("redirect_to"); got != "http://localhost:3000/dashboard" {
				t.Errorf("unexpected redirect_to %q", got)
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"id": "user-2", "email": "new@b.com", "identities": []map[string]any{{"id": "i1"}},
			})
		})
		result, err := c.SignUp(context.Background(), "new@b.com", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.ConfirmationRequired || result.Session != nil || result.Email != "new@b.com" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("existing address", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": "user-3", "email": "old@b.com", "identities": []any{}})
		})
		_, err := c.SignUp(context.Background(), "old@b.com", "secret1")
		var pe *gateway.ProviderError
		if !errors.As(err, &pe) || !strings.Contains(pe.Message, "already exists") {
			t.Errorf("expected already exists provider error, got %v", err)
		}
	})

	t.Run("auto confirmed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": "at", "refresh_token": "rt", "expires_in": 3600,
				"user": map[string]any{"id": "user-4", "email": "auto@b.com"},
			})
		})
		result, err := c.SignUp(context.Background(), "auto@b.com", "secret1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ConfirmationRequired || result.Session == nil || result.Session.UserID != "user-4" {
			t.Errorf("unexpected result %+v", result)
		}
	})
}

func TestSignInWithOAuth(t *testing.T) {
	c := New(Config{URL: "https://project.supabase.co", AnonKey: "anon", RedirectURL: "http://localhost:3000/dashboard"}, nil)

	url, err := c.SignInWithOAuth(context.Background(), "google")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://project.supabase.co/auth/v1/authorize?provider=google&redirect_to=http%3A%2F%2Flocalhost%3A3000%2Fdashboard"
	if url != want {
		t.Errorf("expected %s, got %s", want, url)
	}

	_, err = c.SignInWithOAuth(context.Background(), "../evil")
	testutil.AssertAppError(t, err, "OAUTH_UNSUPPORTED")
}

func TestVerify(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/v1/user" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "user-1", "email": "a@b.com"})
		})
		sess, err := c.Verify(context.Background(), "opaque-token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sess.UserID != "user-1" || sess.AccessToken != "opaque-token" {
			t.Errorf("unexpected session %+v", sess)
		}
		if !sess.ExpiresAt.IsZero() {
			t.Errorf("expected unknown expiry for opaque token, got %v", sess.ExpiresAt)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "invalid JWT"})
		})
		_, err := c.Verify(context.Background(), "bad")
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}

func TestSignOut_AlreadySignedOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	if err := c.SignOut(context.Background(), testSession); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
