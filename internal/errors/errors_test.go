package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestFailed(t *testing.T) {
	t.Run("wraps raw errors as gateway banner", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Failed("add expense", cause)

		var appErr *AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("expected *AppError, got %T", err)
		}
		if appErr.Code != ErrGateway.Code {
			t.Errorf("expected code %s, got %s", ErrGateway.Code, appErr.Code)
		}
		if appErr.Message != "Failed to add expense. Please try again." {
			t.Errorf("unexpected message %q", appErr.Message)
		}
		if appErr.StatusCode != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", appErr.StatusCode)
		}
		if !errors.Is(err, cause) {
			t.Error("expected cause to be preserved")
		}
	})

	t.Run("passes through meaningful app errors", func(t *testing.T) {
		err := Failed("delete expense", ErrExpenseNotFound)
		if err != ErrExpenseNotFound {
			t.Errorf("expected ErrExpenseNotFound unchanged, got %v", err)
		}
	})

	t.Run("rewrites gateway app errors", func(t *testing.T) {
		err := Failed("load expenses", Wrap(ErrGateway, errors.New("503")))
		if err.Error() != "Failed to load expenses. Please try again." {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if Failed("load", nil) != nil {
			t.Error("expected nil")
		}
	})
}

func TestAppErrorIs(t *testing.T) {
	wrapped := Wrap(ErrDuplicateCategory, errors.New("23505"))
	if !errors.Is(wrapped, ErrDuplicateCategory) {
		t.Error("wrapped error should match its sentinel")
	}
	if errors.Is(wrapped, ErrExpenseNotFound) {
		t.Error("wrapped error should not match a different sentinel")
	}
	custom := WithMessage(ErrInvalidInput, "bad month")
	if !errors.Is(custom, ErrInvalidInput) {
		t.Error("custom message error should match its sentinel")
	}
}
