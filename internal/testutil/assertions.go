package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "fitr/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected code and
// returns it for further inspection.
func AssertAppError(t *testing.T, err error, expectedCode string) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	return appErr
}

// AssertFailureBanner checks that err is the generic gateway failure shown
// for action, e.g. "Failed to load expenses. Please try again.".
func AssertFailureBanner(t *testing.T, err error, action string) {
	t.Helper()

	appErr := AssertAppError(t, err, apperrors.ErrGateway.Code)
	if want := fmt.Sprintf("Failed to %s. Please try again.", action); appErr.Message != want {
		t.Errorf("expected message %q, got %q", want, appErr.Message)
	}
}

// AssertAmount compares a decimal amount against its string form.
func AssertAmount(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected amount %s, got %s", want, got.String())
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
