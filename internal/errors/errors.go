// Package errors provides custom error types for the FiTr API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Failed converts a gateway failure into the generic banner error for the
// given action ("load expenses", "add expense", ...). Errors that already
// carry a client-facing meaning, such as not found or unauthorized, pass
// through unchanged.
func Failed(action string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != ErrGateway.Code && appErr.Code != ErrInternalServer.Code {
		return err
	}
	msg := fmt.Sprintf("Failed to %s. Please try again.", action)
	return Wrap(WithMessage(ErrGateway, msg), err)
}

// Authentication errors.
var (
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials  = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password. Please try again.", StatusCode: http.StatusUnauthorized}
	ErrEmailNotConfirmed   = &AppError{Code: "EMAIL_NOT_CONFIRMED", Message: "Please check your email and confirm your account before signing in.", StatusCode: http.StatusForbidden}
	ErrWeakPassword        = &AppError{Code: "WEAK_PASSWORD", Message: "Password must be at least 6 characters long.", StatusCode: http.StatusBadRequest}
	ErrAuthRateLimited     = &AppError{Code: "RATE_LIMITED", Message: "Too many attempts. Please wait a few minutes before trying again.", StatusCode: http.StatusTooManyRequests}
	ErrEmailDeliveryFailed = &AppError{Code: "EMAIL_DELIVERY_FAILED", Message: "Unable to send confirmation email. Please try again later or contact support.", StatusCode: http.StatusBadGateway}
	ErrDuplicateEmail      = &AppError{Code: "DUPLICATE_EMAIL", Message: "An account with this email already exists. Please sign in instead.", StatusCode: http.StatusConflict}
	ErrOAuthUnsupported    = &AppError{Code: "OAUTH_UNSUPPORTED", Message: "This sign-in provider is not available", StatusCode: http.StatusBadRequest}
	ErrAuthFailed          = &AppError{Code: "AUTH_FAILED", Message: "Authentication failed. Please try again.", StatusCode: http.StatusUnauthorized}
)

// Validation errors. These are raised before any gateway call.
var (
	ErrInvalidInput      = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount     = &AppError{Code: "INVALID_AMOUNT", Message: "Please enter a valid amount", StatusCode: http.StatusBadRequest}
	ErrInvalidCategory   = &AppError{Code: "INVALID_CATEGORY", Message: "Please select a category", StatusCode: http.StatusBadRequest}
	ErrEmptyDescription  = &AppError{Code: "EMPTY_DESCRIPTION", Message: "Please enter a description", StatusCode: http.StatusBadRequest}
	ErrEmptyMessage      = &AppError{Code: "EMPTY_MESSAGE", Message: "Please enter a message", StatusCode: http.StatusBadRequest}
	ErrInvalidRating     = &AppError{Code: "INVALID_RATING", Message: "Rating must be between 1 and 5", StatusCode: http.StatusBadRequest}
	ErrInvalidPeriod     = &AppError{Code: "INVALID_PERIOD", Message: "Period must be 'daily' or 'monthly'", StatusCode: http.StatusBadRequest}
	ErrInvalidWindow     = &AppError{Code: "INVALID_WINDOW", Message: "Invalid time window", StatusCode: http.StatusBadRequest}
	ErrEmptyCategoryName = &AppError{Code: "EMPTY_CATEGORY_NAME", Message: "Category name is required", StatusCode: http.StatusBadRequest}
)

// Data errors.
var (
	ErrExpenseNotFound    = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory  = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
	ErrGateway            = &AppError{Code: "GATEWAY_ERROR", Message: "The data service is unavailable. Please try again.", StatusCode: http.StatusBadGateway}
	ErrInternalServer     = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrReportRenderFailed = &AppError{Code: "REPORT_FAILED", Message: "Failed to generate report. Please try again.", StatusCode: http.StatusInternalServerError}
)
