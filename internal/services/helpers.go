package services

import (
	"errors"

	apperrors "fitr/internal/errors"
	"fitr/internal/logger"
)

// failed logs a gateway failure and converts it to the banner error for
// action. Errors that already mean something to the client pass through
// without logging.
func failed(action string, err error) error {
	if err == nil {
		return nil
	}
	converted := apperrors.Failed(action, err)
	var appErr *apperrors.AppError
	if errors.As(converted, &appErr) && appErr.Code == apperrors.ErrGateway.Code {
		logger.Get().Errorw("Gateway call failed", "action", action, "error", err)
	}
	return converted
}
