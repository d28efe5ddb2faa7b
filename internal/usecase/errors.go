package usecase

import (
	"errors"

	"board-champions-backend/pkg/apperror"
)

// toAppError passes AppErrors through and hides anything else behind a 500.
func toAppError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}
