package errors

import "errors"

var (
	ErrNotFound = errors.New("trip not found")

	ErrInvalidID = errors.New("invalid trip ID format")

	ErrResourceConflict = errors.New("trip conflicts with an existing trip for the same resource")

	ErrTooManyEscorts = errors.New("escort vehicle count exceeds the allowed maximum")
)
