package errors

import "errors"

var (
	ErrNotFound = errors.New("exhibition not found")

	ErrInvalidID = errors.New("invalid exhibition ID format")

	ErrStale = errors.New("exhibition was modified by another request")

	ErrDateConflict = errors.New("exhibition dates conflict with existing exhibition")

	ErrInvalidDateRange = errors.New("end date must be after start date")
)
