package errors

import "errors"

var (
	ErrNotFound = errors.New("artwork not found")

	ErrInvalidID = errors.New("invalid artwork ID format")

	ErrStale = errors.New("artwork was modified by another request")
)
