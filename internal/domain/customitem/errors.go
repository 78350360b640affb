package customitem

import "errors"

var (
	// ErrItemNotFound indicates the custom item doesn't exist.
	ErrItemNotFound = errors.New("custom item not found")
	// ErrInvalidInput indicates invalid input for custom item operations.
	ErrInvalidInput = errors.New("invalid custom item input")
)
