package template

import "errors"

var (
	// ErrTemplateNotFound indicates the template doesn't exist.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrInvalidInput indicates invalid input for template operations.
	ErrInvalidInput = errors.New("invalid template input")
)
