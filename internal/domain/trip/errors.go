package trip

import (
	"errors"
	"strings"
)

// ErrInvalidParameters indicates the trip parameters failed validation.
var ErrInvalidParameters = errors.New("invalid trip parameters")

// ValidationError lists every problem found in a set of trip parameters.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid trip parameters: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameters
}
