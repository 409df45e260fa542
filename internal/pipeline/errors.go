package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidDefinition marks a pipeline document rejected before execution.
var ErrInvalidDefinition = errors.New("invalid pipeline definition")

func errInvalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidDefinition, msg)
}

func errInvalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDefinition, fmt.Sprintf(format, args...))
}
