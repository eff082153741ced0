package scoring

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrConfigurationGap = errors.New("calculation not available")
	ErrUnknownCategory  = fmt.Errorf("%w: unknown reference range category", ErrInvalidInput)
	ErrUnknownUnit      = fmt.Errorf("%w: unknown glycemia unit", ErrInvalidInput)
)

// InputError reports which observation was rejected. It always matches
// ErrInvalidInput through errors.Is.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return invalid(field, "must be between %d and %d, got %d", lo, hi, v)
	}
	return nil
}
