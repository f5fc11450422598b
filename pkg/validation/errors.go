package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrFatalValidator marks a validator predicate that panicked. It is a
	// programming error in the supplied validator, never a user input problem.
	ErrFatalValidator = errors.New("validation: validator failed")
	// ErrUnknownRule is returned when a named rule has no registered factory.
	ErrUnknownRule = errors.New("validation: unknown rule")
	// ErrInvalidRuleArgs is returned when a rule factory rejects its arguments.
	ErrInvalidRuleArgs = errors.New("validation: invalid rule arguments")
)

// ValidatorError carries the context of a panicking validator predicate.
type ValidatorError struct {
	Field string
	Index int
	Panic any
}

func (e *ValidatorError) Error() string {
	return fmt.Sprintf("validation: validator %d of field %q panicked: %v", e.Index, e.Field, e.Panic)
}

// Unwrap lets errors.Is match ErrFatalValidator, and exposes the panic value
// when it was itself an error.
func (e *ValidatorError) Unwrap() []error {
	errs := []error{ErrFatalValidator}
	if inner, ok := e.Panic.(error); ok {
		errs = append(errs, inner)
	}
	return errs
}
