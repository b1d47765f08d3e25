package validation

import (
	"errors"
	"strings"
)

// Failure kinds. Every error returned by this package matches one of these with errors.Is.
var (
	ErrFieldRequired          = errors.New("is required")
	ErrFieldEmpty             = errors.New("cannot be empty")
	ErrInvalidEnumValue       = errors.New("is not an allowed value")
	ErrEmptyCollection        = errors.New("must contain at least one item")
	ErrInvalidDateFormat      = errors.New("invalid date format")
	ErrInvalidTimeFormat      = errors.New("time must be in HH:MM format")
	ErrInvalidTimeValues      = errors.New("invalid time values")
	ErrInvalidEmailFormat     = errors.New("invalid email format")
	ErrInvalidReferenceFormat = errors.New("invalid identity format")
	ErrDanglingEventReference = errors.New("referenced event does not exist")
)

// FieldError ties a failure kind to the JSON name of the field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Errors is the result of a failed gate. It is never empty.
type Errors []*FieldError

func (es Errors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}

	return strings.Join(parts, "; ")
}

func (es Errors) Unwrap() []error {
	out := make([]error, 0, len(es))
	for _, e := range es {
		out = append(out, e)
	}

	return out
}

func (es *Errors) add(field string, err error) {
	*es = append(*es, &FieldError{Field: field, Err: err})
}

func fieldFailure(field string, err error) error {
	return Errors{{Field: field, Err: err}}
}
