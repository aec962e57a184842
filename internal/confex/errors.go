package confex

import (
	"errors"
	"fmt"
	"strings"

	"confex/internal/validator"
)

var (
	// ErrNotValidated is returned when values are requested before a
	// successful Validate call.
	ErrNotValidated = errors.New("confex: values requested before successful validation")

	// ErrUnknownKey is returned when a key is not declared in the schema.
	ErrUnknownKey = errors.New("confex: unknown key")

	// ErrWrongType is returned by typed accessors when the stored value
	// has a different type.
	ErrWrongType = errors.New("confex: value has a different type")
)

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors extracts every *validator.ValidationError from err,
// which may be a single failure or an *AggregateError. Returns nil when
// err carries none.
func ValidationErrors(err error) []*validator.ValidationError {
	if err == nil {
		return nil
	}

	var aggr *AggregateError
	if errors.As(err, &aggr) {
		var out []*validator.ValidationError
		for _, e := range aggr.Errors {
			out = append(out, ValidationErrors(e)...)
		}
		return out
	}

	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return []*validator.ValidationError{verr}
	}
	return nil
}
