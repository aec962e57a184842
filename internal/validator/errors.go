package validator

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a validation failure.
type ErrorKind string

const (
	KindMissing    ErrorKind = "missing"     // Required value not set
	KindType       ErrorKind = "type"        // Value not coercible to the target type
	KindConstraint ErrorKind = "constraint"  // Bounds, length or pattern violated
	KindNotAllowed ErrorKind = "not_allowed" // Value outside the allowed set
	KindUnknown    ErrorKind = "unknown"     // Undeclared key rejected by strict mode
)

// Context strings attached to each kind of failure.
const (
	ContextMissing    = "environment variable is required but not set"
	ContextType       = "type validation failed"
	ContextConstraint = "constraint validation failed"
	ContextNotAllowed = "value is not in the allowed set"
	ContextUnknown    = "undeclared variable rejected by strict mode"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Kind     ErrorKind // Failure category
	Key      string    // The config key (e.g., "PORT")
	Expected string    // Description of the required shape or constraint
	Actual   Raw       // The raw input (Missing when unset)
	Context  string    // Optional free-text context
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	key := "value"
	if e.Key != "" {
		key = fmt.Sprintf("%q", e.Key)
	}

	var sb strings.Builder
	sb.WriteString("validation failed for ")
	sb.WriteString(key)
	if e.Context != "" {
		sb.WriteString(" (" + e.Context + ")")
	}
	sb.WriteString(": expected ")
	sb.WriteString(e.Expected)
	sb.WriteString(", received ")
	sb.WriteString(e.Actual.quoted())
	return sb.String()
}

// MissingRequired creates the error for an unset key with no default.
func MissingRequired(key, expected string) *ValidationError {
	return &ValidationError{
		Kind:     KindMissing,
		Key:      key,
		Expected: expected,
		Actual:   Missing,
		Context:  ContextMissing,
	}
}

// TypeMismatch creates the error for a value that cannot be parsed as the target type.
func TypeMismatch(key, expectedType string, actual Raw) *ValidationError {
	return &ValidationError{
		Kind:     KindType,
		Key:      key,
		Expected: expectedType,
		Actual:   actual,
		Context:  ContextType,
	}
}

// ConstraintViolation creates the error for a range, length or pattern violation.
func ConstraintViolation(key, constraint string, actual Raw) *ValidationError {
	return &ValidationError{
		Kind:     KindConstraint,
		Key:      key,
		Expected: constraint,
		Actual:   actual,
		Context:  ContextConstraint,
	}
}

// NotAllowed creates the error for a value outside the allowed set.
func NotAllowed(key, allowed string, actual Raw) *ValidationError {
	return &ValidationError{
		Kind:     KindNotAllowed,
		Key:      key,
		Expected: allowed,
		Actual:   actual,
		Context:  ContextNotAllowed,
	}
}

// UnknownKey creates the error for an undeclared key found in strict mode.
func UnknownKey(key, prefix string, actual Raw) *ValidationError {
	return &ValidationError{
		Kind:     KindUnknown,
		Key:      key,
		Expected: fmt.Sprintf("no undeclared variables with prefix %q", prefix),
		Actual:   actual,
		Context:  ContextUnknown,
	}
}

// FormatError formats a ValidationError into a one-line human-readable message.
func FormatError(err *ValidationError) string {
	switch err.Kind {
	case KindMissing:
		// Format: "{key}: required but not set"
		return fmt.Sprintf("%s: required but not set", err.Key)
	case KindNotAllowed:
		// Format: "{key}: '{value}' is not valid, must be {allowed}"
		return fmt.Sprintf("%s: '%s' is not valid, must be %s", err.Key, err.Actual.String(), err.Expected)
	case KindUnknown:
		return fmt.Sprintf("%s: not declared in schema (strict mode)", err.Key)
	default:
		return fmt.Sprintf("%s: '%s' is invalid, expected %s", err.Key, err.Actual.String(), err.Expected)
	}
}

// FormatErrors formats all validation errors into a slice of human-readable messages.
func FormatErrors(errs []*ValidationError) []string {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = FormatError(err)
	}
	return messages
}

// quoteAll renders values as quoted strings joined by sep.
func quoteAll(values []string, sep string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, sep)
}
