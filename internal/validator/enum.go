package validator

import (
	"fmt"

	"github.com/spf13/cast"
)

// EnumValidator accepts one of a fixed list of options. Input and options
// are compared by their string form, so a numeric option 8080 matches the
// text "8080". The matching option is returned with its original type.
type EnumValidator[T any] struct {
	rules rules[T]
}

// Enum creates a required validator over the given options.
func Enum[T any](options ...T) EnumValidator[T] {
	return EnumValidator[T]{rules: newRules[T]().oneOf(options)}
}

// Optional marks the value as not required.
func (v EnumValidator[T]) Optional() EnumValidator[T] {
	v.rules = v.rules.optional()
	return v
}

// Default sets the value used when the key is missing.
func (v EnumValidator[T]) Default(value T) EnumValidator[T] {
	v.rules = v.rules.withDefault(value)
	return v
}

// OneOf replaces the option list.
func (v EnumValidator[T]) OneOf(options ...T) EnumValidator[T] {
	v.rules = v.rules.oneOf(options)
	return v
}

// Validate checks raw and returns the matching option.
func (v EnumValidator[T]) Validate(raw Raw, key string) (T, error) {
	return v.rules.validate(raw, key, v.kind())
}

// ValidateAny implements Field.
func (v EnumValidator[T]) ValidateAny(raw Raw, key string) (any, error) {
	return v.Validate(raw, key)
}

// Describe implements Field.
func (v EnumValidator[T]) Describe() string {
	return v.rules.describe(v.kind())
}

// Required reports whether a missing value is an error.
func (v EnumValidator[T]) Required() bool { return v.rules.required }

// DefaultValue returns the default and whether one is set.
func (v EnumValidator[T]) DefaultValue() (T, bool) { return v.rules.defaultValue() }

// Options returns a copy of the option list.
func (v EnumValidator[T]) Options() []T { return v.rules.allowedValues() }

func (v EnumValidator[T]) kind() kind[T] {
	return kind[T]{
		parse:    v.parse,
		equal:    func(a, b T) bool { return stringify(a) == stringify(b) },
		show:     stringify[T],
		describe: func() string { return "enum" },
	}
}

func (v EnumValidator[T]) parse(raw Raw, key string) (T, error) {
	input := raw.String()
	for _, option := range v.rules.allowed {
		if stringify(option) == input {
			return option, nil
		}
	}

	var zero T
	shown := make([]string, len(v.rules.allowed))
	for i, option := range v.rules.allowed {
		shown[i] = stringify(option)
	}
	return zero, NotAllowed(key, "one of: "+quoteAll(shown, ", "), raw)
}

// stringify returns the comparable string form of an option.
func stringify[T any](v T) string {
	if f, ok := any(v).(float64); ok {
		return FormatNumber(f)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
