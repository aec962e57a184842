package validator

import (
	"encoding/json"
	"strings"
)

// TupleValidator accepts one of a fixed list of fixed-shape values,
// usually arrays. Text input is decoded as JSON and compared with each
// option by canonical JSON form.
type TupleValidator[T any] struct {
	rules rules[T]
}

// Tuple creates a required validator over the given options.
func Tuple[T any](options ...T) TupleValidator[T] {
	return TupleValidator[T]{rules: newRules[T]().oneOf(options)}
}

// Optional marks the value as not required.
func (v TupleValidator[T]) Optional() TupleValidator[T] {
	v.rules = v.rules.optional()
	return v
}

// Default sets the value used when the key is missing.
func (v TupleValidator[T]) Default(value T) TupleValidator[T] {
	v.rules = v.rules.withDefault(value)
	return v
}

// OneOf replaces the option list.
func (v TupleValidator[T]) OneOf(options ...T) TupleValidator[T] {
	v.rules = v.rules.oneOf(options)
	return v
}

// Validate checks raw and returns the matching option.
func (v TupleValidator[T]) Validate(raw Raw, key string) (T, error) {
	return v.rules.validate(raw, key, v.kind())
}

// ValidateAny implements Field.
func (v TupleValidator[T]) ValidateAny(raw Raw, key string) (any, error) {
	return v.Validate(raw, key)
}

// Describe implements Field.
func (v TupleValidator[T]) Describe() string {
	return v.rules.describe(v.kind())
}

// Required reports whether a missing value is an error.
func (v TupleValidator[T]) Required() bool { return v.rules.required }

// DefaultValue returns the default and whether one is set.
func (v TupleValidator[T]) DefaultValue() (T, bool) { return v.rules.defaultValue() }

// Options returns a copy of the option list.
func (v TupleValidator[T]) Options() []T { return v.rules.allowedValues() }

func (v TupleValidator[T]) kind() kind[T] {
	return kind[T]{
		parse: v.parse,
		equal: func(a, b T) bool {
			ca, okA := canonical(a)
			cb, okB := canonical(b)
			return okA && okB && ca == cb
		},
		show:     func(t T) string { s, _ := canonical(t); return s },
		describe: func() string { return "tuple" },
	}
}

func (v TupleValidator[T]) parse(raw Raw, key string) (T, error) {
	var input any
	switch raw.Kind() {
	case RawNumber:
		input = raw.number
	default:
		if err := json.Unmarshal([]byte(raw.String()), &input); err != nil {
			input = raw.String()
		}
	}

	form, ok := canonical(input)
	if ok {
		for _, option := range v.rules.allowed {
			if optForm, ok := canonical(option); ok && optForm == form {
				return option, nil
			}
		}
	}

	var zero T
	shown := make([]string, 0, len(v.rules.allowed))
	for _, option := range v.rules.allowed {
		s, _ := canonical(option)
		shown = append(shown, s)
	}
	return zero, NotAllowed(key, "one of: "+strings.Join(shown, ", "), raw)
}

// canonical returns the compact JSON encoding of v.
func canonical(v any) (string, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(data), true
}
