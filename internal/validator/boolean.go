package validator

import (
	"strconv"
	"strings"
)

const booleanExpected = `boolean ("true", "false", "1", or "0")`

// BooleanValidator accepts "true"/"1" and "false"/"0", case-insensitively.
type BooleanValidator struct {
	rules rules[bool]
}

// Boolean creates a required boolean validator.
func Boolean() BooleanValidator {
	return BooleanValidator{rules: newRules[bool]()}
}

// Optional marks the value as not required.
func (v BooleanValidator) Optional() BooleanValidator {
	v.rules = v.rules.optional()
	return v
}

// Default sets the value used when the key is missing.
func (v BooleanValidator) Default(value bool) BooleanValidator {
	v.rules = v.rules.withDefault(value)
	return v
}

// OneOf restricts the value to the given booleans.
func (v BooleanValidator) OneOf(values ...bool) BooleanValidator {
	v.rules = v.rules.oneOf(values)
	return v
}

// Validate checks raw and returns the boolean value.
func (v BooleanValidator) Validate(raw Raw, key string) (bool, error) {
	return v.rules.validate(raw, key, v.kind())
}

// ValidateAny implements Field.
func (v BooleanValidator) ValidateAny(raw Raw, key string) (any, error) {
	return v.Validate(raw, key)
}

// Describe implements Field.
func (v BooleanValidator) Describe() string {
	return v.rules.describe(v.kind())
}

// Required reports whether a missing value is an error.
func (v BooleanValidator) Required() bool { return v.rules.required }

// DefaultValue returns the default and whether one is set.
func (v BooleanValidator) DefaultValue() (bool, bool) { return v.rules.defaultValue() }

// AllowedValues returns a copy of the allowed set, nil when unrestricted.
func (v BooleanValidator) AllowedValues() []bool { return v.rules.allowedValues() }

func (v BooleanValidator) kind() kind[bool] {
	return kind[bool]{
		parse:    parseBoolean,
		equal:    func(a, b bool) bool { return a == b },
		show:     strconv.FormatBool,
		describe: func() string { return booleanExpected },
	}
}

func parseBoolean(raw Raw, key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw.String())) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, TypeMismatch(key, booleanExpected, raw)
}
