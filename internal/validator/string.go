package validator

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// StringValidator accepts any value and returns its string form,
// optionally bounded by length and a pattern.
type StringValidator struct {
	rules        rules[string]
	minLength    int
	hasMinLength bool
	maxLength    int
	hasMaxLength bool
	pattern      *regexp.Regexp
}

// String creates a required string validator.
func String() StringValidator {
	return StringValidator{rules: newRules[string]()}
}

// Optional marks the value as not required.
func (v StringValidator) Optional() StringValidator {
	v.rules = v.rules.optional()
	return v
}

// Default sets the value used when the key is missing.
func (v StringValidator) Default(value string) StringValidator {
	v.rules = v.rules.withDefault(value)
	return v
}

// OneOf restricts the value to the given strings.
func (v StringValidator) OneOf(values ...string) StringValidator {
	v.rules = v.rules.oneOf(values)
	return v
}

// MinLength sets the inclusive minimum length in code points.
func (v StringValidator) MinLength(n int) StringValidator {
	v.minLength, v.hasMinLength = n, true
	return v
}

// MaxLength sets the inclusive maximum length in code points.
func (v StringValidator) MaxLength(n int) StringValidator {
	v.maxLength, v.hasMaxLength = n, true
	return v
}

// Pattern requires the value to match re.
func (v StringValidator) Pattern(re *regexp.Regexp) StringValidator {
	v.pattern = re
	return v
}

// Validate checks raw and returns the string value.
func (v StringValidator) Validate(raw Raw, key string) (string, error) {
	return v.rules.validate(raw, key, v.kind())
}

// ValidateAny implements Field.
func (v StringValidator) ValidateAny(raw Raw, key string) (any, error) {
	return v.Validate(raw, key)
}

// Describe implements Field.
func (v StringValidator) Describe() string {
	return v.rules.describe(v.kind())
}

// Required reports whether a missing value is an error.
func (v StringValidator) Required() bool { return v.rules.required }

// DefaultValue returns the default and whether one is set.
func (v StringValidator) DefaultValue() (string, bool) { return v.rules.defaultValue() }

// AllowedValues returns a copy of the allowed set, nil when unrestricted.
func (v StringValidator) AllowedValues() []string { return v.rules.allowedValues() }

// Bounds returns the configured length limits.
func (v StringValidator) Bounds() (minLength int, hasMin bool, maxLength int, hasMax bool) {
	return v.minLength, v.hasMinLength, v.maxLength, v.hasMaxLength
}

// PatternExpr returns the pattern source, or "" when unset.
func (v StringValidator) PatternExpr() string {
	if v.pattern == nil {
		return ""
	}
	return v.pattern.String()
}

func (v StringValidator) kind() kind[string] {
	return kind[string]{
		parse:    v.parse,
		equal:    func(a, b string) bool { return a == b },
		show:     func(s string) string { return s },
		describe: func() string { return "string" },
	}
}

func (v StringValidator) parse(raw Raw, key string) (string, error) {
	s := raw.String()
	length := utf8.RuneCountInString(s)

	if v.hasMinLength && length < v.minLength {
		return "", ConstraintViolation(key, fmt.Sprintf("length >= %d", v.minLength), raw)
	}
	if v.hasMaxLength && length > v.maxLength {
		return "", ConstraintViolation(key, fmt.Sprintf("length <= %d", v.maxLength), raw)
	}
	if v.pattern != nil && !v.pattern.MatchString(s) {
		return "", ConstraintViolation(key, "matches "+v.pattern.String(), raw)
	}

	return s, nil
}
