package validator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// NumberValidator coerces the value to a float64 with optional bounds
// and an integer requirement.
type NumberValidator struct {
	rules   rules[float64]
	min     float64
	hasMin  bool
	max     float64
	hasMax  bool
	integer bool
}

// Number creates a required number validator.
func Number() NumberValidator {
	return NumberValidator{rules: newRules[float64]()}
}

// Optional marks the value as not required.
func (v NumberValidator) Optional() NumberValidator {
	v.rules = v.rules.optional()
	return v
}

// Default sets the value used when the key is missing.
func (v NumberValidator) Default(value float64) NumberValidator {
	v.rules = v.rules.withDefault(value)
	return v
}

// OneOf restricts the value to the given numbers.
func (v NumberValidator) OneOf(values ...float64) NumberValidator {
	v.rules = v.rules.oneOf(values)
	return v
}

// Min sets the inclusive lower bound.
func (v NumberValidator) Min(n float64) NumberValidator {
	v.min, v.hasMin = n, true
	return v
}

// Max sets the inclusive upper bound.
func (v NumberValidator) Max(n float64) NumberValidator {
	v.max, v.hasMax = n, true
	return v
}

// Integer requires the value to be a mathematical integer.
func (v NumberValidator) Integer() NumberValidator {
	v.integer = true
	return v
}

// Validate checks raw and returns the numeric value.
func (v NumberValidator) Validate(raw Raw, key string) (float64, error) {
	return v.rules.validate(raw, key, v.kind())
}

// ValidateAny implements Field.
func (v NumberValidator) ValidateAny(raw Raw, key string) (any, error) {
	return v.Validate(raw, key)
}

// Describe implements Field.
func (v NumberValidator) Describe() string {
	return v.rules.describe(v.kind())
}

// Required reports whether a missing value is an error.
func (v NumberValidator) Required() bool { return v.rules.required }

// DefaultValue returns the default and whether one is set.
func (v NumberValidator) DefaultValue() (float64, bool) { return v.rules.defaultValue() }

// AllowedValues returns a copy of the allowed set, nil when unrestricted.
func (v NumberValidator) AllowedValues() []float64 { return v.rules.allowedValues() }

// Bounds returns the configured numeric limits.
func (v NumberValidator) Bounds() (lo float64, hasMin bool, hi float64, hasMax bool) {
	return v.min, v.hasMin, v.max, v.hasMax
}

// IsInteger reports whether the integer requirement is set.
func (v NumberValidator) IsInteger() bool { return v.integer }

func (v NumberValidator) kind() kind[float64] {
	return kind[float64]{
		parse:    v.parse,
		equal:    func(a, b float64) bool { return a == b },
		show:     FormatNumber,
		describe: func() string { return "number" },
	}
}

// parse checks type, then integer, then min, then max; first failure wins.
func (v NumberValidator) parse(raw Raw, key string) (float64, error) {
	n, ok := toNumber(raw)
	if !ok {
		return 0, TypeMismatch(key, "number", raw)
	}

	if v.integer && !isInteger(n) {
		return 0, TypeMismatch(key, "integer", raw)
	}
	if v.hasMin && n < v.min {
		return 0, ConstraintViolation(key, ">= "+FormatNumber(v.min), raw)
	}
	if v.hasMax && n > v.max {
		return 0, ConstraintViolation(key, "<= "+FormatNumber(v.max), raw)
	}

	return n, nil
}

// toNumber converts raw to a float64. NaN and unparseable text are rejected.
func toNumber(raw Raw) (float64, bool) {
	if raw.Kind() == RawNumber {
		return raw.number, !math.IsNaN(raw.number)
	}

	s := strings.TrimSpace(raw.String())
	if s == "" {
		return 0, false
	}

	// Prefixed integer literals: 0x1F, 0o17, 0b101
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(u), true
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isInteger(f float64) bool {
	return !math.IsInf(f, 0) && math.Trunc(f) == f
}
