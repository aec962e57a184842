package validator

import "slices"

// Field is a validator with its result type erased, so validators of
// different kinds can share one schema.
type Field interface {
	// ValidateAny validates raw for key and returns the typed result as any.
	ValidateAny(raw Raw, key string) (any, error)
	// Describe returns the human description of the accepted shape.
	Describe() string
}

// Validator parses and constrains a single raw value into a T.
type Validator[T any] interface {
	Field
	Validate(raw Raw, key string) (T, error)
}

// rules holds the state shared by every validator kind.
// It is copied by value on each configuration call; slices are cloned
// before being stored so two chains never share backing arrays.
type rules[T any] struct {
	required   bool
	hasDefault bool
	def        T
	allowed    []T // nil means no restriction
}

func newRules[T any]() rules[T] {
	return rules[T]{required: true}
}

func (r rules[T]) optional() rules[T] {
	r.required = false
	return r
}

func (r rules[T]) withDefault(v T) rules[T] {
	r.required = false
	r.hasDefault = true
	r.def = v
	return r
}

func (r rules[T]) oneOf(values []T) rules[T] {
	r.allowed = slices.Clone(values)
	if r.allowed == nil {
		r.allowed = []T{}
	}
	return r
}

// kind supplies the type-specific hooks used by validate.
type kind[T any] struct {
	parse    func(raw Raw, key string) (T, error)
	equal    func(a, b T) bool
	show     func(v T) string
	describe func() string
}

// validate runs the shared contract: default on missing, parse, then the
// allowed-values check.
func (r rules[T]) validate(raw Raw, key string, k kind[T]) (T, error) {
	var zero T

	if raw.IsMissing() {
		if !r.required && r.hasDefault {
			return r.def, nil
		}
		return zero, MissingRequired(key, r.describe(k))
	}

	parsed, err := k.parse(raw, key)
	if err != nil {
		return zero, err
	}

	if r.allowed != nil {
		for _, v := range r.allowed {
			if k.equal(parsed, v) {
				return parsed, nil
			}
		}
		return zero, NotAllowed(key, r.describeAllowed(k), raw)
	}

	return parsed, nil
}

// describe returns the allowed set when restricted, otherwise the kind description.
func (r rules[T]) describe(k kind[T]) string {
	if r.allowed != nil {
		return r.describeAllowed(k)
	}
	return k.describe()
}

func (r rules[T]) describeAllowed(k kind[T]) string {
	shown := make([]string, len(r.allowed))
	for i, v := range r.allowed {
		shown[i] = k.show(v)
	}
	return "one of " + quoteAll(shown, " | ")
}

func (r rules[T]) allowedValues() []T {
	return slices.Clone(r.allowed)
}

func (r rules[T]) defaultValue() (T, bool) {
	return r.def, r.hasDefault
}
