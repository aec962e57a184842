// Package confex runs a schema of validators against an environment
// variable source and exposes the typed result.
package confex

import (
	"fmt"
	"slices"

	"confex/internal/resolver"
	"confex/internal/validator"
)

// Confex holds a schema and, after a successful Validate, its values.
// Values are only readable in the validated state; a failed pass leaves
// the instance unvalidated.
type Confex struct {
	entries   []Entry
	prefix    string
	strict    bool
	validated bool
	values    Values
}

// New creates an unvalidated runner over entries. Declaring a key twice
// replaces the earlier validator in place.
func New(entries ...Entry) *Confex {
	return &Confex{entries: mergeEntries(nil, entries...)}
}

// Entries returns a copy of the schema in declaration order.
func (c *Confex) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Prefix returns the prefix prepended to every variable name on lookup.
func (c *Confex) Prefix() string {
	return c.prefix
}

// Strict reports whether undeclared prefixed variables are rejected.
func (c *Confex) Strict() bool {
	return c.strict
}

// EnvVar returns the variable name looked up for e, prefix included.
func (c *Confex) EnvVar(e Entry) string {
	return c.prefix + e.EnvVar
}

// Resolve looks up the raw value of every entry in declaration order.
func (c *Confex) Resolve(src resolver.Source) []resolver.ResolvedValue {
	results := make([]resolver.ResolvedValue, 0, len(c.entries))
	for _, e := range c.entries {
		results = append(results, resolver.Resolve(src, e.Key, c.EnvVar(e)))
	}
	return results
}

// Validate checks every entry in declaration order and stops at the first
// failure. On success the values become readable through Get.
func (c *Confex) Validate(src resolver.Source) (*Confex, error) {
	return c.run(src, true)
}

// ValidateAll checks every entry and reports all failures together as an
// *AggregateError, in declaration order followed by strict-mode failures.
func (c *Confex) ValidateAll(src resolver.Source) (*Confex, error) {
	return c.run(src, false)
}

func (c *Confex) run(src resolver.Source, failFast bool) (*Confex, error) {
	c.validated = false
	c.values = Values{}

	values := newValues(len(c.entries))
	var errs []error

	for _, e := range c.entries {
		rv := resolver.Resolve(src, e.Key, c.EnvVar(e))
		value, err := e.Field.ValidateAny(rv.Raw(), rv.EnvVar)
		if err != nil {
			if failFast {
				return c, err
			}
			errs = append(errs, err)
			continue
		}
		values.set(e.Key, value)
	}

	for _, err := range c.undeclared(src) {
		if failFast {
			return c, err
		}
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return c, &AggregateError{Errors: errs}
	}

	c.values = values
	c.validated = true
	return c, nil
}

// undeclared returns one error per prefixed variable in src that no entry
// declares. Only enforced in strict mode with a non-empty prefix.
func (c *Confex) undeclared(src resolver.Source) []error {
	if !c.strict || c.prefix == "" {
		return nil
	}

	declared := make(map[string]bool, len(c.entries))
	for _, e := range c.entries {
		declared[c.EnvVar(e)] = true
	}

	var errs []error
	for _, name := range resolver.WithPrefix(src, c.prefix) {
		if declared[name] {
			continue
		}
		value, _ := src.Lookup(name)
		errs = append(errs, validator.UnknownKey(name, c.prefix, validator.Text(value)))
	}
	return errs
}

// Get returns all values. Fails with ErrNotValidated unless the last
// Validate call succeeded.
func (c *Confex) Get() (Values, error) {
	if !c.validated {
		return Values{}, ErrNotValidated
	}
	return c.values, nil
}

// GetValue returns the value of a single key.
func (c *Confex) GetValue(key string) (any, error) {
	values, err := c.Get()
	if err != nil {
		return nil, err
	}
	value, ok := values.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return value, nil
}

// IsValidated reports whether the last Validate call succeeded.
func (c *Confex) IsValidated() bool {
	return c.validated
}

// Lookup returns the value of key as a T.
func Lookup[T any](c *Confex, key string) (T, error) {
	values, err := c.Get()
	if err != nil {
		var zero T
		return zero, err
	}
	return Value[T](values, key)
}

// Define validates entries against src once and returns the values.
func Define(src resolver.Source, entries ...Entry) (Values, error) {
	c, err := New(entries...).Validate(src)
	if err != nil {
		return Values{}, err
	}
	return c.values, nil
}
