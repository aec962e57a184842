package confex

import "confex/internal/validator"

// Builder assembles a schema one field at a time.
type Builder struct {
	entries []Entry
	prefix  string
	strict  bool
}

// NewBuilder creates an empty builder. Strict mode is off by default.
func NewBuilder() *Builder {
	return &Builder{}
}

// Field declares key, read from the variable of the same name.
func (b *Builder) Field(key string, f validator.Field) *Builder {
	return b.Entry(Field(key, f))
}

// Entry declares a fully specified entry.
func (b *Builder) Entry(e Entry) *Builder {
	b.entries = mergeEntries(b.entries, e)
	return b
}

// WithPrefix sets the string prepended to every variable name on lookup.
// Results stay keyed by the declared key.
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// StrictMode enables rejection of undeclared variables carrying the prefix.
func (b *Builder) StrictMode(strict bool) *Builder {
	b.strict = strict
	return b
}

// Build creates the runner. The builder can keep being used afterwards
// without affecting it.
func (b *Builder) Build() *Confex {
	c := New(b.entries...)
	c.prefix = b.prefix
	c.strict = b.strict
	return c
}
