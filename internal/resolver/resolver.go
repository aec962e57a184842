package resolver

import (
	"os"
	"slices"
	"strings"

	"confex/internal/validator"
)

// Source is a read-only key/value store of environment variables.
type Source interface {
	// Lookup returns the value of name and whether it is set.
	Lookup(name string) (string, bool)
	// Keys returns every name present in the source, sorted.
	Keys() []string
}

// MapSource is a Source backed by a plain map.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Keys implements Source.
func (m MapSource) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FromEnviron builds a Source from an environ slice (format: "KEY=VALUE").
func FromEnviron(environ []string) MapSource {
	return MapSource(parseEnviron(environ))
}

// Map builds a Source from a copy of m.
func Map(m map[string]string) MapSource {
	out := make(MapSource, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type osSource struct{}

// OS returns a Source reading the live process environment.
func OS() Source {
	return osSource{}
}

func (osSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (osSource) Keys() []string {
	return FromEnviron(os.Environ()).Keys()
}

// ResolvedValue represents a resolved config value
type ResolvedValue struct {
	Key     string // The config key (e.g., "db.url")
	EnvVar  string // The environment variable looked up (e.g., "APP_DB_URL")
	Value   string // The resolved value (empty if not set)
	Present bool   // Whether the env var was set
}

// Raw converts the resolved value into validator input.
func (r ResolvedValue) Raw() validator.Raw {
	if !r.Present {
		return validator.Missing
	}
	return validator.Text(r.Value)
}

// Resolve looks up envVar in src and records it under key.
func Resolve(src Source, key, envVar string) ResolvedValue {
	value, present := src.Lookup(envVar)
	return ResolvedValue{
		Key:     key,
		EnvVar:  envVar,
		Value:   value,
		Present: present,
	}
}

// WithPrefix returns the names in src that start with prefix, sorted.
func WithPrefix(src Source, prefix string) []string {
	var names []string
	for _, name := range src.Keys() {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}

// parseEnviron converts an environ slice (["KEY=VALUE", ...]) into a map.
// Handles edge cases like empty values ("KEY=") and values containing "=" ("KEY=a=b").
func parseEnviron(environ []string) map[string]string {
	result := make(map[string]string)
	for _, entry := range environ {
		// Split on first "=" only - values can contain "="
		idx := strings.Index(entry, "=")
		if idx == -1 {
			// No "=" found, skip malformed entry
			continue
		}
		key := entry[:idx]
		value := entry[idx+1:]
		result[key] = value
	}
	return result
}
