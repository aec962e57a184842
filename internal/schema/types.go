package schema

import "confex/internal/resolver"

// ConfigType represents the type of a config value
type ConfigType string

const (
	TypeString  ConfigType = "string"
	TypeNumber  ConfigType = "number"
	TypeBoolean ConfigType = "boolean"
	TypeEnum    ConfigType = "enum"
	TypeTuple   ConfigType = "tuple"
)

// ConfigKey represents a single declared configuration value
type ConfigKey struct {
	Path      string     // e.g., "db.url"
	Type      ConfigType // string, number, boolean, enum or tuple
	Required  bool       // False when declared optional or defaulted
	Default   any        // Default as written in YAML; nil when unset
	Min       *float64   // Number only
	Max       *float64   // Number only
	Integer   bool       // Number only
	MinLength *int       // String only
	MaxLength *int       // String only
	Pattern   string     // String only
	OneOf     []any      // Allowed-values restriction (string, number, boolean)
	Values    []any      // Options for enum and tuple
	Env       string     // Explicit env var name; derived from Path when empty
	Secret    bool       // Mask the value in reports
}

// EnvVar returns the environment variable the key is read from, before any prefix.
func (k ConfigKey) EnvVar() string {
	if k.Env != "" {
		return k.Env
	}
	return resolver.PathToEnvVar(k.Path)
}

// HasDefault reports whether a default value is declared.
func (k ConfigKey) HasDefault() bool {
	return k.Default != nil
}

// Schema represents the full configuration schema
type Schema struct {
	Prefix string      // Prepended to every env var on lookup
	Strict bool        // Reject undeclared prefixed env vars
	Config []ConfigKey // In declaration order
}

// Key returns the declared key with the given path.
func (s Schema) Key(path string) (ConfigKey, bool) {
	for _, k := range s.Config {
		if k.Path == path {
			return k, true
		}
	}
	return ConfigKey{}, false
}

// Secrets returns the set of paths whose values must be masked.
func (s Schema) Secrets() map[string]bool {
	secrets := make(map[string]bool)
	for _, k := range s.Config {
		if k.Secret {
			secrets[k.Path] = true
		}
	}
	return secrets
}
