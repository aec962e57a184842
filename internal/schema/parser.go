package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"confex/internal/resolver"
)

// DefaultFileName is the schema file looked up by LoadSchema.
const DefaultFileName = "confex.yaml"

// schemaFile represents the YAML file structure. Config is kept as a node
// so declaration order survives parsing.
type schemaFile struct {
	Prefix string    `yaml:"prefix,omitempty"`
	Strict bool      `yaml:"strict,omitempty"`
	Config yaml.Node `yaml:"config"`
}

// configEntry represents a single config entry in YAML
type configEntry struct {
	Type      string   `yaml:"type"`
	Required  *bool    `yaml:"required,omitempty"`
	Default   any      `yaml:"default,omitempty"`
	Min       *float64 `yaml:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty"`
	Integer   bool     `yaml:"integer,omitempty"`
	MinLength *int     `yaml:"minLength,omitempty"`
	MaxLength *int     `yaml:"maxLength,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty"`
	OneOf     []any    `yaml:"oneOf,omitempty"`
	Values    []any    `yaml:"values,omitempty"`
	Env       string   `yaml:"env,omitempty"`
	Secret    bool     `yaml:"secret,omitempty"`
}

// ParseSchema parses YAML content into a Schema
func ParseSchema(content []byte) (Schema, error) {
	var sf schemaFile
	if err := yaml.Unmarshal(content, &sf); err != nil {
		return Schema{}, fmt.Errorf("invalid YAML: %w", err)
	}

	schema := Schema{
		Prefix: sf.Prefix,
		Strict: sf.Strict,
	}

	if sf.Config.Kind == 0 {
		return schema, nil
	}
	if sf.Config.Kind != yaml.MappingNode {
		return Schema{}, fmt.Errorf("'config' must be a mapping (line %d)", sf.Config.Line)
	}

	seenPaths := make(map[string]bool)
	seenEnv := make(map[string]string)

	// Mapping node content alternates key, value
	for i := 0; i+1 < len(sf.Config.Content); i += 2 {
		keyNode, valueNode := sf.Config.Content[i], sf.Config.Content[i+1]
		path := keyNode.Value

		if path == "" {
			return Schema{}, fmt.Errorf("empty config key (line %d)", keyNode.Line)
		}
		if seenPaths[path] {
			return Schema{}, fmt.Errorf("duplicate config key: '%s'", path)
		}
		seenPaths[path] = true

		var entry configEntry
		if err := valueNode.Decode(&entry); err != nil {
			return Schema{}, fmt.Errorf("config '%s': %w", path, err)
		}

		key, err := entry.toConfigKey(path)
		if err != nil {
			return Schema{}, err
		}

		envVar := key.EnvVar()
		if !resolver.IsValidEnvVar(envVar) {
			return Schema{}, fmt.Errorf("config '%s': invalid env var name '%s'", path, envVar)
		}
		if other, ok := seenEnv[envVar]; ok {
			return Schema{}, fmt.Errorf("configs '%s' and '%s' both read env var '%s'", other, path, envVar)
		}
		seenEnv[envVar] = path

		// Building the field checks patterns, option lists and defaults
		if _, err := key.Field(); err != nil {
			return Schema{}, err
		}

		schema.Config = append(schema.Config, key)
	}

	return schema, nil
}

// toConfigKey validates the entry's fields against its type.
func (e configEntry) toConfigKey(path string) (ConfigKey, error) {
	configType := ConfigType(e.Type)

	// Validate type
	switch configType {
	case TypeString, TypeNumber, TypeBoolean, TypeEnum, TypeTuple:
	case "":
		return ConfigKey{}, fmt.Errorf("missing required field 'type' for config '%s'", path)
	default:
		return ConfigKey{}, fmt.Errorf("unknown type '%s' for config '%s'", e.Type, path)
	}

	// Option lists belong to enum and tuple
	if configType == TypeEnum || configType == TypeTuple {
		if len(e.Values) == 0 {
			return ConfigKey{}, fmt.Errorf("%s type requires 'values' for config '%s'", configType, path)
		}
		if e.OneOf != nil {
			return ConfigKey{}, fmt.Errorf("%s type takes 'values', not 'oneOf', for config '%s'", configType, path)
		}
	} else if e.Values != nil {
		return ConfigKey{}, fmt.Errorf("'values' is only valid for enum and tuple, config '%s'", path)
	}

	if configType != TypeNumber && (e.Min != nil || e.Max != nil || e.Integer) {
		return ConfigKey{}, fmt.Errorf("'min', 'max' and 'integer' are only valid for number, config '%s'", path)
	}
	if e.Min != nil && e.Max != nil && *e.Min > *e.Max {
		return ConfigKey{}, fmt.Errorf("'min' is greater than 'max' for config '%s'", path)
	}

	if configType != TypeString && (e.MinLength != nil || e.MaxLength != nil || e.Pattern != "") {
		return ConfigKey{}, fmt.Errorf("'minLength', 'maxLength' and 'pattern' are only valid for string, config '%s'", path)
	}
	if e.MinLength != nil && e.MaxLength != nil && *e.MinLength > *e.MaxLength {
		return ConfigKey{}, fmt.Errorf("'minLength' is greater than 'maxLength' for config '%s'", path)
	}

	required := e.Default == nil
	if e.Required != nil {
		if *e.Required && e.Default != nil {
			return ConfigKey{}, fmt.Errorf("config '%s' is required but declares a default", path)
		}
		required = *e.Required
	}

	return ConfigKey{
		Path:      path,
		Type:      configType,
		Required:  required,
		Default:   e.Default,
		Min:       e.Min,
		Max:       e.Max,
		Integer:   e.Integer,
		MinLength: e.MinLength,
		MaxLength: e.MaxLength,
		Pattern:   e.Pattern,
		OneOf:     e.OneOf,
		Values:    e.Values,
		Env:       e.Env,
		Secret:    e.Secret,
	}, nil
}

// ToYAML serializes a Schema back to YAML bytes, keeping key order
func (s Schema) ToYAML() ([]byte, error) {
	config := &yaml.Node{Kind: yaml.MappingNode}

	for _, key := range s.Config {
		entry := configEntry{
			Type:      string(key.Type),
			Default:   key.Default,
			Min:       key.Min,
			Max:       key.Max,
			Integer:   key.Integer,
			MinLength: key.MinLength,
			MaxLength: key.MaxLength,
			Pattern:   key.Pattern,
			OneOf:     key.OneOf,
			Values:    key.Values,
			Env:       key.Env,
			Secret:    key.Secret,
		}
		// Only write required when it differs from what the default implies
		if key.Required != (key.Default == nil) {
			required := key.Required
			entry.Required = &required
		}

		var value yaml.Node
		if err := value.Encode(entry); err != nil {
			return nil, fmt.Errorf("failed to encode config '%s': %w", key.Path, err)
		}
		config.Content = append(config.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key.Path},
			&value,
		)
	}

	return yaml.Marshal(&schemaFile{
		Prefix: s.Prefix,
		Strict: s.Strict,
		Config: *config,
	})
}

// LoadSchema reads and parses confex.yaml from the given directory
func LoadSchema(dir string) (Schema, error) {
	path := filepath.Join(dir, DefaultFileName)
	return LoadSchemaFromPath(path)
}

// LoadSchemaFromPath reads and parses a schema from the given file path
func LoadSchemaFromPath(path string) (Schema, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Schema{}, err
		}
		return Schema{}, fmt.Errorf("failed to read schema: %w", err)
	}

	return ParseSchema(content)
}
