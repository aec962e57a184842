package schema

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/spf13/cast"

	"confex/internal/confex"
	"confex/internal/validator"
)

// Field builds the validator declared by k.
func (k ConfigKey) Field() (validator.Field, error) {
	switch k.Type {
	case TypeString:
		return k.stringField()
	case TypeNumber:
		return k.numberField()
	case TypeBoolean:
		return k.booleanField()
	case TypeEnum:
		return finish[any](k, validator.Enum(k.Values...))
	case TypeTuple:
		return finish[any](k, validator.Tuple(k.Values...))
	default:
		return nil, fmt.Errorf("unknown type '%s' for config '%s'", k.Type, k.Path)
	}
}

func (k ConfigKey) stringField() (validator.Field, error) {
	v := validator.String()
	if k.MinLength != nil {
		v = v.MinLength(*k.MinLength)
	}
	if k.MaxLength != nil {
		v = v.MaxLength(*k.MaxLength)
	}
	if k.Pattern != "" {
		re, err := regexp.Compile(k.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for config '%s': %w", k.Path, err)
		}
		v = v.Pattern(re)
	}
	if k.OneOf != nil {
		values, err := convertAll(k.OneOf, cast.ToStringE)
		if err != nil {
			return nil, fmt.Errorf("invalid oneOf for config '%s': %w", k.Path, err)
		}
		v = v.OneOf(values...)
	}
	return finish[string](k, v)
}

func (k ConfigKey) numberField() (validator.Field, error) {
	v := validator.Number()
	if k.Min != nil {
		v = v.Min(*k.Min)
	}
	if k.Max != nil {
		v = v.Max(*k.Max)
	}
	if k.Integer {
		v = v.Integer()
	}
	if k.OneOf != nil {
		values, err := convertAll(k.OneOf, cast.ToFloat64E)
		if err != nil {
			return nil, fmt.Errorf("invalid oneOf for config '%s': %w", k.Path, err)
		}
		v = v.OneOf(values...)
	}
	return finish[float64](k, v)
}

func (k ConfigKey) booleanField() (validator.Field, error) {
	v := validator.Boolean()
	if k.OneOf != nil {
		values, err := convertAll(k.OneOf, cast.ToBoolE)
		if err != nil {
			return nil, fmt.Errorf("invalid oneOf for config '%s': %w", k.Path, err)
		}
		v = v.OneOf(values...)
	}
	return finish[bool](k, v)
}

// configurable is the fluent surface shared by every validator kind.
type configurable[T any, V any] interface {
	validator.Validator[T]
	Optional() V
	Default(value T) V
}

// finish applies the default and required flag. The default is checked
// against the fully constrained validator so a schema cannot declare a
// default it would itself reject.
func finish[T any, V configurable[T, V]](k ConfigKey, v V) (validator.Field, error) {
	if k.Default != nil {
		raw, err := rawOf(k.Default)
		if err != nil {
			return nil, fmt.Errorf("invalid default for config '%s': %w", k.Path, err)
		}
		def, err := v.Validate(raw, k.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid default for config '%s': %w", k.Path, err)
		}
		return v.Default(def), nil
	}
	if !k.Required {
		return v.Optional(), nil
	}
	return v, nil
}

// rawOf converts a YAML scalar or sequence into validator input.
func rawOf(value any) (validator.Raw, error) {
	switch val := value.(type) {
	case string:
		return validator.Text(val), nil
	case int, int64, uint64, float64:
		return validator.Num(cast.ToFloat64(val)), nil
	case bool:
		return validator.Text(cast.ToString(val)), nil
	case []any:
		data, err := json.Marshal(val)
		if err != nil {
			return validator.Missing, err
		}
		return validator.Text(string(data)), nil
	default:
		return validator.Missing, fmt.Errorf("unsupported value %v (%T)", value, value)
	}
}

func convertAll[T any](values []any, convert func(any) (T, error)) ([]T, error) {
	out := make([]T, len(values))
	for i, value := range values {
		converted, err := convert(value)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}

// Build creates a runner for the schema: entries in declaration order,
// with the schema's prefix and strict flag.
func (s Schema) Build() (*confex.Confex, error) {
	b := confex.NewBuilder().WithPrefix(s.Prefix).StrictMode(s.Strict)
	for _, k := range s.Config {
		f, err := k.Field()
		if err != nil {
			return nil, err
		}
		b.Entry(confex.Field(k.Path, f).Env(k.EnvVar()))
	}
	return b.Build(), nil
}
