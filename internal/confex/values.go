package confex

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Values is the ordered, typed result of a successful validation.
type Values struct {
	keys []string
	m    map[string]any
}

func newValues(capacity int) Values {
	return Values{
		keys: make([]string, 0, capacity),
		m:    make(map[string]any, capacity),
	}
}

func (v *Values) set(key string, value any) {
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = value
}

// Keys returns the keys in schema declaration order.
func (v Values) Keys() []string {
	return slices.Clone(v.keys)
}

// Get returns the value stored under key.
func (v Values) Get(key string) (any, bool) {
	value, ok := v.m[key]
	return value, ok
}

// Len returns the number of values.
func (v Values) Len() int {
	return len(v.keys)
}

// Map returns a copy of the values as a plain map.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v.m))
	for k, value := range v.m {
		out[k] = value
	}
	return out
}

// Equal reports whether v and other hold the same keys, order and values.
func (v Values) Equal(other Values) bool {
	if !slices.Equal(v.keys, other.keys) {
		return false
	}
	for _, k := range v.keys {
		if !reflect.DeepEqual(v.m[k], other.m[k]) {
			return false
		}
	}
	return true
}

// Decode copies the values into the struct pointed to by out. Fields are
// matched by their `confex` tag, falling back to a case-insensitive match
// on the field name. Numbers decode into any numeric kind, and into
// time.Duration as milliseconds.
func (v Values) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "confex",
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			millisecondsToDuration,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(v.m); err != nil {
		return fmt.Errorf("failed to decode values: %w", err)
	}
	return nil
}

func millisecondsToDuration(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) || from.Kind() != reflect.Float64 {
		return data, nil
	}
	return time.Duration(data.(float64) * float64(time.Millisecond)), nil
}

// Value returns the value under key as a T.
func Value[T any](v Values, key string) (T, error) {
	var zero T

	raw, ok := v.m[key]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, not %T", ErrWrongType, key, raw, zero)
	}
	return typed, nil
}
