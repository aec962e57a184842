package confex

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"confex/internal/resolver"
	"confex/internal/validator"
)

func fullSchema() *Confex {
	return New(
		Field("PORT", validator.Number().Default(3000)),
		Field("DEBUG", validator.Boolean().Default(false)),
		Field("ENV", validator.String().Default("production")),
	)
}

func TestValidate_FullSchemaScenario(t *testing.T) {
	src := resolver.Map(map[string]string{"PORT": "8080", "DEBUG": "true"})

	c, err := fullSchema().Validate(src)
	require.NoError(t, err)
	require.True(t, c.IsValidated())

	values, err := c.Get()
	require.NoError(t, err)
	require.Equal(t, []string{"PORT", "DEBUG", "ENV"}, values.Keys())
	require.Equal(t, map[string]any{"PORT": 8080.0, "DEBUG": true, "ENV": "production"}, values.Map())
}

func TestValidate_Preconditions(t *testing.T) {
	c := fullSchema()
	require.False(t, c.IsValidated())

	_, err := c.Get()
	require.ErrorIs(t, err, ErrNotValidated)

	_, err = c.GetValue("PORT")
	require.ErrorIs(t, err, ErrNotValidated)

	_, err = Lookup[float64](c, "PORT")
	require.ErrorIs(t, err, ErrNotValidated)

	_, err = c.Validate(resolver.Map(nil))
	require.NoError(t, err)
	require.True(t, c.IsValidated())

	port, err := c.GetValue("PORT")
	require.NoError(t, err)
	require.Equal(t, 3000.0, port)

	_, err = c.GetValue("MISSING")
	require.ErrorIs(t, err, ErrUnknownKey)
}

func TestValidate_FailureResetsState(t *testing.T) {
	c := New(Field("PORT", validator.Number().Min(1)))

	_, err := c.Validate(resolver.Map(map[string]string{"PORT": "80"}))
	require.NoError(t, err)
	require.True(t, c.IsValidated())

	_, err = c.Validate(resolver.Map(map[string]string{"PORT": "0"}))
	require.Error(t, err)
	require.False(t, c.IsValidated())

	_, err = c.Get()
	require.ErrorIs(t, err, ErrNotValidated)
}

func TestValidate_FirstFailureWins(t *testing.T) {
	c := New(
		Field("A", validator.String()),
		Field("B", validator.Number()),
		Field("C", validator.Boolean()),
	)

	_, err := c.Validate(resolver.Map(map[string]string{"A": "ok", "B": "x", "C": "maybe"}))

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "B", verr.Key)
	require.Equal(t, validator.KindType, verr.Kind)
}

func TestValidateAll_CollectsInOrder(t *testing.T) {
	c := New(
		Field("A", validator.String()),
		Field("B", validator.Number()),
		Field("C", validator.Boolean()),
		Field("D", validator.Enum("x", "y")),
	)

	_, err := c.ValidateAll(resolver.Map(map[string]string{"B": "x", "C": "true", "D": "z"}))

	var aggr *AggregateError
	require.ErrorAs(t, err, &aggr)

	verrs := ValidationErrors(err)
	require.Len(t, verrs, 3)
	require.Equal(t, "A", verrs[0].Key)
	require.Equal(t, validator.KindMissing, verrs[0].Kind)
	require.Equal(t, "B", verrs[1].Key)
	require.Equal(t, "D", verrs[2].Key)
	require.Equal(t, validator.KindNotAllowed, verrs[2].Kind)
	require.False(t, c.IsValidated())
}

func TestNew_DuplicateKeyReplacesInPlace(t *testing.T) {
	c := New(
		Field("A", validator.String()),
		Field("B", validator.String()),
		Field("A", validator.Number().Default(1)),
	)

	entries := c.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "A", entries[0].Key)

	_, err := c.Validate(resolver.Map(map[string]string{"B": "b"}))
	require.NoError(t, err)

	a, err := Lookup[float64](c, "A")
	require.NoError(t, err)
	require.Equal(t, 1.0, a)
}

func TestEntry_Env(t *testing.T) {
	c := New(Field("db.url", validator.String()).Env("DATABASE_URL"))

	_, err := c.Validate(resolver.Map(map[string]string{"DATABASE_URL": "postgres://db"}))
	require.NoError(t, err)

	url, err := Lookup[string](c, "db.url")
	require.NoError(t, err)
	require.Equal(t, "postgres://db", url)
}

func TestBuilder_PrefixKeepsShortKeys(t *testing.T) {
	c := NewBuilder().
		Field("PORT", validator.Number()).
		Field("HOST", validator.String().Default("localhost")).
		WithPrefix("APP_").
		Build()

	src := resolver.Map(map[string]string{"APP_PORT": "9000", "PORT": "1"})
	_, err := c.Validate(src)
	require.NoError(t, err)

	values, err := c.Get()
	require.NoError(t, err)
	require.Equal(t, []string{"PORT", "HOST"}, values.Keys())

	port, err := Value[float64](values, "PORT")
	require.NoError(t, err)
	require.Equal(t, 9000.0, port)

	_, ok := values.Get("APP_PORT")
	require.False(t, ok)
}

func TestBuilder_PrefixErrorNamesFullVariable(t *testing.T) {
	c := NewBuilder().Field("PORT", validator.Number()).WithPrefix("APP_").Build()

	_, err := c.Validate(resolver.Map(nil))

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "APP_PORT", verr.Key)
}

func TestBuilder_StrictMode(t *testing.T) {
	src := resolver.Map(map[string]string{
		"APP_PORT":  "80",
		"APP_ZZZ":   "1",
		"APP_EXTRA": "2",
		"OTHER":     "3",
	})

	strict := NewBuilder().Field("PORT", validator.Number()).WithPrefix("APP_").StrictMode(true).Build()
	_, err := strict.ValidateAll(src)

	verrs := ValidationErrors(err)
	require.Len(t, verrs, 2)
	require.Equal(t, "APP_EXTRA", verrs[0].Key)
	require.Equal(t, "APP_ZZZ", verrs[1].Key)
	require.Equal(t, validator.KindUnknown, verrs[0].Kind)

	_, err = strict.Validate(src)
	require.Len(t, ValidationErrors(err), 1)

	lenient := NewBuilder().Field("PORT", validator.Number()).WithPrefix("APP_").Build()
	_, err = lenient.Validate(src)
	require.NoError(t, err)
}

func TestBuilder_StrictWithoutPrefixIsNoop(t *testing.T) {
	c := NewBuilder().Field("PORT", validator.Number()).StrictMode(true).Build()

	_, err := c.Validate(resolver.Map(map[string]string{"PORT": "1", "UNRELATED": "x"}))
	require.NoError(t, err)
	require.True(t, c.Strict())
}

func TestBuilder_BuildIsIndependent(t *testing.T) {
	b := NewBuilder().Field("A", validator.String())
	first := b.Build()
	b.Field("B", validator.String())

	require.Len(t, first.Entries(), 1)
	require.Len(t, b.Build().Entries(), 2)
}

func TestDefine(t *testing.T) {
	values, err := Define(resolver.Map(map[string]string{"LEVEL": "info"}),
		Field("LEVEL", validator.Enum("debug", "info")),
	)
	require.NoError(t, err)

	level, err := Value[string](values, "LEVEL")
	require.NoError(t, err)
	require.Equal(t, "info", level)

	_, err = Value[bool](values, "LEVEL")
	require.ErrorIs(t, err, ErrWrongType)

	_, err = Define(resolver.Map(nil), Field("LEVEL", validator.Enum("debug", "info")))
	require.Error(t, err)
}

func TestValues_Decode(t *testing.T) {
	type settings struct {
		Port    int           `confex:"PORT"`
		Debug   bool          `confex:"DEBUG"`
		Env     string        `confex:"ENV"`
		Timeout time.Duration `confex:"TIMEOUT"`
		Hosts   []string      `confex:"HOSTS"`
	}

	values, err := Define(resolver.Map(map[string]string{"PORT": "8080", "HOSTS": "a,b"}),
		Field("PORT", validator.Number().Integer()),
		Field("DEBUG", validator.Boolean().Default(true)),
		Field("ENV", validator.String().Default("production")),
		Field("TIMEOUT", validator.Number().Default(1500)),
		Field("HOSTS", validator.String()),
	)
	require.NoError(t, err)

	var s settings
	require.NoError(t, values.Decode(&s))
	require.Equal(t, settings{
		Port:    8080,
		Debug:   true,
		Env:     "production",
		Timeout: 1500 * time.Millisecond,
		Hosts:   []string{"a", "b"},
	}, s)
}

func TestAggregateError_Unwrap(t *testing.T) {
	missing := validator.MissingRequired("A", "string")
	err := &AggregateError{Errors: []error{missing, validator.MissingRequired("B", "string")}}

	require.ErrorIs(t, err, missing)
	require.Contains(t, err.Error(), "2 validation errors")

	single := &AggregateError{Errors: []error{missing}}
	require.Equal(t, missing.Error(), single.Error())

	require.Nil(t, ValidationErrors(errors.New("plain")))
}

// Feature: confex, Property 9: Validation Idempotence
// Re-validating the same schema against an unchanged source SHALL yield an
// identical result.
func TestValidate_Idempotent_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("two passes over the same source agree", prop.ForAll(
		func(port int, debug bool, env string) bool {
			src := resolver.Map(map[string]string{
				"PORT":  validator.FormatNumber(float64(port)),
				"DEBUG": map[bool]string{true: "true", false: "0"}[debug],
				"ENV":   env,
			})
			c := fullSchema()

			if _, err := c.Validate(src); err != nil {
				return false
			}
			first, _ := c.Get()
			if _, err := c.Validate(src); err != nil {
				return false
			}
			second, _ := c.Get()
			return first.Equal(second)
		},
		gen.IntRange(1, 65535),
		gen.Bool(),
		gen.AlphaString(),
	))

	properties.Property("missing keys always take their defaults", prop.ForAll(
		func(extra map[string]string) bool {
			src := resolver.Map(map[string]string{})
			for k, v := range extra {
				if k != "PORT" && k != "DEBUG" && k != "ENV" {
					src[k] = v
				}
			}
			values, err := Define(src, fullSchema().Entries()...)
			return err == nil && values.Equal(mustDefaults())
		},
		gen.MapOf(gen.Identifier(), gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func mustDefaults() Values {
	v := newValues(3)
	v.set("PORT", 3000.0)
	v.set("DEBUG", false)
	v.set("ENV", "production")
	return v
}
