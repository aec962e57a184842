package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Feature: confex, Property 1: Missing Required Error Message
// For any missing required key, the formatted message SHALL name the key
// and the error SHALL carry the missing kind.
func TestFormatError_MissingRequired_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("missing required error contains key", prop.ForAll(
		func(key string) bool {
			err := MissingRequired(key, "string")
			formatted := FormatError(err)
			return strings.HasPrefix(formatted, key+":") &&
				strings.HasSuffix(formatted, "required but not set")
		},
		gen.Identifier(),
	))

	properties.Property("missing required error renders undefined", prop.ForAll(
		func(key string) bool {
			return strings.HasSuffix(MissingRequired(key, "number").Error(), "received undefined")
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

// Feature: confex, Property 2: Not Allowed Error Message
// For any value outside an allowed set, the formatted message SHALL contain
// the value and the allowed description.
func TestFormatError_NotAllowed_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("not allowed error contains value and allowed set", prop.ForAll(
		func(key, value string, allowed []string) bool {
			if len(allowed) == 0 {
				return true
			}
			_, err := String().OneOf(allowed...).Validate(Text(value), key)
			if err == nil {
				// value happened to be one of the allowed set
				return true
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return false
			}
			formatted := FormatError(verr)
			for _, a := range allowed {
				if !strings.Contains(formatted, a) {
					return false
				}
			}
			return strings.Contains(formatted, "'"+value+"' is not valid")
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.SliceOfN(3, gen.Identifier()),
	))

	properties.TestingRun(t)
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "missing",
			err:  MissingRequired("PORT", "number"),
			want: `validation failed for "PORT" (environment variable is required but not set): expected number, received undefined`,
		},
		{
			name: "type",
			err:  TypeMismatch("PORT", "number", Text("abc")),
			want: `validation failed for "PORT" (type validation failed): expected number, received "abc"`,
		},
		{
			name: "constraint",
			err:  ConstraintViolation("PORT", ">= 10", Num(5)),
			want: `validation failed for "PORT" (constraint validation failed): expected >= 10, received "5"`,
		},
		{
			name: "no key",
			err:  &ValidationError{Kind: KindType, Expected: "number", Actual: Text("x")},
			want: `validation failed for value: expected number, received "x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{"missing", MissingRequired("DB_URL", "string"), "DB_URL: required but not set"},
		{"type", TypeMismatch("PORT", "number", Text("abc")), "PORT: 'abc' is invalid, expected number"},
		{"constraint", ConstraintViolation("PORT", "<= 65535", Text("70000")), "PORT: '70000' is invalid, expected <= 65535"},
		{"not allowed", NotAllowed("ENV", `one of "dev" | "prod"`, Text("stage")), `ENV: 'stage' is not valid, must be one of "dev" | "prod"`},
		{"unknown", UnknownKey("APP_EXTRA", "APP_", Text("1")), "APP_EXTRA: not declared in schema (strict mode)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatError(tt.err); got != tt.want {
				t.Errorf("FormatError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatErrors(t *testing.T) {
	errs := []*ValidationError{
		MissingRequired("A", "string"),
		TypeMismatch("B", "number", Text("x")),
	}

	got := FormatErrors(errs)
	if len(got) != 2 {
		t.Fatalf("FormatErrors() returned %d messages, want 2", len(got))
	}
	if got[0] != "A: required but not set" {
		t.Errorf("got[0] = %q", got[0])
	}
	if got[1] != "B: 'x' is invalid, expected number" {
		t.Errorf("got[1] = %q", got[1])
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		kind ErrorKind
	}{
		{MissingRequired("K", "string"), KindMissing},
		{TypeMismatch("K", "number", Text("x")), KindType},
		{ConstraintViolation("K", ">= 1", Text("0")), KindConstraint},
		{NotAllowed("K", `one of "a"`, Text("b")), KindNotAllowed},
		{UnknownKey("K", "P_", Text("v")), KindUnknown},
	}

	for _, tt := range tests {
		if tt.err.Kind != tt.kind {
			t.Errorf("%s: Kind = %s, want %s", tt.err.Key, tt.err.Kind, tt.kind)
		}
		if tt.err.Context == "" {
			t.Errorf("%s: Context should not be empty", tt.kind)
		}
	}
}
