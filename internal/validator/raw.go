package validator

import (
	"math"
	"strconv"
)

// RawKind identifies which shape a raw input value has.
type RawKind uint8

const (
	RawMissing RawKind = iota // No value (environment variable not set)
	RawText                   // A string value
	RawNumber                 // A numeric value supplied programmatically
)

// Raw is the untyped input handed to a validator: absent, text or a number.
// These are the only shapes an environment variable source can produce.
type Raw struct {
	kind   RawKind
	text   string
	number float64
}

// Missing is the raw value of an unset key.
var Missing = Raw{}

// Text wraps a string input.
func Text(s string) Raw {
	return Raw{kind: RawText, text: s}
}

// Num wraps a numeric input.
func Num(f float64) Raw {
	return Raw{kind: RawNumber, number: f}
}

// Kind returns the shape of the raw value.
func (r Raw) Kind() RawKind {
	return r.kind
}

// IsMissing reports whether no value was supplied.
func (r Raw) IsMissing() bool {
	return r.kind == RawMissing
}

// String returns the stringified form of the value.
// Numbers use their shortest decimal form; a missing value renders as "undefined".
func (r Raw) String() string {
	switch r.kind {
	case RawText:
		return r.text
	case RawNumber:
		return FormatNumber(r.number)
	default:
		return "undefined"
	}
}

// quoted renders the value for error messages.
func (r Raw) quoted() string {
	if r.IsMissing() {
		return "undefined"
	}
	return strconv.Quote(r.String())
}

// FormatNumber renders f the way environment values are usually written:
// integers without a fraction, exponent notation only for very large or tiny values.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
