package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"confex/internal/validator"
)

// FormatCLI formats an outcome for terminal output.
func FormatCLI(o Outcome) string {
	var sb strings.Builder

	if !o.Valid {
		fmt.Fprintf(&sb, "Configuration invalid (%d error(s)):\n", len(o.Errors))
		for _, msg := range validator.FormatErrors(o.Errors) {
			fmt.Fprintf(&sb, "  %s\n", msg)
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "Configuration valid (%s)\n", o.ConfigVersion)
	width := 0
	for _, v := range o.Values {
		width = max(width, len(v.EnvVar))
	}
	for _, v := range o.Values {
		suffix := ""
		if v.Source == SourceDefault {
			suffix = " (default)"
		}
		fmt.Fprintf(&sb, "  %-*s = %s%s\n", width, v.EnvVar, v.Value, suffix)
	}
	return sb.String()
}

// FormatCI formats an outcome as GitHub Actions annotations attached to
// the schema file.
func FormatCI(o Outcome) string {
	var sb strings.Builder

	for _, msg := range validator.FormatErrors(o.Errors) {
		fmt.Fprintf(&sb, "::error file=%s::%s\n", o.Schema, msg)
	}
	if o.Valid {
		fmt.Fprintf(&sb, "::notice file=%s::Configuration valid (%d keys, %d defaulted)\n", o.Schema, len(o.Values), o.Defaulted())
	}
	return sb.String()
}

type errorJSON struct {
	Key      string `json:"key"`
	Kind     string `json:"kind"`
	Expected string `json:"expected"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message"`
}

type outcomeJSON struct {
	Outcome
	Errors     []errorJSON `json:"errors"`
	DurationMs float64     `json:"durationMs"`
}

// FormatJSON formats an outcome as JSON.
func FormatJSON(o Outcome) (string, error) {
	out := outcomeJSON{
		Outcome:    o,
		Errors:     make([]errorJSON, 0, len(o.Errors)),
		DurationMs: float64(o.Duration.Microseconds()) / 1000,
	}
	for _, err := range o.Errors {
		e := errorJSON{
			Key:      err.Key,
			Kind:     string(err.Kind),
			Expected: err.Expected,
			Message:  validator.FormatError(err),
		}
		if !err.Actual.IsMissing() {
			e.Actual = err.Actual.String()
		}
		out.Errors = append(out.Errors, e)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
