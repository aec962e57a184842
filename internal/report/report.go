// Package report renders the outcome of a configuration check for
// terminals, CI annotations and machines.
package report

import (
	"time"

	"github.com/google/uuid"

	"confex/internal/artifact"
	"confex/internal/confex"
	"confex/internal/resolver"
	"confex/internal/validator"
)

// Masked replaces secret values in human-readable output.
const Masked = "********"

// Value sources.
const (
	SourceEnv     = "env"
	SourceDefault = "default"
)

// Value is one validated key as shown in a report.
type Value struct {
	Key    string `json:"key"`
	EnvVar string `json:"envVar"`
	Value  string `json:"value"`
	Source string `json:"source"` // env or default
	Secret bool   `json:"secret,omitempty"`
}

// Outcome is the result of one check run.
type Outcome struct {
	RunID         string                       `json:"runId"`
	Schema        string                       `json:"schema"`
	Valid         bool                         `json:"valid"`
	ConfigVersion string                       `json:"configVersion,omitempty"`
	Values        []Value                      `json:"values"`
	Errors        []*validator.ValidationError `json:"-"`
	Duration      time.Duration                `json:"-"`
	Artifact      *artifact.ConfigArtifact     `json:"-"`
}

// NewRunID returns a fresh identifier for a check run.
func NewRunID() string {
	return uuid.NewString()
}

// Build assembles the outcome of validating c against src. validateErr is
// the error returned by c.ValidateAll or c.Validate, nil on success.
func Build(runID, schemaPath string, c *confex.Confex, src resolver.Source, secrets map[string]bool, validateErr error) Outcome {
	o := Outcome{
		RunID:  runID,
		Schema: schemaPath,
		Valid:  validateErr == nil,
		Values: []Value{},
		Errors: maskErrors(c, secrets, confex.ValidationErrors(validateErr)),
	}

	values, err := c.Get()
	if err != nil {
		return o
	}

	art := artifact.GenerateArtifact(values, secrets)
	o.Artifact = &art
	o.ConfigVersion = art.ConfigVersion

	for _, rv := range c.Resolve(src) {
		v, ok := values.Get(rv.Key)
		if !ok {
			continue
		}
		entry := Value{
			Key:    rv.Key,
			EnvVar: rv.EnvVar,
			Value:  artifact.Stringify(v),
			Source: SourceEnv,
			Secret: secrets[rv.Key],
		}
		if !rv.Present {
			entry.Source = SourceDefault
		}
		if entry.Secret {
			entry.Value = Masked
		}
		o.Values = append(o.Values, entry)
	}
	return o
}

// maskErrors hides the received value of failures on secret keys.
func maskErrors(c *confex.Confex, secrets map[string]bool, errs []*validator.ValidationError) []*validator.ValidationError {
	secretVars := make(map[string]bool)
	for _, e := range c.Entries() {
		if secrets[e.Key] {
			secretVars[c.EnvVar(e)] = true
		}
	}

	masked := make([]*validator.ValidationError, len(errs))
	for i, err := range errs {
		if secretVars[err.Key] && !err.Actual.IsMissing() {
			copied := *err
			copied.Actual = validator.Text(Masked)
			err = &copied
		}
		masked[i] = err
	}
	return masked
}

// Defaulted returns the number of values filled in from defaults.
func (o Outcome) Defaulted() int {
	n := 0
	for _, v := range o.Values {
		if v.Source == SourceDefault {
			n++
		}
	}
	return n
}
