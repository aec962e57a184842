package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"confex/internal/confex"
	"confex/internal/validator"
)

// ConfigArtifact is the canonical record of one validated configuration.
type ConfigArtifact struct {
	ConfigVersion string            `json:"configVersion"` // sha256:hex
	Values        map[string]string `json:"values"`
}

// GenerateArtifact builds an artifact from validated values. Values of keys
// in secrets are replaced by their fingerprint so the artifact can be
// stored and compared without exposing them.
func GenerateArtifact(values confex.Values, secrets map[string]bool) ConfigArtifact {
	out := make(map[string]string, values.Len())
	for _, key := range values.Keys() {
		value, _ := values.Get(key)
		s := Stringify(value)
		if secrets[key] {
			s = Fingerprint(s)
		}
		out[key] = s
	}

	return ConfigArtifact{
		ConfigVersion: ComputeConfigVersion(out),
		Values:        out,
	}
}

// Stringify renders a validated value in its environment form: numbers in
// shortest decimal form, composite values as compact JSON.
func Stringify(value any) string {
	switch v := value.(type) {
	case float64:
		return validator.FormatNumber(v)
	case string:
		return v
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return cast.ToString(value)
	}
	return string(data)
}

// Fingerprint returns a stable, non-reversible stand-in for a secret value.
func Fingerprint(value string) string {
	hash := sha256.Sum256([]byte(value))
	return "sha256:" + hex.EncodeToString(hash[:8])
}

// ComputeConfigVersion computes a deterministic hash of config values.
// The hash is computed from canonical JSON (sorted keys, no whitespace).
func ComputeConfigVersion(values map[string]string) string {
	hash := sha256.Sum256(canonicalValuesJSON(values))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// ErrVersionMismatch is returned when an artifact's version does not match its values.
var ErrVersionMismatch = errors.New("artifact version does not match its values")

// Parse decodes an artifact and checks its version against its values.
func Parse(data []byte) (ConfigArtifact, error) {
	var a ConfigArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return ConfigArtifact{}, fmt.Errorf("invalid artifact: %w", err)
	}
	if a.Values == nil {
		a.Values = map[string]string{}
	}
	if want := ComputeConfigVersion(a.Values); a.ConfigVersion != want {
		return ConfigArtifact{}, fmt.Errorf("%w: got %s, want %s", ErrVersionMismatch, a.ConfigVersion, want)
	}
	return a, nil
}

// ToCanonicalJSON returns the artifact as canonical JSON with sorted keys.
func (a ConfigArtifact) ToCanonicalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ConfigVersion string          `json:"configVersion"`
		Values        json.RawMessage `json:"values"`
	}{a.ConfigVersion, canonicalValuesJSON(a.Values)})
}

// ToJSON returns the artifact as pretty-printed JSON.
func (a ConfigArtifact) ToJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// canonicalValuesJSON encodes values with sorted keys. encoding/json sorts
// map keys, and a nil map encodes as {} rather than null.
func canonicalValuesJSON(values map[string]string) []byte {
	if values == nil {
		values = map[string]string{}
	}
	data, _ := json.Marshal(values)
	return data
}
