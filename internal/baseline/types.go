package baseline

import (
	"time"

	"confex/internal/artifact"
)

// Baseline is a named, known-good configuration used for drift comparison.
type Baseline struct {
	Name          string            `json:"name"`          // Baseline identifier
	RunID         string            `json:"runId"`         // Run that recorded the baseline
	ConfigVersion string            `json:"configVersion"` // Artifact hash
	Values        map[string]string `json:"values"`        // Artifact values, secrets fingerprinted
	Schema        string            `json:"schema"`        // Schema file the values were validated against
	Timestamp     time.Time         `json:"timestamp"`     // When the baseline was recorded
}

// Summary is a lightweight view for listing baselines.
type Summary struct {
	Name          string    `json:"name"`
	ConfigVersion string    `json:"configVersion"`
	Keys          int       `json:"keys"`
	Schema        string    `json:"schema"`
	Timestamp     time.Time `json:"timestamp"`
}

// FromArtifact records art as a baseline.
func FromArtifact(name, runID, schemaPath string, art artifact.ConfigArtifact, now time.Time) Baseline {
	values := make(map[string]string, len(art.Values))
	for k, v := range art.Values {
		values[k] = v
	}
	return Baseline{
		Name:          name,
		RunID:         runID,
		ConfigVersion: art.ConfigVersion,
		Values:        values,
		Schema:        schemaPath,
		Timestamp:     now.UTC(),
	}
}

// Artifact returns the baseline's values as an artifact.
func (b Baseline) Artifact() artifact.ConfigArtifact {
	return artifact.ConfigArtifact{
		ConfigVersion: b.ConfigVersion,
		Values:        b.Values,
	}
}

// Summary returns the listing view of b.
func (b Baseline) Summary() Summary {
	return Summary{
		Name:          b.Name,
		ConfigVersion: b.ConfigVersion,
		Keys:          len(b.Values),
		Schema:        b.Schema,
		Timestamp:     b.Timestamp,
	}
}
