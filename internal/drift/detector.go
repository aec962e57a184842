package drift

import (
	"slices"
	"time"

	"confex/internal/artifact"
	"confex/internal/baseline"
)

// ChangeType represents the type of configuration change.
type ChangeType string

const (
	Added   ChangeType = "added"   // Key in current but not baseline
	Removed ChangeType = "removed" // Key in baseline but not current
	Changed ChangeType = "changed" // Key in both with different values
)

// Change represents a single key's drift.
type Change struct {
	Key           string     `json:"key"`
	Type          ChangeType `json:"type"`
	BaselineValue string     `json:"baselineValue,omitempty"`
	CurrentValue  string     `json:"currentValue,omitempty"`
}

// Report contains the full drift analysis.
type Report struct {
	HasDrift        bool      `json:"hasDrift"`
	BaselineName    string    `json:"baselineName"`
	BaselineVersion string    `json:"baselineVersion"`
	CurrentVersion  string    `json:"currentVersion"`
	BaselineTime    time.Time `json:"baselineTime"`
	Changes         []Change  `json:"changes"`
}

// Count returns the number of changes of type t.
func (r Report) Count(t ChangeType) int {
	n := 0
	for _, c := range r.Changes {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Detect compares the current artifact against a baseline. Changes are
// sorted by key.
func Detect(b baseline.Baseline, current artifact.ConfigArtifact) Report {
	report := Report{
		BaselineName:    b.Name,
		BaselineVersion: b.ConfigVersion,
		CurrentVersion:  current.ConfigVersion,
		BaselineTime:    b.Timestamp,
		Changes:         []Change{},
	}

	// Equal versions mean equal values
	if b.ConfigVersion == current.ConfigVersion {
		return report
	}

	keys := make([]string, 0, len(b.Values))
	for k := range b.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for k := range current.Values {
		if _, ok := b.Values[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, key := range keys {
		before, inBaseline := b.Values[key]
		after, inCurrent := current.Values[key]

		switch {
		case inBaseline && !inCurrent:
			report.Changes = append(report.Changes, Change{Key: key, Type: Removed, BaselineValue: before})
		case !inBaseline && inCurrent:
			report.Changes = append(report.Changes, Change{Key: key, Type: Added, CurrentValue: after})
		case before != after:
			report.Changes = append(report.Changes, Change{Key: key, Type: Changed, BaselineValue: before, CurrentValue: after})
		}
	}

	report.HasDrift = len(report.Changes) > 0
	return report
}
