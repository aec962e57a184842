package drift

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatCLI formats a drift report for terminal output.
func FormatCLI(report Report) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Configuration drift detected since baseline '%s':\n", report.BaselineName)

	for _, change := range report.Changes {
		switch change.Type {
		case Added:
			fmt.Fprintf(&sb, "  + %s: (new) -> %s\n", change.Key, change.CurrentValue)
		case Removed:
			fmt.Fprintf(&sb, "  - %s: %s -> (removed)\n", change.Key, change.BaselineValue)
		case Changed:
			fmt.Fprintf(&sb, "  ~ %s: %s -> %s\n", change.Key, change.BaselineValue, change.CurrentValue)
		}
	}

	return sb.String()
}

// FormatCI formats a drift report as GitHub Actions warning annotations
// attached to file.
func FormatCI(report Report, file string) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder

	for _, change := range report.Changes {
		var msg string
		switch change.Type {
		case Added:
			msg = fmt.Sprintf("Config drift: %s added (value: %s)", change.Key, change.CurrentValue)
		case Removed:
			msg = fmt.Sprintf("Config drift: %s removed (was: %s)", change.Key, change.BaselineValue)
		case Changed:
			msg = fmt.Sprintf("Config drift: %s changed from '%s' to '%s'", change.Key, change.BaselineValue, change.CurrentValue)
		}
		fmt.Fprintf(&sb, "::warning file=%s::%s\n", file, msg)
	}

	fmt.Fprintf(&sb, "Configuration drift detected: %d change(s) since baseline '%s'\n", len(report.Changes), report.BaselineName)
	return sb.String()
}

// FormatJSON formats a drift report as JSON.
func FormatJSON(report Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
