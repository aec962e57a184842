package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"confex/internal/artifact"
	"confex/internal/baseline"
	"confex/internal/drift"
	"confex/internal/report"
	"confex/internal/validator"
)

func TestRecordCheck_Valid(t *testing.T) {
	c := NewCollector()
	now := time.Unix(1700000000, 0)

	c.RecordCheck(report.Outcome{
		Valid:         true,
		ConfigVersion: "sha256:abc",
		Values: []report.Value{
			{Key: "A", Source: report.SourceEnv},
			{Key: "B", Source: report.SourceDefault},
		},
		Duration: 2 * time.Millisecond,
	}, 2, now)

	require.Equal(t, 1.0, testutil.ToFloat64(c.checksTotal.WithLabelValues("valid")))
	require.Equal(t, 0.0, testutil.ToFloat64(c.checksTotal.WithLabelValues("invalid")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.keys))
	require.Equal(t, 1.0, testutil.ToFloat64(c.defaulted))
	require.Equal(t, float64(now.Unix()), testutil.ToFloat64(c.lastSuccess))
	require.Equal(t, 1.0, testutil.ToFloat64(c.configInfo.WithLabelValues("sha256:abc")))
	require.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestRecordCheck_Invalid(t *testing.T) {
	c := NewCollector()

	c.RecordCheck(report.Outcome{
		Valid: false,
		Errors: []*validator.ValidationError{
			validator.MissingRequired("A", "string"),
			validator.MissingRequired("B", "string"),
			validator.TypeMismatch("C", "number", validator.Text("x")),
		},
	}, 3, time.Now())

	require.Equal(t, 1.0, testutil.ToFloat64(c.checksTotal.WithLabelValues("invalid")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.errorsTotal.WithLabelValues("missing")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.errorsTotal.WithLabelValues("type")))
	require.Equal(t, 0.0, testutil.ToFloat64(c.lastSuccess))
	require.Equal(t, 0, testutil.CollectAndCount(c.configInfo))
}

func TestRecordDrift(t *testing.T) {
	before := map[string]string{"A": "1", "B": "2"}
	after := map[string]string{"A": "10", "C": "3"}
	b := baseline.FromArtifact("prod", "run", "confex.yaml",
		artifact.ConfigArtifact{ConfigVersion: artifact.ComputeConfigVersion(before), Values: before}, time.Now())

	c := NewCollector()
	c.RecordDrift(drift.Detect(b, artifact.ConfigArtifact{ConfigVersion: artifact.ComputeConfigVersion(after), Values: after}))

	require.Equal(t, 1.0, testutil.ToFloat64(c.driftChanges.WithLabelValues("prod", "added")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.driftChanges.WithLabelValues("prod", "removed")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.driftChanges.WithLabelValues("prod", "changed")))
}

func TestWriteTextfile(t *testing.T) {
	c := NewCollector()
	c.RecordCheck(report.Outcome{Valid: true, ConfigVersion: "sha256:abc"}, 0, time.Now())

	path := filepath.Join(t.TempDir(), "confex.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, `confex_checks_total{result="valid"} 1`)
	require.Contains(t, text, `confex_config_info{version="sha256:abc"} 1`)
	require.True(t, strings.Contains(text, "# HELP confex_check_duration_seconds"))
}
