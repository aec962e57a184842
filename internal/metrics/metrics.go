// Package metrics exposes the outcome of configuration checks as
// Prometheus metrics, written to a node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"confex/internal/drift"
	"confex/internal/report"
)

// Collector holds the check metrics in its own registry.
//
// Metrics:
//   - confex_checks_total: Checks by result (valid, invalid)
//   - confex_validation_errors_total: Failures by kind
//   - confex_config_keys: Declared keys in the last check
//   - confex_config_defaulted_keys: Keys filled in from defaults in the last check
//   - confex_check_duration_seconds: Time spent validating
//   - confex_last_success_timestamp_seconds: Time of the last valid check
//   - confex_config_info: Constant 1, labelled with the config version
//   - confex_drift_changes: Drift changes by type against the compared baseline
type Collector struct {
	registry *prometheus.Registry

	checksTotal  *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	keys         prometheus.Gauge
	defaulted    prometheus.Gauge
	duration     prometheus.Histogram
	lastSuccess  prometheus.Gauge
	configInfo   *prometheus.GaugeVec
	driftChanges *prometheus.GaugeVec
}

// NewCollector creates a collector registered with a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "confex",
				Name:      "checks_total",
				Help:      "Total number of configuration checks by result",
			},
			[]string{"result"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "confex",
				Name:      "validation_errors_total",
				Help:      "Total number of validation failures by kind",
			},
			[]string{"kind"},
		),
		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "confex",
			Name:      "config_keys",
			Help:      "Number of keys declared in the checked schema",
		}),
		defaulted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "confex",
			Name:      "config_defaulted_keys",
			Help:      "Number of keys filled in from defaults",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "confex",
			Name:      "check_duration_seconds",
			Help:      "Duration of configuration validation in seconds",
			// Validation is in-memory, expect well under a millisecond
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "confex",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last valid configuration check",
		}),
		configInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "confex",
				Name:      "config_info",
				Help:      "Constant 1, labelled with the validated config version",
			},
			[]string{"version"},
		),
		driftChanges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "confex",
				Name:      "drift_changes",
				Help:      "Number of keys that drifted from the compared baseline, by change type",
			},
			[]string{"baseline", "type"},
		),
	}

	c.registry.MustRegister(
		c.checksTotal,
		c.errorsTotal,
		c.keys,
		c.defaulted,
		c.duration,
		c.lastSuccess,
		c.configInfo,
		c.driftChanges,
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordCheck records one check outcome. declared is the number of keys
// in the schema.
func (c *Collector) RecordCheck(o report.Outcome, declared int, now time.Time) {
	c.duration.Observe(o.Duration.Seconds())
	c.keys.Set(float64(declared))

	for _, err := range o.Errors {
		c.errorsTotal.WithLabelValues(string(err.Kind)).Inc()
	}

	if !o.Valid {
		c.checksTotal.WithLabelValues("invalid").Inc()
		return
	}

	c.checksTotal.WithLabelValues("valid").Inc()
	c.defaulted.Set(float64(o.Defaulted()))
	c.lastSuccess.Set(float64(now.Unix()))
	c.configInfo.Reset()
	c.configInfo.WithLabelValues(o.ConfigVersion).Set(1)
}

// RecordDrift records the change counts of a drift report.
func (c *Collector) RecordDrift(r drift.Report) {
	for _, t := range []drift.ChangeType{drift.Added, drift.Removed, drift.Changed} {
		c.driftChanges.WithLabelValues(r.BaselineName, string(t)).Set(float64(r.Count(t)))
	}
}

// WriteTextfile writes the metrics in the text exposition format to path,
// replacing the file atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
