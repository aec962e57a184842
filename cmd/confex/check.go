package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"confex/internal/artifact"
	"confex/internal/baseline"
	"confex/internal/confex"
	"confex/internal/drift"
	"confex/internal/metrics"
	"confex/internal/report"
	"confex/internal/resolver"
	"confex/internal/schema"
)

// checkFlags are shared by check and run.
type checkFlags struct {
	json         bool
	ci           bool
	failFast     bool
	artifactFile string
	metricsFile  string
	baseline     string
	detectDrift  string
}

func (f *checkFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&f.ci, "ci", false, "print GitHub Actions annotations (also $CONFEX_CI or $CI)")
	cmd.Flags().BoolVar(&f.failFast, "fail-fast", false, "stop at the first invalid key")
	cmd.Flags().StringVar(&f.artifactFile, "artifact-file", "", "write the config artifact to this file")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")
	cmd.Flags().StringVar(&f.baseline, "baseline", "", "save the config artifact as a named baseline")
	cmd.Flags().StringVar(&f.detectDrift, "detect-drift", "", "compare the config artifact with a named baseline")
}

// checkResult is a finished validation pass.
type checkResult struct {
	schema  schema.Schema
	runner  *confex.Confex
	source  resolver.Source
	outcome report.Outcome
}

func (a *app) checkCommand() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the environment against the schema",
		Long: `Validate every key declared in the schema and report the result.

All failures are reported together unless --fail-fast is given. On success
the validated values are printed, secrets masked, along with the config
version.

Examples:
  # Validate using ./confex.yaml
  confex check

  # Emit CI annotations and keep the artifact
  confex check --ci --artifact-file config.json

  # Record a baseline, then compare a later run with it
  confex check --baseline prod
  confex check --detect-drift prod`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.check(flags)
			if err != nil {
				return err
			}

			out, err := a.render(res.outcome, flags)
			if err != nil {
				return exitWith(exitFailure, "cannot format report: %v", err)
			}
			if res.outcome.Valid || flags.json || a.ciMode(flags.ci) {
				fmt.Fprint(a.stdout, out)
			} else {
				fmt.Fprint(a.stderr, out)
			}

			if !res.outcome.Valid {
				return silentExit(exitFailure)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// check loads the schema, validates the environment and runs the
// post-validation steps the flags ask for: artifact file, baseline,
// drift detection and metrics. An invalid configuration is not an error;
// callers inspect res.outcome.Valid.
func (a *app) check(flags checkFlags) (res checkResult, err error) {
	path := a.schemaPath()

	s, err := schema.LoadSchemaFromPath(path)
	if err != nil {
		if os.IsNotExist(err) {
			return res, exitWith(exitSchema, "schema file not found: %s", path)
		}
		return res, exitWith(exitSchema, "invalid schema %s: %v", path, err)
	}

	runner, err := s.Build()
	if err != nil {
		return res, exitWith(exitSchema, "invalid schema %s: %v", path, err)
	}
	a.logger.Debug("schema loaded", "path", path, "keys", len(s.Config), "prefix", s.Prefix, "strict", s.Strict)

	var collector *metrics.Collector
	if flags.metricsFile != "" {
		collector = metrics.NewCollector()
		defer func() {
			if werr := collector.WriteTextfile(flags.metricsFile); werr != nil && err == nil {
				err = exitWith(exitFailure, "cannot write metrics: %s: %v", flags.metricsFile, werr)
			}
		}()
	}

	src := resolver.FromEnviron(a.environ)
	started := a.now()
	if flags.failFast {
		_, err = runner.Validate(src)
	} else {
		_, err = runner.ValidateAll(src)
	}

	outcome := report.Build(report.NewRunID(), path, runner, src, s.Secrets(), err)
	outcome.Duration = a.now().Sub(started)
	res = checkResult{schema: s, runner: runner, source: src, outcome: outcome}

	if collector != nil {
		collector.RecordCheck(outcome, len(s.Config), a.now())
	}

	if !outcome.Valid {
		a.logger.Info("configuration invalid", "run", outcome.RunID, "errors", len(outcome.Errors))
		return res, nil
	}
	a.logger.Info("configuration valid", "run", outcome.RunID, "version", outcome.ConfigVersion, "duration", outcome.Duration)

	art := *outcome.Artifact

	if flags.artifactFile != "" {
		if err := art.WriteToFile(flags.artifactFile); err != nil {
			return res, exitWith(exitFailure, "cannot write artifact: %s: %v", flags.artifactFile, err)
		}
		a.logger.Debug("artifact written", "path", flags.artifactFile)
	}

	if flags.baseline != "" || flags.detectDrift != "" {
		store := baseline.NewStore(baseline.ResolveDir(a.settings.BaselineDir))

		if flags.baseline != "" {
			b := baseline.FromArtifact(flags.baseline, outcome.RunID, path, art, a.now())
			if err := store.Save(b); err != nil {
				return res, exitWith(exitFailure, "cannot save baseline: %v", err)
			}
			a.logger.Info("baseline saved", "name", b.Name, "version", b.ConfigVersion)
		}

		if flags.detectDrift != "" {
			r, err := a.detectDrift(store, flags, art, path)
			if err != nil {
				return res, err
			}
			if collector != nil && r != nil {
				collector.RecordDrift(*r)
			}
		}
	}

	return res, nil
}

// detectDrift compares art with the named baseline and prints the report
// to stderr. Drift is a warning and never fails the command; a missing
// baseline is logged and skipped. Returns nil when no comparison was made.
func (a *app) detectDrift(store *baseline.Store, flags checkFlags, art artifact.ConfigArtifact, schemaPath string) (*drift.Report, error) {
	b, err := store.Load(flags.detectDrift)
	if err != nil {
		if errors.Is(err, baseline.ErrBaselineNotFound) {
			a.logger.Warn("drift detection skipped", "baseline", flags.detectDrift, "error", err)
			return nil, nil
		}
		return nil, exitWith(exitFailure, "cannot load baseline: %v", err)
	}

	r := drift.Detect(b, art)
	if !r.HasDrift {
		a.logger.Debug("no drift", "baseline", b.Name, "version", r.CurrentVersion)
		return &r, nil
	}

	switch {
	case flags.json:
		out, err := drift.FormatJSON(r)
		if err != nil {
			return nil, exitWith(exitFailure, "cannot format drift report: %v", err)
		}
		fmt.Fprintln(a.stderr, out)
	case a.ciMode(flags.ci):
		fmt.Fprint(a.stderr, drift.FormatCI(r, schemaPath))
	default:
		fmt.Fprint(a.stderr, drift.FormatCLI(r))
	}
	return &r, nil
}

// render formats an outcome for the selected output mode.
func (a *app) render(o report.Outcome, flags checkFlags) (string, error) {
	switch {
	case flags.json:
		out, err := report.FormatJSON(o)
		if err != nil {
			return "", err
		}
		return out + "\n", nil
	case a.ciMode(flags.ci):
		return report.FormatCI(o), nil
	default:
		return report.FormatCLI(o), nil
	}
}
