// Confex validates process configuration held in environment variables
// against a declared schema.
//
// Usage:
//
//	# Validate the environment against confex.yaml
//	confex check
//
//	# Validate, then replace this process with the target command
//	confex run --inject-env APP_CONFIG -- ./server --listen :8080
//
//	# Record the current configuration and compare later runs with it
//	confex check --baseline prod
//	confex check --detect-drift prod
//
//	# Manage stored baselines
//	confex baseline list
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"confex/internal/confex"
	"confex/internal/launcher"
	"confex/internal/logging"
	"confex/internal/patterns"
	"confex/internal/resolver"
	"confex/internal/schema"
	"confex/internal/validator"
)

// Exit codes.
const (
	exitOK               = 0
	exitFailure          = 1
	exitUsage            = 2
	exitSchema           = 3
	exitBaselineNotFound = 4
)

// execCommand replaces the process with the target command. Tests swap it.
var execCommand = launcher.Exec

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
// It is separate from main so tests can drive it with their own
// environment and writers.
func run(args []string, environ []string, stdout, stderr io.Writer) int {
	s, err := loadSettings(environ)
	if err != nil {
		fmt.Fprintln(stderr, "Error: invalid confex settings:")
		for _, msg := range validator.FormatErrors(confex.ValidationErrors(err)) {
			fmt.Fprintf(stderr, "  %s\n", msg)
		}
		return exitFailure
	}

	a := &app{
		environ:  environ,
		settings: s,
		stdout:   stdout,
		stderr:   stderr,
		now:      time.Now,
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err = root.Execute()
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, "Error:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitUsage
}

// exitError carries the exit code for a failed command. A nil err means
// the command already reported the failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

// silentExit reports a failure whose details were already printed.
func silentExit(code int) error {
	return &exitError{code: code}
}

// settings are the CLI's own options, read from the environment.
type settings struct {
	Schema      string `confex:"schema"`
	LogLevel    string `confex:"logLevel"`
	CI          bool   `confex:"ci"`
	HostCI      bool   `confex:"hostCI"`
	BaselineDir string `confex:"baselineDir"`
}

// loadSettings validates the CONFEX_* variables with the same machinery
// the tool applies to user schemas.
func loadSettings(environ []string) (settings, error) {
	values, err := confex.Define(resolver.FromEnviron(environ),
		confex.Field("schema", validator.String().MinLength(1).Default(schema.DefaultFileName)).Env("CONFEX_SCHEMA"),
		confex.Field("logLevel", patterns.LogLevel("warn")).Env("CONFEX_LOG_LEVEL"),
		confex.Field("ci", patterns.Flag(false)).Env("CONFEX_CI"),
		confex.Field("hostCI", patterns.Flag(false)).Env("CI"),
		confex.Field("baselineDir", validator.String().Default("")).Env("CONFEX_BASELINE_DIR"),
	)
	if err != nil {
		return settings{}, err
	}

	var s settings
	if err := values.Decode(&s); err != nil {
		return settings{}, err
	}
	return s, nil
}

// app holds what every subcommand shares.
type app struct {
	environ  []string
	settings settings
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
	logger   *slog.Logger

	// persistent flags
	schemaFlag string
	logLevel   string
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "confex",
		Short: "Validate environment configuration against a schema",
		Long: `Confex checks environment variables against a declared schema before
a process starts. Each key is typed (string, number, boolean, enum, tuple),
may carry constraints and defaults, and is reported precisely when wrong.

A successful check produces a config artifact: the validated values with a
content-derived version. Artifacts can be injected into the target process,
stored as named baselines and compared to detect drift.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger()
		},
	}

	root.PersistentFlags().StringVar(&a.schemaFlag, "schema", "", "schema file (default $CONFEX_SCHEMA or confex.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: error, warn, info, debug (default $CONFEX_LOG_LEVEL or warn)")

	root.AddCommand(a.checkCommand())
	root.AddCommand(a.runCommand())
	root.AddCommand(a.baselineCommand())
	return root
}

func (a *app) setupLogger() error {
	name := a.settings.LogLevel
	if a.logLevel != "" {
		if _, err := patterns.LogLevel(name).Validate(validator.Text(a.logLevel), "--log-level"); err != nil {
			return exitWith(exitUsage, "%s", validator.FormatError(asValidationError(err)))
		}
		name = a.logLevel
	}

	level, err := logging.ParseLevel(name)
	if err != nil {
		return exitWith(exitUsage, "%v", err)
	}
	a.logger = logging.New(a.stderr, level)
	return nil
}

// ciMode reports whether CI annotations are wanted.
func (a *app) ciMode(flag bool) bool {
	return flag || a.settings.CI || a.settings.HostCI
}

// schemaPath returns the schema file to load: the flag, then
// CONFEX_SCHEMA, then confex.yaml.
func (a *app) schemaPath() string {
	path := a.settings.Schema
	if a.schemaFlag != "" {
		path = a.schemaFlag
	}
	return filepath.Clean(path)
}

func asValidationError(err error) *validator.ValidationError {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &validator.ValidationError{Kind: validator.KindType, Context: err.Error()}
}
