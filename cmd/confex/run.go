package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"confex/internal/injector"
	"confex/internal/launcher"
)

type runFlags struct {
	checkFlags
	injectEnv      string
	injectFile     string
	exportDefaults bool
	dryRun         bool
}

func (a *app) runCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [flags] <command> [args...]",
		Short: "Validate the environment, then exec the command",
		Long: `Validate the environment and, if it is valid, replace this process with
the given command. Nothing is printed on success; an invalid configuration
is reported on stderr and the command is never started.

Examples:
  # Start the server only when its configuration is valid
  confex run ./server

  # Hand the validated configuration to the process as JSON
  confex run --inject-env APP_CONFIG --inject-file /tmp/config.json ./server

  # Make defaults visible to the process as environment variables
  confex run --export-defaults -- ./server --listen :8080`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTarget(flags, launcher.Command{Target: args[0], Args: args[1:]})
		},
	}

	// Everything after the command name belongs to the command.
	cmd.Flags().SetInterspersed(false)

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.injectEnv, "inject-env", "", "pass the config artifact as JSON in this environment variable")
	cmd.Flags().StringVar(&flags.injectFile, "inject-file", "", "write the config artifact to this file before exec")
	cmd.Flags().BoolVar(&flags.exportDefaults, "export-defaults", false, "export defaulted values as environment variables")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "validate only, do not exec")
	return cmd
}

func (a *app) runTarget(flags runFlags, target launcher.Command) error {
	res, err := a.check(flags.checkFlags)
	if err != nil {
		return err
	}

	if !res.outcome.Valid {
		out, err := a.render(res.outcome, flags.checkFlags)
		if err != nil {
			return exitWith(exitFailure, "cannot format report: %v", err)
		}
		fmt.Fprint(a.stderr, out)
		return silentExit(exitFailure)
	}

	if flags.dryRun {
		if flags.json {
			out, err := a.render(res.outcome, flags.checkFlags)
			if err != nil {
				return exitWith(exitFailure, "cannot format report: %v", err)
			}
			fmt.Fprint(a.stdout, out)
			return nil
		}
		fmt.Fprintf(a.stdout, "Config valid, would execute: %s\n", strings.Join(append([]string{target.Target}, target.Args...), " "))
		return nil
	}

	art := *res.outcome.Artifact
	environ := a.environ

	if flags.exportDefaults {
		values, err := res.runner.Get()
		if err != nil {
			return exitWith(exitFailure, "cannot export defaults: %v", err)
		}
		environ = injector.ExportDefaults(environ, res.runner.Resolve(res.source), values)
	}

	if flags.injectFile != "" {
		path, err := injector.InjectFile(art, flags.injectFile)
		if err != nil {
			return exitWith(exitFailure, "cannot write config: %s: %v", flags.injectFile, err)
		}
		a.logger.Debug("config injected", "file", path)
	}

	if flags.injectEnv != "" {
		environ, err = injector.InjectEnv(art, environ, flags.injectEnv)
		if err != nil {
			return exitWith(exitFailure, "cannot inject config to env: %v", err)
		}
		a.logger.Debug("config injected", "env", flags.injectEnv)
	}

	a.logger.Debug("exec", "command", target.Target, "args", target.Args, "version", art.ConfigVersion)

	// Exec only returns on failure.
	err = execCommand(target, environ)
	switch {
	case launcher.IsNotFound(err):
		return exitWith(launcher.ExitCode(err), "command not found: %s", target.Target)
	case launcher.IsPermissionDenied(err):
		return exitWith(launcher.ExitCode(err), "permission denied: %s", target.Target)
	case err != nil:
		return exitWith(launcher.ExitCode(err), "%v", err)
	}
	return nil
}
