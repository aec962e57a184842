package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"confex/internal/baseline"
)

func (a *app) baselineCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage stored configuration baselines",
		Long: `List, show and delete baselines recorded with 'confex check --baseline'.

Baselines are stored in $CONFEX_BASELINE_DIR, or ~/.confex/baselines.`,
	}
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print as JSON")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored baselines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listBaselines(jsonOutput)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a stored baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showBaseline(args[0], jsonOutput)
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.deleteBaseline(args[0])
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func (a *app) store() *baseline.Store {
	return baseline.NewStore(baseline.ResolveDir(a.settings.BaselineDir))
}

func (a *app) listBaselines(jsonOutput bool) error {
	summaries, err := a.store().List()
	if err != nil {
		return exitWith(exitFailure, "cannot list baselines: %v", err)
	}

	if jsonOutput {
		if summaries == nil {
			summaries = []baseline.Summary{}
		}
		return a.printJSON(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(a.stdout, "No baselines found")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(a.stdout, "%s  %s  %d keys  %s  %s\n", s.Name, shortVersion(s.ConfigVersion), s.Keys, s.Schema, s.Timestamp.Format(time.RFC3339))
	}
	return nil
}

func (a *app) showBaseline(name string, jsonOutput bool) error {
	b, err := a.store().Load(name)
	if err != nil {
		return baselineError("load", name, err)
	}

	if jsonOutput {
		return a.printJSON(b)
	}

	fmt.Fprintf(a.stdout, "Name:          %s\n", b.Name)
	fmt.Fprintf(a.stdout, "ConfigVersion: %s\n", b.ConfigVersion)
	fmt.Fprintf(a.stdout, "RunID:         %s\n", b.RunID)
	fmt.Fprintf(a.stdout, "Schema:        %s\n", b.Schema)
	fmt.Fprintf(a.stdout, "Timestamp:     %s\n", b.Timestamp.Format(time.RFC3339))
	fmt.Fprintln(a.stdout, "Values:")

	keys := make([]string, 0, len(b.Values))
	for k := range b.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(a.stdout, "  %s: %s\n", k, b.Values[k])
	}
	return nil
}

func (a *app) deleteBaseline(name string) error {
	if err := a.store().Delete(name); err != nil {
		return baselineError("delete", name, err)
	}
	a.logger.Info("baseline deleted", "name", name)
	fmt.Fprintf(a.stdout, "Deleted baseline: %s\n", name)
	return nil
}

func baselineError(action, name string, err error) error {
	if errors.Is(err, baseline.ErrBaselineNotFound) {
		return exitWith(exitBaselineNotFound, "baseline not found: %s", name)
	}
	return exitWith(exitFailure, "cannot %s baseline: %v", action, err)
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return exitWith(exitFailure, "cannot serialize: %v", err)
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}

// shortVersion abbreviates a config version for listings.
func shortVersion(version string) string {
	const n = 19 // "sha256:" plus 12 hex digits
	if len(version) <= n {
		return version
	}
	return version[:n]
}
