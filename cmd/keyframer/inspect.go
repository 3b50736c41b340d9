package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isphillips/keyframer"
	"github.com/isphillips/keyframer/internal/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the loaded stylesheet state",
	Long: `Load documents and print what the manager holds: scopes and their
rules, registered keyframe sets, and scope-over-global overrides.

Formats:
  tree     ASCII tree of scopes, rules, keyframes (default)
  summary  Per-scope counts and override totals
  json     Machine-readable snapshot`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.StringSlice("patterns", nil, "Glob patterns for stylesheet documents")
	f.String("format", "tree", "Output format: tree|summary|json")
	f.Bool("overrides", false, "List scoped selectors that override global ones")
	f.Bool("replace", false, "Replace earlier documents on scope collision")
}

func runInspect(_ *cobra.Command, _ []string) error {
	kf := keyframer.New(keyframer.WithLogger(newLogger()))

	if _, err := keyframer.LoadGlobs(kf, loadPatterns(), keyframer.LoadOptions{
		Replace: getBoolWithFallback("replace", "load.replace", false),
	}); err != nil {
		return err
	}

	snap := kf.Snapshot()
	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))

	format := getStringWithFallback("format", "inspect.format", "tree")
	switch format {
	case "tree":
		fmt.Print(report.Tree(snap))
	case "summary":
		summary := report.NewSummary(os.Stdout, useColors)
		summary.PrintSnapshot(snap)
		summary.PrintOverrides(report.Overrides(kf))
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (want tree, summary, or json)", format)
	}

	if format != "summary" && getBoolWithFallback("overrides", "inspect.overrides", false) {
		report.NewSummary(os.Stdout, useColors).PrintOverrides(report.Overrides(kf))
	}

	return nil
}
