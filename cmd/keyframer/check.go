package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/isphillips/keyframer"
	"github.com/isphillips/keyframer/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Statically check stylesheet documents",
	Long: `Parse every document matching the patterns and report problems
without loading anything: scope collisions across files, out-of-range
keyframe waypoints, unknown pseudo and at-rule keys, empty and shadowed
rules, and keyframe sets that replace each other.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringSlice("patterns", nil, "Glob patterns for stylesheet documents")
	f.Bool("strict", false, "Exit 1 on any issue, warnings included (CI mode)")
}

func runCheck(_ *cobra.Command, _ []string) error {
	result, err := keyframer.CheckGlobs(loadPatterns())
	if err != nil {
		return err
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
	if !quiet {
		report.PrintIssues(os.Stdout, result.Issues, useColors)
		report.PrintCheckSummary(os.Stdout, result, useColors)
	}

	// Soft gate: only errors fail the run unless --strict.
	strict := getBoolWithFallback("strict", "check.strict", false)
	if strict && len(result.Issues) > 0 {
		os.Exit(1)
	}
	if result.ErrorCount() > 0 {
		os.Exit(1)
	}
	return nil
}
