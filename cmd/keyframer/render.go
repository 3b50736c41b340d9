package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isphillips/keyframer"
	"github.com/isphillips/keyframer/internal/report"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Load stylesheet documents and render the combined CSS",
	Long: `Load every document matching the patterns into one manager and render
the deterministic output: global rules first, scoped blocks in creation
order, keyframe sets last.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringSlice("patterns", nil, "Glob patterns for stylesheet documents")
	f.StringP("output", "o", "", "Write CSS to this file instead of stdout")
	f.Bool("scoped", false, "Rewrite scoped selectors with the scope marker attribute")
	f.String("scope", "", "Render the cascade of a single scope id")
	f.Bool("replace", false, "Replace earlier documents on scope collision")
}

func runRender(_ *cobra.Command, _ []string) error {
	kf := keyframer.New(keyframer.WithLogger(newLogger()))

	stats, err := keyframer.LoadGlobs(kf, loadPatterns(), keyframer.LoadOptions{
		Replace: getBoolWithFallback("replace", "load.replace", false),
	})
	if err != nil {
		return err
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	if !quiet {
		useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
		report.NewSummary(os.Stderr, useColors).PrintLoadStats(stats)
	}

	return writeCSS(renderOutput(kf))
}

// renderOutput picks the render form the flags ask for.
func renderOutput(kf *keyframer.Keyframer) string {
	if scope := getStringWithFallback("scope", "render.scope", ""); scope != "" {
		return kf.ResolveScope(scope)
	}
	if getBoolWithFallback("scoped", "render.scoped", false) {
		return kf.RenderScoped()
	}
	return kf.Render()
}

// writeCSS sends the rendered CSS to the configured output: a file path,
// or stdout for "" and "-".
func writeCSS(css string) error {
	outputPath := getStringWithFallback("output", "render.output", "")
	if outputPath == "" || outputPath == "-" {
		fmt.Print(css)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(css), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}
