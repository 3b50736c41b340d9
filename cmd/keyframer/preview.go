package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/isphillips/keyframer"
	"github.com/isphillips/keyframer/internal/report"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Write an HTML preview page for the loaded stylesheets",
	Long: `Load documents and write a self-contained HTML page: the rendered CSS
plus one sample element per class selector, scoped samples carrying the
scope marker attribute.

With --trace, also print a table of intermediate transition values, one
row per time step, to see what an easing actually does to a property.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runPreview,
}

func init() {
	f := previewCmd.Flags()
	f.StringSlice("patterns", nil, "Glob patterns for stylesheet documents")
	f.StringP("output", "o", "preview.html", "Path of the HTML page to write")
	f.String("title", "", "Title of the preview page")
	f.StringSlice("trace", nil, `Transition traces to print, as "property:from..to"`)
	f.Duration("duration", 400*time.Millisecond, "Traced transition duration")
	f.String("easing", "ease-in-out", "Traced transition timing function")
	f.Int("steps", 8, "Rows in the trace table")
}

func runPreview(_ *cobra.Command, _ []string) error {
	kf := keyframer.New(keyframer.WithLogger(newLogger()))

	if _, err := keyframer.LoadGlobs(kf, loadPatterns(), keyframer.LoadOptions{Replace: true}); err != nil {
		return err
	}

	page, err := kf.PreviewHTML(getStringWithFallback("title", "preview.title", ""))
	if err != nil {
		return fmt.Errorf("building preview: %w", err)
	}

	outputPath := getStringWithFallback("output", "preview.output", "preview.html")
	if err := os.WriteFile(outputPath, page, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
	if !quiet {
		fmt.Fprintf(os.Stderr, "%s preview written to %s\n",
			report.RenderStyle(report.StyleOK, "✓", useColors), outputPath)
	}

	if traces := k.Strings("trace"); len(traces) > 0 {
		return printTraces(kf, traces, useColors)
	}
	return nil
}

// printTraces samples each traced transition at evenly spaced steps and
// prints one table per trace.
func printTraces(kf *keyframer.Keyframer, traces []string, useColors bool) error {
	duration := getDurationWithFallback("duration", "preview.duration", 400*time.Millisecond)
	easing := getStringWithFallback("easing", "preview.easing", "ease-in-out")
	steps := getIntWithFallback("steps", "preview.steps", 8)
	if steps < 1 {
		steps = 1
	}

	for _, spec := range traces {
		name, fromValue, toValue, err := parseTraceSpec(spec)
		if err != nil {
			return err
		}

		factory, err := kf.Transition(keyframer.TransitionConfig{
			Duration: duration,
			Easing:   easing,
			Style:    keyframer.Declaration{name: toValue},
		})
		if err != nil {
			return fmt.Errorf("trace %q: %w", spec, err)
		}
		desc := factory(0, "", 1)

		var from keyframer.Declaration
		if fromValue != "" {
			from = keyframer.Declaration{name: fromValue}
		}

		fmt.Println(report.RenderStyle(report.StyleHeader,
			fmt.Sprintf("%s over %s with %s", name, duration, easing), useColors))
		for i := 0; i <= steps; i++ {
			elapsed := time.Duration(int64(duration) * int64(i) / int64(steps))
			sampled := keyframer.SampleTransition(from, desc, elapsed)
			fmt.Printf("  %8s  %s\n", elapsed, declValues(sampled))
		}
	}
	return nil
}

// parseTraceSpec reads "property:from..to" or "property:to".
func parseTraceSpec(spec string) (name, from, to string, err error) {
	name, rest, ok := strings.Cut(spec, ":")
	if !ok || name == "" || rest == "" {
		return "", "", "", fmt.Errorf("trace %q: want \"property:from..to\"", spec)
	}
	from, to, ok = strings.Cut(rest, "..")
	if !ok {
		return name, "", rest, nil
	}
	if to == "" {
		return "", "", "", fmt.Errorf("trace %q: missing end value", spec)
	}
	return name, from, to, nil
}

func declValues(decl keyframer.Declaration) string {
	parts := make([]string, 0, len(decl))
	for key, value := range decl {
		parts = append(parts, fmt.Sprintf("%s: %v", key, value))
	}
	sort.Strings(parts)
	return strings.Join(parts, "  ")
}
