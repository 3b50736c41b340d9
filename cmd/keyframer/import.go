package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isphillips/keyframer"
)

var importCmd = &cobra.Command{
	Use:   "import <file.css> [file.css ...]",
	Short: "Convert CSS documents to the YAML form",
	Long: `Rewrite plain CSS documents as YAML stylesheet documents: pseudo and
at-rule blocks fold under their base selectors and @keyframes blocks
become the keyframes section. Scope comes from the /* @scope */ pragma,
the --scope flag, or later at load time from the file name.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("out-dir", "", "Directory for converted documents (default: next to the source)")
	f.String("scope", "", "Scope id for the converted document (single input only)")
	f.Bool("force", false, "Overwrite existing output files")
}

func runImport(_ *cobra.Command, args []string) error {
	scope := getStringWithFallback("scope", "import.scope", "")
	if scope != "" && len(args) > 1 {
		return fmt.Errorf("--scope applies to a single input, got %d files", len(args))
	}

	outDir := getStringWithFallback("out-dir", "import.out-dir", "")
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", outDir, err)
		}
	}
	force := getBoolWithFallback("force", "import.force", false)
	quiet := getBoolWithFallback("quiet", "quiet", false)

	for _, path := range args {
		if !strings.EqualFold(filepath.Ext(path), ".css") {
			return fmt.Errorf("%s: import reads CSS documents", path)
		}
		content, err := os.ReadFile(path) // #nosec G304 - paths are the command's arguments
		if err != nil {
			return err
		}
		converted, err := keyframer.ConvertCSS(scope, string(content))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		target := strings.TrimSuffix(path, filepath.Ext(path)) + ".yaml"
		if outDir != "" {
			target = filepath.Join(outDir, filepath.Base(target))
		}
		if _, err := os.Stat(target); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}
		if err := os.WriteFile(target, converted, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		if !quiet {
			fmt.Printf("Converted %s to %s\n", path, target)
		}
	}
	return nil
}
