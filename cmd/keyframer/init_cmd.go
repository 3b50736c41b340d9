package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .keyframer.yaml config file",
	Long:  `Create a .keyframer.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".keyframer.yaml"); err == nil && !force {
			return fmt.Errorf(".keyframer.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".keyframer.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .keyframer.yaml")
		return nil
	},
}

const defaultConfig = `# keyframer configuration

# Shared settings
verbose: false
color: false

# Document loading
load:
  patterns:
    - "styles/**/*.yaml"
    - "styles/**/*.yml"
    - "styles/**/*.css"
  replace: false           # replace earlier documents on scope collision

# Rendering
render:
  output: ""               # "" or "-" writes to stdout
  scoped: false            # rewrite scoped selectors with the marker attribute
  scope: ""                # render a single scope's cascade

# Watch mode
watch:
  debounce: 250ms

# Static checks
check:
  strict: false            # exit 1 on warnings too

# Inspection
inspect:
  format: tree             # tree | summary | json
  overrides: false
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
