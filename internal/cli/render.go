package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/temporarily/internal/template"
)

var renderCmd = &cobra.Command{
	Use:   "render <pattern>...",
	Short: "Render name templates",
	Long: `Render expands each pattern and prints one result per line.
Nothing is created on disk.

Examples:
  temporarily render "build-{wwww}-{dddd}"
  temporarily render "{xxxxxxxx}" "{XXXXXXXX}"`,
	Args: RequirePatterns,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	for _, pattern := range args {
		if !template.HasPlaceholders(pattern) && getVerboseFlag(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[VERBOSE] %q has no placeholders\n", pattern)
		}
		name, err := template.Render(pattern)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
