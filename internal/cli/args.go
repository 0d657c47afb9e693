package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequirePatterns validates that at least one name pattern is provided.
func RequirePatterns(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <pattern>

Usage: %s

Example:
  %s "build-{wwww}-{dddd}"`, cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}

// RequireCommand validates that a command follows the "--" separator.
func RequireCommand(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <command>

Usage: %s

Example:
  %s -f tree.yaml -- go test ./...`, cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
