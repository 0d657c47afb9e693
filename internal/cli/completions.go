package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/temporarily/internal/builder"
)

// completeEncodings provides shell completion for the --encoding flag.
func completeEncodings(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, enc := range builder.Encodings {
		if strings.HasPrefix(enc, toComplete) {
			matches = append(matches, enc)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeManifests restricts file completion to YAML files.
func completeManifests(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}
