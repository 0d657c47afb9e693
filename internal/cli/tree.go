package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/temporarily/internal/manifest"
	"github.com/vvka-141/temporarily/internal/tui"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

type treeFlagValues struct {
	manifest string
	remove   bool
}

var treeFlags treeFlagValues

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Build a directory tree from a manifest",
	Long: `Tree builds the directory tree described by a YAML manifest and
prints it. The tree is kept unless --rm is given.

Manifest format:
  base_dir: ./scratch      # optional
  name: fixture-{dddd}     # optional root name template
  children:
    - name: src
      children:
        - name: main
          ext: go
          data: "package main"
    - name: empty
      dir: true

Examples:
  temporarily tree -f fixture.yaml`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().StringVarP(&treeFlags.manifest, "file", "f", "", "Path to the manifest")
	treeCmd.Flags().BoolVar(&treeFlags.remove, "rm", false, "Remove everything created before exiting")
	_ = treeCmd.MarkFlagRequired("file")
	_ = treeCmd.RegisterFlagCompletionFunc("file", completeManifests)
}

func runTree(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(treeFlags.manifest)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	root, err := manifest.Build(s.builder, m)
	if err != nil {
		return s.finish(treeFlags.remove, err)
	}

	count := 0
	temporarily.Walk(root, func(temporarily.Entry, int) { count++ })
	s.logger.Verbose("built %d entries, %d cleanups registered", count, s.registry.Len())

	fmt.Fprint(cmd.OutOrStdout(), tui.NewTreeRenderer(tui.IsStyled()).Render(root))
	return s.finish(treeFlags.remove, nil)
}
