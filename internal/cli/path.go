package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// pathFlagValues are the naming flags shared by path, mkdir and file.
type pathFlagValues struct {
	dir  string
	ext  string
	name string
}

func (f pathFlagValues) options() temporarily.PathOptions {
	return temporarily.PathOptions{BaseDir: f.dir, Extension: f.ext, NamePattern: f.name}
}

func addPathFlags(cmd *cobra.Command, f *pathFlagValues, withExt bool) {
	cmd.Flags().StringVar(&f.dir, "dir", "",
		"Parent directory (default: a private directory under the temp root)")
	cmd.Flags().StringVar(&f.name, "name", "",
		"Name template for the entry (default from configuration)")
	if withExt {
		cmd.Flags().StringVar(&f.ext, "ext", "", "Extension appended to the name, without the dot")
	}
	_ = cmd.RegisterFlagCompletionFunc("dir", completeDirectories)
}

var pathFlags pathFlagValues

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print a temporary path without creating it",
	Long: `Path computes the absolute path an entry would get and prints it.
The filesystem is not touched.

Examples:
  temporarily path
  temporarily path --dir ./out --name "report-{dddd}" --ext csv`,
	Args: cobra.NoArgs,
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
	addPathFlags(pathCmd, &pathFlags, true)
}

func runPath(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	p, err := s.builder.BuildPath(pathFlags.options())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), p)
	return nil
}
