package cli

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/vvka-141/temporarily/internal/config"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

type mkdirFlagValues struct {
	path   pathFlagValues
	mode   string
	remove bool
}

var mkdirFlags mkdirFlagValues

var mkdirCmd = &cobra.Command{
	Use:   "mkdir",
	Short: "Create a temporary directory",
	Long: `Mkdir creates a uniquely named directory and prints its path.
Missing parent directories are created too. The directory is kept
unless --rm is given.

Examples:
  temporarily mkdir
  temporarily mkdir --dir ./scratch --name "job-{dddd}" --mode 0700`,
	Args: cobra.NoArgs,
	RunE: runMkdir,
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
	addPathFlags(mkdirCmd, &mkdirFlags.path, false)
	mkdirCmd.Flags().StringVar(&mkdirFlags.mode, "mode", "", "Permission bits in octal (default from configuration)")
	mkdirCmd.Flags().BoolVar(&mkdirFlags.remove, "rm", false, "Remove everything created before exiting")
}

func runMkdir(cmd *cobra.Command, args []string) error {
	mode, err := parseModeFlag(mkdirFlags.mode)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	dir, err := s.builder.MakeDir(temporarily.DirOptions{
		PathOptions: mkdirFlags.path.options(),
		Mode:        mode,
	})
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), dir.Path())
	}
	return s.finish(mkdirFlags.remove, err)
}

func parseModeFlag(s string) (fs.FileMode, error) {
	if s == "" {
		return 0, nil
	}
	mode, err := config.ParseMode(s)
	if err != nil {
		return 0, fmt.Errorf("invalid argument for --mode: %w", err)
	}
	return mode, nil
}
