package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/temporarily/pkg/temporarily"
)

type fileFlagValues struct {
	path     pathFlagValues
	data     string
	dataFile string
	encoding string
	mode     string
	remove   bool
}

var fileFlags fileFlagValues

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Create a temporary file",
	Long: `File creates a uniquely named file, writes the given content and
prints its path. Missing parent directories are created too. The file
is kept unless --rm is given.

Content is taken from --data or read from --data-file and stored with
--encoding (utf8, ascii, latin1, utf16le, base64, hex). For base64 and
hex the content is decoded before writing.

Examples:
  temporarily file --ext txt --data "hello"
  temporarily file --name "key-{xxxx}" --data-file key.b64 --encoding base64 --mode 0600`,
	Args: cobra.NoArgs,
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)
	addPathFlags(fileCmd, &fileFlags.path, true)
	fileCmd.Flags().StringVar(&fileFlags.data, "data", "", "File content")
	fileCmd.Flags().StringVar(&fileFlags.dataFile, "data-file", "", "Read file content from this path")
	fileCmd.Flags().StringVar(&fileFlags.encoding, "encoding", "", "Content encoding (default from configuration)")
	fileCmd.Flags().StringVar(&fileFlags.mode, "mode", "", "Permission bits in octal (default from configuration)")
	fileCmd.Flags().BoolVar(&fileFlags.remove, "rm", false, "Remove everything created before exiting")
	fileCmd.MarkFlagsMutuallyExclusive("data", "data-file")
	_ = fileCmd.RegisterFlagCompletionFunc("encoding", completeEncodings)
}

func runFile(cmd *cobra.Command, args []string) error {
	mode, err := parseModeFlag(fileFlags.mode)
	if err != nil {
		return err
	}

	data := fileFlags.data
	if fileFlags.dataFile != "" {
		content, err := os.ReadFile(fileFlags.dataFile)
		if err != nil {
			return fmt.Errorf("failed to read --data-file: %w", err)
		}
		data = string(content)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	f, err := s.builder.MakeFile(temporarily.FileOptions{
		PathOptions: fileFlags.path.options(),
		Data:        data,
		Encoding:    fileFlags.encoding,
		Mode:        mode,
	})
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), f.Path())
	}
	return s.finish(fileFlags.remove, err)
}
