package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/temporarily/internal/builder"
	"github.com/vvka-141/temporarily/internal/cleanup"
	"github.com/vvka-141/temporarily/internal/config"
	"github.com/vvka-141/temporarily/internal/logging"
	"github.com/vvka-141/temporarily/internal/naming"
	"github.com/vvka-141/temporarily/internal/template"
	"github.com/vvka-141/temporarily/internal/tui"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

var rootCmd = &cobra.Command{
	Use:   "temporarily",
	Short: "Create temporary files and directory trees",
	Long: `temporarily creates uniquely named temporary files and directories from
name templates, builds whole trees from YAML manifests and removes
everything it created when asked to.

Name templates:
  {dddd}   digits
  {wwww}   letters
  {xxxx}   hex characters from a secure random source
  Placeholders are case-insensitive; text outside braces is literal.

Configuration (lowest to highest precedence):
  built-in defaults < temporarily.yaml < environment (.env is loaded) < flags

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or manifest
  11 - Invalid name template
  12 - A path could not be checked
  13 - The command started by 'run' failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for temporarily")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", ".", "Directory holding "+config.ConfigFileName)
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func getConfigDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("config")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// session is everything a command needs to create entries.
type session struct {
	cfg      *config.Config
	logger   temporarily.Logger
	registry *cleanup.Registry
	builder  *builder.Builder
	status   io.Writer
}

// newSession loads .env and the configuration and wires a builder to a
// fresh registry.
func newSession(cmd *cobra.Command) (*session, error) {
	_ = godotenv.Load()

	verbose := getVerboseFlag(cmd)
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), verbose)

	cfg, err := config.Resolve(getConfigDir(cmd), os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Verbose("temp root %s, root pattern %s, name pattern %s", cfg.TempRoot, cfg.RootPattern, cfg.NamePattern)
	if !template.HasPlaceholders(cfg.RootPattern) {
		logger.Verbose("root pattern has no placeholders, all runs share one private root")
	}

	registry := cleanup.New(logger)
	paths := naming.New(
		naming.WithTempRoot(cfg.TempRoot),
		naming.WithRootPattern(cfg.RootPattern),
		naming.WithNamePattern(cfg.NamePattern),
	)
	b := builder.New(registry,
		builder.WithPaths(paths),
		builder.WithLogger(logger),
		builder.WithDirMode(cfg.DirPerm()),
		builder.WithFileMode(cfg.FilePerm()),
		builder.WithEncoding(cfg.Encoding),
	)

	return &session{cfg: cfg, logger: logger, registry: registry, builder: b, status: cmd.ErrOrStderr()}, nil
}

// finish flushes the registry when remove is set and joins any failure
// with err.
func (s *session) finish(remove bool, err error) error {
	if !remove {
		return err
	}
	pending := s.registry.Len()
	if flushErr := s.registry.Close(); flushErr != nil {
		if err == nil {
			return fmt.Errorf("cleanup failed: %w", flushErr)
		}
		s.logger.Error("cleanup failed: %v", flushErr)
		return err
	}
	if pending > 0 {
		fmt.Fprintln(s.status, tui.NewTreeRenderer(tui.IsStyled()).Success(
			fmt.Sprintf("removed %d temporary %s", pending, plural(pending, "entry", "entries"))))
	}
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
