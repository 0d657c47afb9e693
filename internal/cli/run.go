package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/temporarily/internal/manifest"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

type runFlagValues struct {
	manifest string
}

var runFlags runFlagValues

var runCmd = &cobra.Command{
	Use:   "run [-f manifest.yaml] -- <command> [args...]",
	Short: "Run a command inside a temporary tree and remove it afterwards",
	Long: `Run builds a temporary tree (from a manifest, or an empty directory
when none is given), runs the command with TEMPORARILY_ROOT set to the
tree's root and removes everything it created once the command exits.
Interrupts (SIGINT, SIGTERM) stop the command and still clean up.

A failing command makes run exit with code 13.

Examples:
  temporarily run -- sh -c 'echo hi > "$TEMPORARILY_ROOT/out"'
  temporarily run -f fixture.yaml -- go test ./...`,
	Args: RequireCommand,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runFlags.manifest, "file", "f", "", "Path to a manifest describing the tree")
	_ = runCmd.RegisterFlagCompletionFunc("file", completeManifests)
}

func runRun(cmd *cobra.Command, args []string) error {
	var m *manifest.Manifest
	if runFlags.manifest != "" {
		var err error
		if m, err = manifest.Load(runFlags.manifest); err != nil {
			return err
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext(cmd.Context(), s.logger)
	defer stop()

	root, err := buildRunRoot(s, m)
	if err != nil {
		return s.finish(true, err)
	}
	if err := ctx.Err(); err != nil {
		return s.finish(true, fmt.Errorf("interrupted before starting %s: %w", args[0], err))
	}
	s.logger.Verbose("%s=%s", temporarily.RootEnvVar, root.Path())

	child := exec.CommandContext(ctx, args[0], args[1:]...)
	child.Env = append(os.Environ(), temporarily.RootEnvVar+"="+root.Path())
	child.Stdin = cmd.InOrStdin()
	child.Stdout = cmd.OutOrStdout()
	child.Stderr = cmd.ErrOrStderr()

	if err := child.Run(); err != nil {
		err = fmt.Errorf("%s: %v: %w", args[0], err, temporarily.ErrCommandFailed)
		return s.finish(true, err)
	}
	return s.finish(true, nil)
}

// interruptContext returns a context cancelled on SIGINT or SIGTERM. While it
// is active those signals no longer terminate the process, so the caller
// gets to flush. stop releases the handler.
func interruptContext(parent context.Context, logger temporarily.Logger) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger.Info("[INTERRUPT] Received interrupt signal, cleaning up...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func buildRunRoot(s *session, m *manifest.Manifest) (temporarily.Entry, error) {
	if m != nil {
		root, err := manifest.Build(s.builder, m)
		if err != nil {
			return nil, err
		}
		return root, nil
	}
	root, err := s.builder.MakeDir(temporarily.DirOptions{})
	if err != nil {
		return nil, err
	}
	return root, nil
}
