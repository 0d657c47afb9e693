package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode is the output mode for the CLI.
type Mode int

const (
	// ModePlain is used for pipes, CI and scripts.
	ModePlain Mode = iota
	// ModeStyled is used when stdout is a terminal.
	ModeStyled
)

// NonInteractiveEnv forces plain output when set to "1".
const NonInteractiveEnv = "TEMPORARILY_NON_INTERACTIVE"

// DetectMode reports whether output should be styled.
//
// Returns ModePlain if:
//   - TEMPORARILY_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set
//   - stdout is not a terminal
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnv) == "1" {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModePlain
	}
	return ModeStyled
}

// IsStyled is shorthand for DetectMode() == ModeStyled.
func IsStyled() bool {
	return DetectMode() == ModeStyled
}
