package temporarily

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := b.MakeFile(opts)
//	if errors.Is(err, temporarily.ErrAccessCheck) {
//	    // the parent directory could not be inspected
//	}
var (
	// ErrInvalidTemplate indicates a name pattern used an unknown placeholder class.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrAccessCheck indicates a stat-like check failed for a reason other than not-found.
	ErrAccessCheck = errors.New("access check failed")

	// ErrUnsupportedEncoding indicates file data was given in an encoding we cannot write.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidManifest indicates a tree manifest could not be parsed or validated.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrCommandFailed indicates the child command of `temporarily run` failed.
	ErrCommandFailed = errors.New("command failed")
)

// InvalidTemplateError reports a placeholder character outside the known classes.
type InvalidTemplateError struct {
	Char  rune
	Valid []string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("expected template placeholder to be one of: %s; received %q",
		strings.Join(e.Valid, ", "), e.Char)
}

// Is makes errors.Is(err, ErrInvalidTemplate) hold.
func (e *InvalidTemplateError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// AccessCheckError reports a failed existence check on Path.
type AccessCheckError struct {
	Path string
	Err  error
}

func (e *AccessCheckError) Error() string {
	return fmt.Sprintf("could not check %s: %v", e.Path, e.Err)
}

func (e *AccessCheckError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrAccessCheck) hold.
func (e *AccessCheckError) Is(target error) bool {
	return target == ErrAccessCheck
}

// usageErrorPatterns are the message prefixes cobra uses for command line misuse.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"missing required argument",
	"if any flags in the group",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrInvalidManifest):
		return ExitConfigError
	case errors.Is(err, ErrInvalidTemplate):
		return ExitInvalidTemplate
	case errors.Is(err, ErrAccessCheck):
		return ExitAccessCheck
	case errors.Is(err, ErrCommandFailed):
		return ExitCommandFailed
	}

	errStr := err.Error()
	for _, p := range usageErrorPatterns {
		if strings.HasPrefix(errStr, p) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
