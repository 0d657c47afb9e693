package temporarily

import "io/fs"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or manifest
	ExitInvalidTemplate = 11 // Name pattern uses an unknown placeholder class
	ExitAccessCheck     = 12 // Existence check failed for a reason other than not-found
	ExitCommandFailed   = 13 // Child command of `temporarily run` failed
)

const (
	// DefaultDirMode is the permission mode used for created directories.
	DefaultDirMode fs.FileMode = 0o777

	// DefaultFileMode is the permission mode used for created files.
	DefaultFileMode fs.FileMode = 0o666

	// DefaultEncoding is the encoding applied to file data when none is given.
	DefaultEncoding = "utf8"

	// DefaultNamePattern renders the base name of every entry that does not
	// specify its own pattern. Four letters followed by four digits.
	DefaultNamePattern = "temporarily-{WWWWDDDD}"

	// DefaultRootPattern renders the private directory created under the
	// system temp root for entries without an explicit base directory.
	DefaultRootPattern = "temporarily-{XXXXXXXX}"

	// RootEnvVar is exported to child processes of `temporarily run` and holds
	// the path of the tree root.
	RootEnvVar = "TEMPORARILY_ROOT"
)
