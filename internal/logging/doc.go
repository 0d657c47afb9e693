// Package logging provides concrete implementations of the temporarily.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted lines to a writer (stderr by default)
//   - NullLogger: Discards all messages (useful for testing and library use)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
