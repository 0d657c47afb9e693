// Package filesystem provides the filesystem abstraction the builders write through.
//
// The interface covers exactly the operations needed to create, relocate and
// remove temporary entries, so tests can swap the real filesystem for an
// in-memory one and inject faults that are hard to produce on disk.
//
// Implementations:
//   - OSFileSystem: production implementation backed by package os
//   - MemoryFileSystem: in-memory implementation with fault injection for testing
//
// Errors follow the io/fs conventions: a missing path satisfies
// errors.Is(err, fs.ErrNotExist), an existing one errors.Is(err, fs.ErrExist).
package filesystem
