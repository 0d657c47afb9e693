package temporarily

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// CleanupFunc removes a created entry. Calling it more than once is a no-op.
type CleanupFunc func() error

// Entry is a temporary filesystem node created by a builder.
//
// Implementations:
//   - DirEntry: a directory, optionally holding relocated children
//   - FileEntry: a regular file written once at creation
type Entry interface {
	// Path returns the absolute path of the entry.
	Path() string

	// Mode returns the permission mode the entry was created with.
	Mode() fs.FileMode

	// IsDir reports whether the entry is a directory.
	IsDir() bool

	// HasCleanup reports whether this entry owns a cleanup action.
	// Directories that already existed when requested do not.
	HasCleanup() bool

	// Cleanup removes the entry and drops its action from the registry.
	Cleanup() error

	// Rebase rewrites the entry path to live directly under dir, keeping its
	// basename. Descendant paths are rewritten to match. No I/O is performed.
	Rebase(dir string)
}

// DirEntry is a created (or reused) temporary directory.
type DirEntry struct {
	Filepath    string
	Perm        fs.FileMode
	Children    []Entry
	CleanupFunc CleanupFunc
}

func (d *DirEntry) Path() string      { return d.Filepath }
func (d *DirEntry) Mode() fs.FileMode { return d.Perm }
func (d *DirEntry) IsDir() bool       { return true }
func (d *DirEntry) HasCleanup() bool  { return d.CleanupFunc != nil }

// Cleanup removes the directory and everything left inside it.
// It returns nil when the directory was reused rather than created.
func (d *DirEntry) Cleanup() error {
	if d.CleanupFunc == nil {
		return nil
	}
	return d.CleanupFunc()
}

func (d *DirEntry) Rebase(dir string) {
	d.Filepath = filepath.Join(dir, filepath.Base(d.Filepath))
	for _, child := range d.Children {
		child.Rebase(d.Filepath)
	}
}

// FileEntry is a created temporary file.
type FileEntry struct {
	Filepath    string
	Perm        fs.FileMode
	Data        string
	Encoding    string
	CleanupFunc CleanupFunc
}

func (f *FileEntry) Path() string      { return f.Filepath }
func (f *FileEntry) Mode() fs.FileMode { return f.Perm }
func (f *FileEntry) IsDir() bool       { return false }
func (f *FileEntry) HasCleanup() bool  { return f.CleanupFunc != nil }

func (f *FileEntry) Cleanup() error {
	if f.CleanupFunc == nil {
		return nil
	}
	return f.CleanupFunc()
}

func (f *FileEntry) Rebase(dir string) {
	f.Filepath = filepath.Join(dir, filepath.Base(f.Filepath))
}

// PathOptions controls where an entry is placed and how it is named.
type PathOptions struct {
	// BaseDir is the parent directory. Empty means a fresh private directory
	// under the temp root.
	BaseDir string

	// Extension is appended as ".<ext>" when non-empty.
	Extension string

	// NamePattern is rendered into the base name. Empty means DefaultNamePattern.
	NamePattern string
}

// DirOptions configures MakeDir.
type DirOptions struct {
	PathOptions

	// Mode defaults to DefaultDirMode when zero.
	Mode fs.FileMode

	// Children are previously built entries moved into the new directory.
	// Each must own its cleanup; reused entries are rejected.
	Children []Entry
}

// FileOptions configures MakeFile.
type FileOptions struct {
	PathOptions

	// Data is written once at creation.
	Data string

	// Encoding defaults to DefaultEncoding when empty.
	Encoding string

	// Mode defaults to DefaultFileMode when zero.
	Mode fs.FileMode
}

// Validate checks that the file options can be applied.
// It returns a multi-error if multiple validation failures occur.
func (o *FileOptions) Validate() error {
	var errs []error

	if o.Mode&^fs.ModePerm != 0 {
		errs = append(errs, fmt.Errorf("file mode %v carries non-permission bits: %w", o.Mode, ErrInvalidConfig))
	}
	if o.Extension != "" && filepath.Base(o.Extension) != o.Extension {
		errs = append(errs, fmt.Errorf("extension %q must not contain a path separator: %w", o.Extension, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Validate checks that the directory options can be applied.
func (o *DirOptions) Validate() error {
	var errs []error

	if o.Mode&^fs.ModePerm != 0 {
		errs = append(errs, fmt.Errorf("directory mode %v carries non-permission bits: %w", o.Mode, ErrInvalidConfig))
	}
	for i, child := range o.Children {
		switch {
		case child == nil:
			errs = append(errs, fmt.Errorf("child %d is nil: %w", i, ErrInvalidConfig))
		case !child.HasCleanup():
			// Reused entries are not ours to move or delete.
			errs = append(errs, fmt.Errorf("child %s existed before and cannot be moved: %w", child.Path(), ErrInvalidConfig))
		}
	}

	return errors.Join(errs...)
}

// Walk visits e and every descendant depth first, parents before children.
func Walk(e Entry, fn func(Entry, int)) {
	walk(e, 0, fn)
}

func walk(e Entry, depth int, fn func(Entry, int)) {
	fn(e, depth)
	if d, ok := e.(*DirEntry); ok {
		for _, child := range d.Children {
			walk(child, depth+1, fn)
		}
	}
}
