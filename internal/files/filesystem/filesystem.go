package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// FileSystem is the set of operations used to build and tear down temporary trees.
type FileSystem interface {
	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)

	// Mkdir creates a single directory. The parent must already exist.
	Mkdir(path string, perm fs.FileMode) error

	// WriteFile creates or truncates a file and writes data to it.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// ReadFile reads a whole file.
	ReadFile(path string) ([]byte, error)

	// ReadDir lists the entries of a directory sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Rename moves oldpath to newpath, carrying a directory's subtree along.
	Rename(oldpath, newpath string) error

	// Remove deletes a file or an empty directory.
	Remove(path string) error

	// RemoveAll deletes path and everything under it.
	// It returns nil if path does not exist.
	RemoveAll(path string) error
}
