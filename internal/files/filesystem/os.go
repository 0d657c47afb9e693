package filesystem

import (
	"fmt"
	"io/fs"
	"os"
)

// OSFileSystem implements FileSystem for the OS filesystem
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

func (p *OSFileSystem) Mkdir(path string, perm fs.FileMode) error {
	return os.Mkdir(path, perm)
}

func (p *OSFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (p *OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		result = append(result, info)
	}

	return result, nil
}

func (p *OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (p *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (p *OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

var _ FileSystem = (*OSFileSystem)(nil)
