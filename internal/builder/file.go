package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// MakeFile writes a temporary file, creating its ancestor directories if needed.
//
// The cleanup is registered before the write so an aborted call still leaves
// a handle behind; removing a file that never got written is not an error.
func (b *Builder) MakeFile(opts temporarily.FileOptions) (*temporarily.FileEntry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	mode := opts.Mode
	if mode == 0 {
		mode = b.fileMode
	}
	encoding := opts.Encoding
	if encoding == "" {
		encoding = b.encoding
	}

	content, err := Encode(opts.Data, encoding)
	if err != nil {
		return nil, err
	}

	p, err := b.paths.BuildPath(opts.PathOptions)
	if err != nil {
		return nil, err
	}

	entry := &temporarily.FileEntry{
		Filepath: p,
		Perm:     mode,
		Data:     opts.Data,
		Encoding: encoding,
	}
	entry.CleanupFunc = b.registry.Register(p, func() error {
		err := b.fsys.Remove(entry.Filepath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return err
		}
		return nil
	})

	if err := b.EnsureAncestors(p); err != nil {
		return nil, err
	}
	if err := b.fsys.WriteFile(p, content, mode); err != nil {
		return nil, fmt.Errorf("failed to write file %s: %w", p, err)
	}

	b.logger.Verbose("Created file: %s (%d bytes, %s)", p, len(content), encoding)
	return entry, nil
}
