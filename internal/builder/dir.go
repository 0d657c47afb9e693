package builder

import (
	"fmt"
	"path/filepath"

	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// MakeDir creates a temporary directory and moves opts.Children into it.
//
// A directory that already exists at the computed path is reused: it gets no
// cleanup and HasCleanup reports false. Missing ancestors are created and
// registered. Relocation stops at the first failing child; children moved
// before it stay moved.
func (b *Builder) MakeDir(opts temporarily.DirOptions) (*temporarily.DirEntry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	mode := opts.Mode
	if mode == 0 {
		mode = b.dirMode
	}

	p, err := b.paths.BuildPath(opts.PathOptions)
	if err != nil {
		return nil, err
	}

	entry := &temporarily.DirEntry{Filepath: p, Perm: mode}
	release, err := b.ensureDir(p, mode, func() string { return entry.Filepath })
	entry.CleanupFunc = release
	if err != nil {
		return nil, err
	}

	if len(opts.Children) > 0 {
		if err := b.relocate(entry, opts.Children); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// MakeDirWith creates a directory with default options holding children.
func (b *Builder) MakeDirWith(children ...temporarily.Entry) (*temporarily.DirEntry, error) {
	return b.MakeDir(temporarily.DirOptions{Children: children})
}

// relocate renames each child into dir. Only the child itself is renamed;
// its descendants travel with it and only have their paths rewritten.
func (b *Builder) relocate(dir *temporarily.DirEntry, children []temporarily.Entry) error {
	for _, child := range children {
		from := child.Path()
		to := filepath.Join(dir.Filepath, filepath.Base(from))

		if err := b.fsys.Rename(from, to); err != nil {
			return fmt.Errorf("failed to move %s into %s: %w", from, dir.Filepath, err)
		}
		child.Rebase(dir.Filepath)
		dir.Children = append(dir.Children, child)

		b.logger.Verbose("Moved %s -> %s", from, to)
	}
	return nil
}
