// Package builder creates temporary directories and files, materializes their
// ancestor directories and relocates previously built entries into new
// parents. Every entry it creates is registered with a cleanup.Registry.
package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/vvka-141/temporarily/internal/cleanup"
	"github.com/vvka-141/temporarily/internal/files/filesystem"
	"github.com/vvka-141/temporarily/internal/logging"
	"github.com/vvka-141/temporarily/internal/naming"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// Builder creates temporary entries. It is not safe for concurrent use; the
// registry it writes to is.
type Builder struct {
	fsys     filesystem.FileSystem
	paths    *naming.Builder
	registry *cleanup.Registry
	logger   temporarily.Logger

	dirMode  fs.FileMode
	fileMode fs.FileMode
	encoding string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fsys filesystem.FileSystem) Option {
	return func(b *Builder) { b.fsys = fsys }
}

// WithPaths replaces the default path builder.
func WithPaths(paths *naming.Builder) Option {
	return func(b *Builder) { b.paths = paths }
}

// WithLogger sets the logger. Defaults to a NullLogger.
func WithLogger(logger temporarily.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithDirMode sets the mode used when DirOptions.Mode is zero and for
// materialized ancestors.
func WithDirMode(mode fs.FileMode) Option {
	return func(b *Builder) { b.dirMode = mode }
}

// WithFileMode sets the mode used when FileOptions.Mode is zero.
func WithFileMode(mode fs.FileMode) Option {
	return func(b *Builder) { b.fileMode = mode }
}

// WithEncoding sets the encoding used when FileOptions.Encoding is empty.
func WithEncoding(encoding string) Option {
	return func(b *Builder) { b.encoding = encoding }
}

// New creates a Builder registering cleanups with registry.
func New(registry *cleanup.Registry, opts ...Option) *Builder {
	b := &Builder{
		registry: registry,
		dirMode:  temporarily.DefaultDirMode,
		fileMode: temporarily.DefaultFileMode,
		encoding: temporarily.DefaultEncoding,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.fsys == nil {
		b.fsys = filesystem.NewOSFileSystem()
	}
	if b.paths == nil {
		b.paths = naming.New()
	}
	if b.logger == nil {
		b.logger = logging.NewNullLogger()
	}
	return b
}

// BuildPath computes an entry path without touching the filesystem.
func (b *Builder) BuildPath(opts temporarily.PathOptions) (string, error) {
	return b.paths.BuildPath(opts)
}

// Registry returns the registry cleanups are recorded in.
func (b *Builder) Registry() *cleanup.Registry {
	return b.registry
}

// EnsureAncestors makes sure every directory above p exists. Missing
// ancestors are created with the builder's directory mode and each one gets
// its own cleanup. Existing ancestors are left untouched and stop the walk.
func (b *Builder) EnsureAncestors(p string) error {
	parent := filepath.Dir(p)
	if parent == p {
		return nil
	}
	_, err := b.ensureDir(parent, b.dirMode, func() string { return parent })
	return err
}

// ensureDir creates the directory at path() unless it exists. The cleanup is
// registered before any ancestor is created, so the registry lists the
// deepest directory first. It returns nil cleanup for an existing directory.
func (b *Builder) ensureDir(p string, mode fs.FileMode, path func() string) (temporarily.CleanupFunc, error) {
	_, err := b.fsys.Stat(p)
	if err == nil {
		b.logger.Verbose("Reusing existing directory: %s", p)
		return nil, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, &temporarily.AccessCheckError{Path: p, Err: err}
	}

	release := b.registry.Register(p, func() error {
		return b.fsys.RemoveAll(path())
	})

	if err := b.EnsureAncestors(p); err != nil {
		return release, err
	}
	if err := b.fsys.Mkdir(p, mode); err != nil {
		return release, fmt.Errorf("failed to create directory %s: %w", p, err)
	}

	b.logger.Verbose("Created directory: %s", p)
	return release, nil
}
