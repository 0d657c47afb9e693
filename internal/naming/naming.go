// Package naming composes absolute temporary paths from a base directory, a
// rendered name pattern and an optional extension. It performs no I/O against
// the paths it returns.
package naming

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vvka-141/temporarily/internal/template"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// Builder computes entry paths.
type Builder struct {
	renderer    *template.Renderer
	tempRoot    string
	rootPattern string
	namePattern string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRenderer replaces the template renderer.
func WithRenderer(r *template.Renderer) Option {
	return func(b *Builder) { b.renderer = r }
}

// WithTempRoot sets the directory under which private base directories are
// rendered. Defaults to os.TempDir().
func WithTempRoot(dir string) Option {
	return func(b *Builder) { b.tempRoot = dir }
}

// WithRootPattern sets the pattern for private base directories.
func WithRootPattern(pattern string) Option {
	return func(b *Builder) { b.rootPattern = pattern }
}

// WithNamePattern sets the pattern used when PathOptions.NamePattern is empty.
func WithNamePattern(pattern string) Option {
	return func(b *Builder) { b.namePattern = pattern }
}

// New creates a path Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		renderer:    template.NewRenderer(nil),
		rootPattern: temporarily.DefaultRootPattern,
		namePattern: temporarily.DefaultNamePattern,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.tempRoot == "" {
		b.tempRoot = os.TempDir()
	}
	return b
}

// TempRoot returns the directory private base directories are placed under.
func (b *Builder) TempRoot() string { return b.tempRoot }

// BuildPath returns resolve(baseDir)/rendered(namePattern)[.ext].
// Without an explicit BaseDir every call renders its own private directory
// under the temp root.
func (b *Builder) BuildPath(opts temporarily.PathOptions) (string, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		root, err := b.renderer.Render(b.rootPattern)
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(b.tempRoot, root)
	}

	dir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", baseDir, err)
	}

	pattern := opts.NamePattern
	if pattern == "" {
		pattern = b.namePattern
	}
	name, err := b.renderer.Render(pattern)
	if err != nil {
		return "", err
	}
	if opts.Extension != "" {
		name += "." + opts.Extension
	}

	return filepath.Join(dir, name), nil
}
