package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/temporarily/internal/builder"
	"github.com/vvka-141/temporarily/internal/config"
	"github.com/vvka-141/temporarily/internal/template"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// Node is one entry of a tree.
type Node struct {
	Name     string `yaml:"name"`
	Ext      string `yaml:"ext,omitempty"`
	Mode     string `yaml:"mode,omitempty"`
	Dir      bool   `yaml:"dir,omitempty"`
	Data     string `yaml:"data,omitempty"`
	Encoding string `yaml:"encoding,omitempty"`
	Children []Node `yaml:"children,omitempty"`
}

// IsDir reports whether the node describes a directory.
func (n *Node) IsDir() bool {
	return n.Dir || len(n.Children) > 0
}

// Manifest is a tree rooted in a single directory.
type Manifest struct {
	BaseDir  string `yaml:"base_dir,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Mode     string `yaml:"mode,omitempty"`
	Children []Node `yaml:"children"`
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%v: %w", err, temporarily.ErrInvalidManifest)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks every node.
// It returns a multi-error if multiple validation failures occur.
func (m *Manifest) Validate() error {
	var errs []error

	if m.Name != "" {
		errs = append(errs, validateName("root", m.Name)...)
	}
	if m.Mode != "" {
		if _, err := config.ParseMode(m.Mode); err != nil {
			errs = append(errs, invalid("root: %v", err))
		}
	}
	errs = append(errs, validateChildren("", m.Children)...)

	return errors.Join(errs...)
}

func (n *Node) validate(at string) []error {
	var errs []error

	if n.Name == "" {
		errs = append(errs, invalid("%s: name is required", at))
	} else {
		errs = append(errs, validateName(at, n.Name)...)
	}
	if n.Mode != "" {
		if _, err := config.ParseMode(n.Mode); err != nil {
			errs = append(errs, invalid("%s: %v", at, err))
		}
	}

	if n.IsDir() {
		if n.Data != "" || n.Encoding != "" || n.Ext != "" {
			errs = append(errs, invalid("%s: directories cannot carry data, encoding or ext", at))
		}
		errs = append(errs, validateChildren(at+".", n.Children)...)
		return errs
	}

	if n.Encoding != "" && !builder.SupportedEncoding(n.Encoding) {
		errs = append(errs, invalid("%s: unsupported encoding %q", at, n.Encoding))
	}
	if strings.ContainsAny(n.Ext, `/\`) {
		errs = append(errs, invalid("%s: ext must not contain a path separator", at))
	}
	return errs
}

// validateChildren checks each node and rejects siblings that would land
// on the same fixed basename.
func validateChildren(prefix string, nodes []Node) []error {
	var errs []error
	seen := make(map[string]string, len(nodes))
	for i := range nodes {
		at := fmt.Sprintf("%schildren[%d]", prefix, i)
		errs = append(errs, nodes[i].validate(at)...)

		if nodes[i].Name == "" || template.HasPlaceholders(nodes[i].Name) {
			continue
		}
		base := nodes[i].basename()
		if first, ok := seen[base]; ok {
			errs = append(errs, invalid("%s: name %q already used by %s", at, base, first))
			continue
		}
		seen[base] = at
	}
	return errs
}

func (n *Node) basename() string {
	if n.Ext == "" || n.IsDir() {
		return n.Name
	}
	return n.Name + "." + n.Ext
}

func validateName(at, name string) []error {
	var errs []error
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		errs = append(errs, invalid("%s: name %q must be a single path segment", at, name))
	}
	if err := template.Validate(name); err != nil {
		errs = append(errs, invalid("%s: %v", at, err))
	}
	return errs
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, temporarily.ErrInvalidManifest)...)
}

// Build creates the tree and returns its root directory.
func Build(b *builder.Builder, m *Manifest) (*temporarily.DirEntry, error) {
	mode, err := parseOptionalMode(m.Mode)
	if err != nil {
		return nil, err
	}
	children, err := buildChildren(b, m.Children)
	if err != nil {
		return nil, err
	}
	return b.MakeDir(temporarily.DirOptions{
		PathOptions: temporarily.PathOptions{BaseDir: m.BaseDir, NamePattern: m.Name},
		Mode:        mode,
		Children:    children,
	})
}

func buildChildren(b *builder.Builder, nodes []Node) ([]temporarily.Entry, error) {
	entries := make([]temporarily.Entry, 0, len(nodes))
	for i := range nodes {
		e, err := buildNode(b, &nodes[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func buildNode(b *builder.Builder, n *Node) (temporarily.Entry, error) {
	mode, err := parseOptionalMode(n.Mode)
	if err != nil {
		return nil, err
	}

	if !n.IsDir() {
		file, err := b.MakeFile(temporarily.FileOptions{
			PathOptions: temporarily.PathOptions{NamePattern: n.Name, Extension: n.Ext},
			Data:        n.Data,
			Encoding:    n.Encoding,
			Mode:        mode,
		})
		if err != nil {
			return nil, err
		}
		return file, nil
	}

	children, err := buildChildren(b, n.Children)
	if err != nil {
		return nil, err
	}
	dir, err := b.MakeDir(temporarily.DirOptions{
		PathOptions: temporarily.PathOptions{NamePattern: n.Name},
		Mode:        mode,
		Children:    children,
	})
	if err != nil {
		return nil, err
	}
	return dir, nil
}

func parseOptionalMode(s string) (fs.FileMode, error) {
	if s == "" {
		return 0, nil
	}
	return config.ParseMode(s)
}
