package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/temporarily/internal/builder"
	"github.com/vvka-141/temporarily/internal/template"
	"github.com/vvka-141/temporarily/pkg/temporarily"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "temporarily.yaml"

// Environment variables overriding the config file.
const (
	EnvTempRoot    = "TEMPORARILY_TMPDIR"
	EnvRootPattern = "TEMPORARILY_ROOT_PATTERN"
	EnvNamePattern = "TEMPORARILY_NAME_PATTERN"
	EnvDirMode     = "TEMPORARILY_DIR_MODE"
	EnvFileMode    = "TEMPORARILY_FILE_MODE"
	EnvEncoding    = "TEMPORARILY_ENCODING"
)

// Config holds the defaults applied to every created entry.
// Modes are octal strings such as "0755".
type Config struct {
	TempRoot    string `yaml:"temp_root,omitempty"`
	RootPattern string `yaml:"root_pattern,omitempty"`
	NamePattern string `yaml:"name_pattern,omitempty"`
	DirMode     string `yaml:"dir_mode,omitempty"`
	FileMode    string `yaml:"file_mode,omitempty"`
	Encoding    string `yaml:"encoding,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TempRoot:    os.TempDir(),
		RootPattern: temporarily.DefaultRootPattern,
		NamePattern: temporarily.DefaultNamePattern,
		DirMode:     formatMode(temporarily.DefaultDirMode),
		FileMode:    formatMode(temporarily.DefaultFileMode),
		Encoding:    temporarily.DefaultEncoding,
	}
}

// Load reads ConfigFileName from dir.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", configPath, err, temporarily.ErrInvalidConfig)
	}
	return &cfg, nil
}

// Resolve layers defaults, the config file in dir (if any) and the
// environment, then validates the result.
func Resolve(dir string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	fileCfg, err := Load(dir)
	switch {
	case err == nil:
		cfg.Merge(fileCfg)
	case !errors.Is(err, ErrConfigNotFound):
		return nil, err
	}

	cfg.ApplyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge copies every non-empty field of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.TempRoot, other.TempRoot)
	set(&c.RootPattern, other.RootPattern)
	set(&c.NamePattern, other.NamePattern)
	set(&c.DirMode, other.DirMode)
	set(&c.FileMode, other.FileMode)
	set(&c.Encoding, other.Encoding)
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	c.Merge(&Config{
		TempRoot:    getenv(EnvTempRoot),
		RootPattern: getenv(EnvRootPattern),
		NamePattern: getenv(EnvNamePattern),
		DirMode:     getenv(EnvDirMode),
		FileMode:    getenv(EnvFileMode),
		Encoding:    getenv(EnvEncoding),
	})
}

// Validate checks patterns, modes and encoding.
// It returns a multi-error if multiple validation failures occur.
func (c *Config) Validate() error {
	var errs []error

	if err := template.Validate(c.RootPattern); err != nil {
		errs = append(errs, fmt.Errorf("root_pattern: %v: %w", err, temporarily.ErrInvalidConfig))
	}
	if err := template.Validate(c.NamePattern); err != nil {
		errs = append(errs, fmt.Errorf("name_pattern: %v: %w", err, temporarily.ErrInvalidConfig))
	}
	if strings.ContainsAny(c.NamePattern, `/\`) {
		errs = append(errs, fmt.Errorf("name_pattern %q must not contain a path separator: %w", c.NamePattern, temporarily.ErrInvalidConfig))
	}
	if _, err := ParseMode(c.DirMode); err != nil {
		errs = append(errs, fmt.Errorf("dir_mode: %w", err))
	}
	if _, err := ParseMode(c.FileMode); err != nil {
		errs = append(errs, fmt.Errorf("file_mode: %w", err))
	}
	if !builder.SupportedEncoding(c.Encoding) {
		errs = append(errs, fmt.Errorf("encoding %q is not supported: %w", c.Encoding, temporarily.ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// DirPerm returns the parsed directory mode. Call after Validate.
func (c *Config) DirPerm() fs.FileMode {
	mode, _ := ParseMode(c.DirMode)
	return mode
}

// FilePerm returns the parsed file mode. Call after Validate.
func (c *Config) FilePerm() fs.FileMode {
	mode, _ := ParseMode(c.FileMode)
	return mode
}

// ParseMode parses an octal permission string: "755", "0755" or "0o755".
func ParseMode(s string) (fs.FileMode, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	v, err := strconv.ParseUint(digits, 8, 32)
	if err != nil || digits == "" {
		return 0, fmt.Errorf("invalid mode %q, expected octal like 0755: %w", s, temporarily.ErrInvalidConfig)
	}
	mode := fs.FileMode(v)
	if mode&^fs.ModePerm != 0 {
		return 0, fmt.Errorf("mode %q exceeds permission bits: %w", s, temporarily.ErrInvalidConfig)
	}
	return mode, nil
}

func formatMode(mode fs.FileMode) string {
	return fmt.Sprintf("%#o", uint32(mode.Perm()))
}
