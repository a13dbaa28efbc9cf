// Package config loads adpatch settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/adpatch/internal/logging"
	"github.com/rshade/adpatch/internal/patch"
)

// Environment variables read by Load and ApplyEnv.
const (
	EnvConfig   = "ADPATCH_CONFIG"
	EnvBasePath = "ADPATCH_BASE_PATH"
	EnvProfile  = "ADPATCH_PROFILE"
	EnvLogLevel = "ADPATCH_LOG_LEVEL"
)

const (
	// DefaultFileName is the config file looked up in the working directory.
	DefaultFileName = "adpatch.yaml"

	// DefaultBasePath is the Next.js app directory relative to the project root.
	DefaultBasePath = "src/app"

	xdgRelPath = "adpatch/config.yaml"
)

// Config is the on-disk configuration.
type Config struct {
	// BasePath is the directory target files are relative to.
	BasePath string `yaml:"base_path"`

	// Profile selects the built-in rule set.
	Profile string `yaml:"profile"`

	// Files overrides the profile's target list when non-empty.
	Files []string `yaml:"files,omitempty"`

	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		BasePath: DefaultBasePath,
		Profile:  patch.DefaultProfile,
		Logging: LoggingConfig{
			Level:  zerolog.LevelInfoValue,
			Format: logging.FormatConsole,
		},
		configPath: DefaultFileName,
	}
}

// ConfigPath returns the file the config was loaded from or will be saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath sets the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// FindConfigFile resolves which config file to read. It checks, in order:
//  1. explicit (the --config flag), which must exist
//  2. ADPATCH_CONFIG, which must exist
//  3. ./adpatch.yaml
//  4. $XDG_CONFIG_HOME/adpatch/config.yaml and the XDG config dirs
//
// It returns "" with no error when no optional location has a file.
func FindConfigFile(explicit string, lookupEnv func(string) (string, bool)) (string, error) {
	if explicit != "" {
		return requireFile(explicit)
	}
	if env, ok := lookupEnv(EnvConfig); ok && env != "" {
		return requireFile(env)
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, nil
	}
	if path, err := xdg.SearchConfigFile(xdgRelPath); err == nil {
		return path, nil
	}
	return "", nil
}

func requireFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("config file %s: %w", path, err)
	}
	return path, nil
}

// Load builds a Config from defaults, the resolved config file and the
// environment, then validates it. Keys absent from the file keep their
// defaults.
func Load(explicit string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := New()

	path, err := FindConfigFile(explicit, lookupEnv)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
		cfg.configPath = path
	}

	cfg.ApplyEnv(lookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the ADPATCH_* environment variables.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvBasePath); ok && v != "" {
		c.BasePath = v
	}
	if v, ok := lookupEnv(EnvProfile); ok && v != "" {
		c.Profile = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
}

// Validation errors.
var (
	ErrEmptyBasePath  = errors.New("base_path must not be empty")
	ErrInvalidLevel   = errors.New("invalid logging level")
	ErrInvalidFormat  = errors.New("invalid logging format")
	ErrEmptyFileEntry = errors.New("files entries must not be empty")
)

// Validate checks the config for values the patcher cannot use.
func (c *Config) Validate() error {
	var errs []error

	if c.BasePath == "" {
		errs = append(errs, ErrEmptyBasePath)
	}
	if _, err := patch.LookupProfile(c.Profile); err != nil {
		errs = append(errs, err)
	}
	if slices.Contains(c.Files, "") {
		errs = append(errs, ErrEmptyFileEntry)
	}
	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
			errs = append(errs, fmt.Errorf("%w %q", ErrInvalidLevel, c.Logging.Level))
		}
	}
	switch c.Logging.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w %q (want console or json)", ErrInvalidFormat, c.Logging.Format))
	}

	return errors.Join(errs...)
}

// ResolveBasePath returns an absolute base path. override wins when set.
func (c *Config) ResolveBasePath(override string) (string, error) {
	base := c.BasePath
	if override != "" {
		base = override
	}
	if base == "" {
		return "", ErrEmptyBasePath
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolving base path %s: %w", base, err)
	}
	return abs, nil
}

// Save writes the config as YAML to ConfigPath, creating parent directories.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(c.configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating config directory %s: %w", dir, err)
		}
	}
	//nolint:gosec // Config holds no secrets and is meant to be committed.
	if err := os.WriteFile(c.configPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Exists reports whether ConfigPath already names a file.
func (c *Config) Exists() (bool, error) {
	_, err := os.Stat(c.configPath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("cannot access config path %s: %w", c.configPath, err)
}

// ToLoggingConfig converts the logging section for internal/logging. A set
// File switches output to that file.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
