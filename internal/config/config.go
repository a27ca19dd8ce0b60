// Package config provides reading and writing of blockd configuration.
// Supports both global (~/.blockd/config.yaml) and local (.blockd/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jpl-au/blockd/internal/validate"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.blockd/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is repository-specific config in .blockd/config.yaml
	ScopeLocal
)

// Author represents the author metadata stored in the repository config.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Limits holds the content size limits enforced by the validator.
// Unset fields fall back to the validate package defaults.
type Limits struct {
	MaxType    *int `yaml:"max_type,omitempty"`
	MaxTitle   *int `yaml:"max_title,omitempty"`
	MaxSummary *int `yaml:"max_summary,omitempty"`
	MaxBlocks  *int `yaml:"max_blocks,omitempty"`
	MaxSource  *int `yaml:"max_source,omitempty"`
}

// Validation bounds for configuration values.
const (
	MinLimit     = 1
	MaxTextLimit = 65536            // type, title, summary
	MaxBlocks    = 1000             // blocks per item
	MaxSource    = 10 * 1024 * 1024 // 10 M characters per block source
)

// Config contains configuration for blockd.
type Config struct {
	Author Author `yaml:"author,omitempty"`
	Limits Limits `yaml:"limits,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	for _, k := range limitKeys {
		p := k.field(&c.Limits)
		if *p == nil {
			continue
		}
		if v := **p; v < MinLimit || v > k.max {
			return fmt.Errorf("%w: %s must be between %d and %d, got %d",
				ErrInvalidValue, k.name, MinLimit, k.max, v)
		}
	}
	return nil
}

// MaxType returns the maximum length of an item type (defaults to 50).
func (c *Config) MaxType() int {
	return orDefault(c.Limits.MaxType, validate.DefaultMaxType)
}

// MaxTitle returns the maximum length of a title (defaults to 255).
func (c *Config) MaxTitle() int {
	return orDefault(c.Limits.MaxTitle, validate.DefaultMaxTitle)
}

// MaxSummary returns the maximum length of a summary (defaults to 1000).
func (c *Config) MaxSummary() int {
	return orDefault(c.Limits.MaxSummary, validate.DefaultMaxSummary)
}

// MaxBlocks returns the maximum number of blocks per item (defaults to 10).
func (c *Config) MaxBlocks() int {
	return orDefault(c.Limits.MaxBlocks, validate.DefaultMaxBlocks)
}

// MaxSource returns the maximum length of a block source (defaults to 100000).
func (c *Config) MaxSource() int {
	return orDefault(c.Limits.MaxSource, validate.DefaultMaxSource)
}

// ValidateLimits returns the limits to hand to the validator and block
// strategies.
func (c *Config) ValidateLimits() validate.Limits {
	l := validate.DefaultLimits()
	l.MaxType = c.MaxType()
	l.MaxTitle = c.MaxTitle()
	l.MaxSummary = c.MaxSummary()
	l.MaxBlocks = c.MaxBlocks()
	l.MaxSource = c.MaxSource()
	return l
}

func orDefault(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(".blockd", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.blockd/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blockd", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	return loadPath(pathForScope(scope), scope)
}

func loadPath(path string, scope Scope) (*Config, error) {
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
