// Package config manages the YAML configuration shared by the CLI and the HTTP server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for fsentity
type Config struct {
	// Workspace root every entity path is resolved against
	Root string `yaml:"root"`
	// When set, the workspace is served read-only from this git ref
	GitRef string `yaml:"git_ref,omitempty"`

	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// Octal permission strings, e.g. "0755"
	DirMode  string `yaml:"dir_mode"`
	FileMode string `yaml:"file_mode"`

	SourceExtensions   []string `yaml:"source_extensions"`
	MarkdownExtensions []string `yaml:"markdown_extensions"`
	Exclude            []string `yaml:"exclude"`

	// Internal: path to config file for saving
	configPath string
	// Internal: why an auto-discovered config file was skipped
	loadWarning error
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Root:               ".",
		Port:               8080,
		LogLevel:           "info",
		DirMode:            "0755",
		FileMode:           "0644",
		SourceExtensions:   []string{".php"},
		MarkdownExtensions: []string{".md", ".markdown"},
		Exclude:            []string{".git", "node_modules"},
	}
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/fsentity"
	}
	return filepath.Join(home, ".config", "fsentity")
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load resolves the configuration file and returns the merged configuration.
// An explicit path must exist; otherwise ~/.config/fsentity/config.yaml is
// tried, then ./fsentity.yaml, and defaults are used when neither exists.
// A discovered file that cannot be read or parsed is skipped in favour of
// the defaults and reported through LoadWarning.
func Load(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	var cfgPath string
	if explicitPath != "" {
		cfgPath = explicitPath
	} else if _, err := os.Stat(GetConfigPath()); err == nil {
		cfgPath = GetConfigPath()
	} else if _, err := os.Stat("fsentity.yaml"); err == nil {
		cfgPath = "fsentity.yaml"
	}

	if cfgPath == "" {
		cfg.configPath = GetConfigPath()
		return cfg, nil
	}
	if err := cfg.loadFromFile(cfgPath); err != nil {
		// Only fail if the user asked for this file
		if explicitPath != "" {
			return nil, err
		}
		// Unmarshal may have applied part of the document
		cfg = DefaultConfig()
		cfg.loadWarning = fmt.Errorf("config: ignoring %s: %w", cfgPath, err)
	}
	cfg.configPath = cfgPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate reports malformed permission strings.
func (c *Config) Validate() error {
	if _, err := ParseMode(c.DirMode); err != nil {
		return fmt.Errorf("config: dir_mode: %w", err)
	}
	if _, err := ParseMode(c.FileMode); err != nil {
		return fmt.Errorf("config: file_mode: %w", err)
	}
	return nil
}

// Save saves the current configuration to the config file
func (c *Config) Save() error {
	// Ensure config directory exists
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// LoadWarning returns the error that made Load fall back to the defaults,
// or nil.
func (c *Config) LoadWarning() error {
	return c.loadWarning
}

// GetConfigFilePath returns the path to the config file
func (c *Config) GetConfigFilePath() string {
	return c.configPath
}

// SetConfigFilePath changes where Save writes.
func (c *Config) SetConfigFilePath(path string) {
	c.configPath = path
}

// IsExcluded checks if a path should be excluded
func (c *Config) IsExcluded(path string) bool {
	base := filepath.Base(path)
	for _, exclude := range c.Exclude {
		if matched, _ := filepath.Match(exclude, base); matched {
			return true
		}
	}
	return false
}

// IsSourceFile checks if a file should be handled as a PHP return-file
func (c *Config) IsSourceFile(path string) bool {
	return hasExt(path, c.SourceExtensions)
}

// IsMarkdownFile checks if a file has a markdown extension
func (c *Config) IsMarkdownFile(path string) bool {
	return hasExt(path, c.MarkdownExtensions)
}

// DirPerm returns DirMode as a permission, falling back to 0755.
func (c *Config) DirPerm() os.FileMode {
	if m, err := ParseMode(c.DirMode); err == nil {
		return m
	}
	return 0755
}

// FilePerm returns FileMode as a permission, falling back to 0644.
func (c *Config) FilePerm() os.FileMode {
	if m, err := ParseMode(c.FileMode); err == nil {
		return m
	}
	return 0644
}

func hasExt(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// ParseMode parses an octal permission string such as "0755".
func ParseMode(s string) (os.FileMode, error) {
	if s == "" {
		return 0, fmt.Errorf("empty mode")
	}
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q", s)
	}
	if n > 0o777 {
		return 0, fmt.Errorf("mode %q out of range", s)
	}
	return os.FileMode(n), nil
}
