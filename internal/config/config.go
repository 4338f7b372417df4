package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the application configuration
type Config struct {
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects where tasks are persisted
type StorageConfig struct {
	Backend string `toml:"backend"` // sqlite, file or memory
	Path    string `toml:"path"`
}

// UIConfig holds terminal UI behavior switches
type UIConfig struct {
	ShowCompleted bool `toml:"show_completed"`

	// ClearDraftOnToggle resets the form whenever a task's completion is
	// toggled. Off unless asked for.
	ClearDraftOnToggle bool `toml:"clear_draft_on_toggle"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Path string `toml:"path"`
}

// Dir returns the directory holding the config file and default data files
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "tasklist")
}

// DefaultPath returns the standard config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    filepath.Join(Dir(), "tasklist.db"),
		},
		Log: LogConfig{
			Path: filepath.Join(Dir(), "tasklist.log"),
		},
	}
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads configuration from a specific path. The result is not
// validated, so callers can apply overrides first and then call Validate.
func LoadFrom(configPath string) (*Config, error) {
	cfg := Default()

	// No config file, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Log.Path = ExpandPath(cfg.Log.Path)

	return cfg, nil
}

// Validate checks values the decoder cannot
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves the configuration to the standard location
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return c.SaveTo(DefaultPath())
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := c.Encode(f); err != nil {
		return err
	}

	return nil
}

// Encode writes the configuration as TOML
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
