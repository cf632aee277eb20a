// Package config loads the optional YAML configuration file. Every field has
// a default, so a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/parser"
)

// StorageConfig selects the local store.
type StorageConfig struct {
	// Target is a sqlite path, a .json file, "memory", or a postgres URL.
	Target string `yaml:"target"`
}

// RemoteConfig points at the shared progress store.
type RemoteConfig struct {
	// DSN is a postgres connection string without a password. The keyring
	// or ONBOARD_REMOTE_DSN take precedence when set.
	DSN     string `yaml:"dsn"`
	Enabled bool   `yaml:"enabled"`
}

// DataConfig controls where task data comes from and how rows are read.
type DataConfig struct {
	TasksFile        string `yaml:"tasks_file"`
	MetaFile         string `yaml:"meta_file"`
	StartRow         int    `yaml:"start_row"`
	FallbackCategory string `yaml:"fallback_category"`
}

// LogConfig holds logging switches. Zero values keep the logger defaults.
type LogConfig struct {
	Debug      bool   `yaml:"debug"`
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Config is the parsed config.yaml.
type Config struct {
	Storage    StorageConfig       `yaml:"storage"`
	Remote     RemoteConfig        `yaml:"remote"`
	Data       DataConfig          `yaml:"data"`
	Log        LogConfig           `yaml:"log"`
	Dimensions map[string][]string `yaml:"dimensions"`

	// path is the file the config was read from, if any.
	path string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Target: constants.DefaultDBPath},
		Data: DataConfig{
			StartRow:         parser.DefaultStartRow,
			FallbackCategory: parser.DefaultCategory,
		},
	}
}

// Load reads path over the defaults. A missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.normalize()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.normalize()
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(c.path, data, 0600)
}

// Path returns the file backing this config.
func (c *Config) Path() string { return c.path }

// Dir returns the directory holding the config file, which also holds logs
// and the session lock.
func (c *Config) Dir() string {
	if c.path == "" {
		dir, _ := ExpandPath(constants.DefaultConfigDir)
		return dir
	}
	return filepath.Dir(c.path)
}

// ParseOptions returns the row-parsing options for this config.
func (c *Config) ParseOptions() []parser.Option {
	return []parser.Option{
		parser.WithStartRow(c.Data.StartRow),
		parser.WithFallbackCategory(c.Data.FallbackCategory),
	}
}

func (c *Config) normalize() error {
	if c.Data.StartRow < 0 {
		return fmt.Errorf("data.start_row must not be negative, got %d", c.Data.StartRow)
	}
	if c.Data.StartRow == 0 {
		c.Data.StartRow = parser.DefaultStartRow
	}
	if c.Data.FallbackCategory == "" {
		c.Data.FallbackCategory = parser.DefaultCategory
	}
	if c.Storage.Target == "" {
		c.Storage.Target = constants.DefaultDBPath
	}

	var err error
	if c.Storage.Target, err = ExpandPath(c.Storage.Target); err != nil {
		return err
	}
	if c.Data.TasksFile, err = ExpandPath(c.Data.TasksFile); err != nil {
		return err
	}
	if c.Data.MetaFile, err = ExpandPath(c.Data.MetaFile); err != nil {
		return err
	}
	if c.Log.File, err = ExpandPath(c.Log.File); err != nil {
		return err
	}
	return nil
}

// ExpandPath replaces a leading "~" with the user's home directory. URLs
// and empty strings are returned unchanged.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
