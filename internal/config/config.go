package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Database Database `yaml:"database"`
	API      API      `yaml:"api"`
	Resolver Resolver `yaml:"resolver"`
	Logging  Logging  `yaml:"logging"`
}

// Database points at the revision-history store: a local sqlite mirror by
// default, or a replica DSN with the matching driver name.
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// API configures the MediaWiki content API client.
type API struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	BatchSize int    `yaml:"batch_size"`
}

// Resolver tunes the backward walk.
type Resolver struct {
	BatchSize       int `yaml:"batch_size"`
	RevertRadius    int `yaml:"revert_radius"`
	MaxContentBytes int `yaml:"max_content_bytes"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for wikihist.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "wikihist")
}

// DataDir returns the XDG data directory for wikihist.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "wikihist")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/wikihist/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'wikihist init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Database: Database{
			Driver: "sqlite",
		},
		API: API{
			BaseURL:   "https://en.wikipedia.org/w/api.php",
			UserAgent: "wikihist/1.0 (assessment history resolver)",
			BatchSize: 10,
		},
		Resolver: Resolver{
			BatchSize:       20,
			RevertRadius:    15,
			MaxContentBytes: 8192,
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDSN returns the effective history-store DSN: the configured one, or
// the default sqlite mirror path under the data directory.
func (c *Config) GetDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return filepath.Join(DataDir(), "history.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
