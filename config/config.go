// Package config provides loading and parsing of lexgraph.yaml
// configuration files. The configuration covers the store connection, the
// key namespace, and default query limits; it is immutable once loaded.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is a parsed lexgraph.yaml file.
type Config struct {
	// Store connection settings.
	Store StoreConfig `yaml:"store"`

	// Namespace is the key prefix applied to every graph key.
	Namespace string `yaml:"namespace,omitempty"`

	// Separator joins key components. Single character, defaults to ":".
	Separator string `yaml:"separator,omitempty"`

	// SearchLimit is the default per-term result limit of searches.
	SearchLimit int `yaml:"search_limit,omitempty"`
}

// StoreConfig describes the backing store connection.
type StoreConfig struct {
	// URL is the store connection string (e.g., "redis://localhost:6379").
	URL string `yaml:"url"`

	// DB selects the logical database.
	DB int `yaml:"db,omitempty"`

	// ConnectTimeout bounds connection establishment.
	// Format: Go duration string (e.g., "5s").
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`

	// ReadTimeout bounds read operations.
	// Format: Go duration string (e.g., "30s").
	ReadTimeout string `yaml:"read_timeout,omitempty"`

	// WriteTimeout bounds write operations.
	// Format: Go duration string (e.g., "5s").
	WriteTimeout string `yaml:"write_timeout,omitempty"`
}

// GetConnectTimeout parses the connect timeout, zero when unset or invalid.
// A zero value lets the store apply its own default.
func (s *StoreConfig) GetConnectTimeout() time.Duration {
	return parseDuration(s.ConnectTimeout)
}

// GetReadTimeout parses the read timeout, zero when unset or invalid.
func (s *StoreConfig) GetReadTimeout() time.Duration {
	return parseDuration(s.ReadTimeout)
}

// GetWriteTimeout parses the write timeout, zero when unset or invalid.
func (s *StoreConfig) GetWriteTimeout() time.Duration {
	return parseDuration(s.WriteTimeout)
}

func parseDuration(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

// Defaults applied by Load when the file leaves fields unset.
const (
	DefaultNamespace   = "lex"
	DefaultSeparator   = ":"
	DefaultSearchLimit = 10
	DefaultStoreURL    = "redis://localhost:6379"
)

// Load reads and parses a configuration file. When path is a directory,
// lexgraph.yaml then lexgraph.yml inside it are tried. Unset fields receive
// defaults; an invalid file is an error.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		yamlPath := filepath.Join(path, "lexgraph.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "lexgraph.yml")
			if _, err := os.Stat(ymlPath); err != nil {
				return nil, fmt.Errorf("no lexgraph.yaml or lexgraph.yml found in %s", path)
			}
			configPath = ymlPath
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Store.URL == "" {
		c.Store.URL = DefaultStoreURL
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.Separator == "" {
		c.Separator = DefaultSeparator
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = DefaultSearchLimit
	}
}

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	if len(c.Separator) != 1 {
		return fmt.Errorf("separator must be a single character, got %q", c.Separator)
	}
	if c.SearchLimit < 0 {
		return fmt.Errorf("search_limit must not be negative, got %d", c.SearchLimit)
	}
	if c.Store.DB < 0 {
		return fmt.Errorf("store db must not be negative, got %d", c.Store.DB)
	}
	return nil
}
