// Package config loads aspectgen settings from YAML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete aspectgen configuration.
type Config struct {
	Models  ModelsConfig  `yaml:"models"`
	Output  OutputConfig  `yaml:"output"`
	Mock    MockConfig    `yaml:"mock"`
	Logging LoggingConfig `yaml:"logging"`
}

// ModelsConfig locates the models root used to resolve URNs.
type ModelsConfig struct {
	// Dir is a models root laid out as <namespace>/<version>/<Name>.ttl.
	Dir string `yaml:"dir"`
	// URL is a remote models root consulted after Dir.
	URL string `yaml:"url"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Locale string `yaml:"locale"`
}

type MockConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Models: ModelsConfig{Dir: "sldt-semantic-models"},
		Output: OutputConfig{Dir: "target", Locale: "en"},
		Mock:   MockConfig{Host: "127.0.0.1", Port: 2345},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is required"))
	}
	if c.Output.Locale == "" {
		errs = append(errs, errors.New("output.locale is required"))
	}
	if c.Mock.Port < 0 || c.Mock.Port > 65535 {
		errs = append(errs, fmt.Errorf("mock.port %d is out of range", c.Mock.Port))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// LoadFromFile reads a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Merge copies the non-zero values of other into c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Models.Dir != "" {
		c.Models.Dir = other.Models.Dir
	}
	if other.Models.URL != "" {
		c.Models.URL = other.Models.URL
	}
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.Locale != "" {
		c.Output.Locale = other.Output.Locale
	}
	if other.Mock.Host != "" {
		c.Mock.Host = other.Mock.Host
	}
	if other.Mock.Port != 0 {
		c.Mock.Port = other.Mock.Port
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.Format != "" {
		c.Logging.Format = other.Logging.Format
	}
	if other.Logging.AddSource {
		c.Logging.AddSource = true
	}
}
