package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const ConfigFilename = ".glyphit.yaml"

type LogConfig struct {
	File       string `yaml:"file,omitempty"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

type PromptConfig struct {
	PageSize int `yaml:"page_size"`
}

type Config struct {
	// Catalog points at a YAML emoji catalog replacing the built-in one.
	Catalog string       `yaml:"catalog,omitempty"`
	Log     LogConfig    `yaml:"log"`
	Prompt  PromptConfig `yaml:"prompt"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			MaxSize:    1,
			MaxBackups: 2,
			MaxAge:     30,
		},
		Prompt: PromptConfig{PageSize: DefaultPageSize},
	}
}

// ConfigPaths lists candidate config files, most specific first.
func ConfigPaths(repoRoot string) []string {
	var paths []string
	if repoRoot != "" {
		paths = append(paths, filepath.Join(repoRoot, ConfigFilename))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "glyphit", "config.yaml"))
	}
	return paths
}

// FindConfig loads the first existing file from ConfigPaths, or defaults.
func FindConfig(repoRoot string) (*Config, error) {
	for _, p := range ConfigPaths(repoRoot) {
		if _, err := os.Stat(p); err == nil {
			return LoadConfig(p)
		}
	}
	return DefaultConfig(), nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Relative catalog paths are relative to the config file.
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
	}
	if cfg.Prompt.PageSize <= 0 {
		cfg.Prompt.PageSize = DefaultPageSize
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
