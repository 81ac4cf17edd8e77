package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every env tag in Config.
const EnvPrefix = "MOTHGRAMS_"

var validate = validator.New()

// Load builds the effective configuration: defaults, then the YAML file
// (explicit path or first standard location), then a .env file if present,
// then MOTHGRAMS_-prefixed environment variables. CLI flags are merged by
// the subcommands afterwards; call Validate once merging is done.
func Load(ctx context.Context, configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := mergeFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	}

	// A .env in the working directory feeds the environment lookup below.
	_ = godotenv.Load()

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, envconfig.OsLookuper()),
	}); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the merged configuration against the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	return nil
}

// mergeFile overlays YAML file values onto cfg.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile searches the standard locations, returning "" when no
// config file exists.
func findConfigFile() string {
	locations := []string{
		"./mothgrams.yaml",
		"./mothgrams.yml",
		filepath.Join(os.Getenv("HOME"), ".mothgrams", "config.yaml"),
		"/etc/mothgrams/config.yaml",
	}
	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
