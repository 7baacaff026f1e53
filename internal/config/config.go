// Package config loads the settings of the webform binary.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/drupalprojects/webform-sub000/pkg/adapters/redis"
)

// Config holds the process settings. Values come from defaults, then the
// optional config file, then WEBFORM_* environment variables.
type Config struct {
	Addr        string `yaml:"addr" json:"addr" env:"WEBFORM_ADDR"`
	FormsDir    string `yaml:"forms_dir" json:"forms_dir" env:"WEBFORM_FORMS_DIR"`
	RedisAddr   string `yaml:"redis_addr" json:"redis_addr" env:"WEBFORM_REDIS_ADDR"`
	RedisPrefix string `yaml:"redis_prefix" json:"redis_prefix" env:"WEBFORM_REDIS_PREFIX"`
	LogLevel    string `yaml:"log_level" json:"log_level" env:"WEBFORM_LOG_LEVEL"`
	MetricsPath string `yaml:"metrics_path" json:"metrics_path" env:"WEBFORM_METRICS_PATH"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:        ":8080",
		FormsDir:    "forms",
		RedisPrefix: redis.DefaultPrefix,
		LogLevel:    "info",
		MetricsPath: "/metrics",
	}
}

// Load reads the config file at path (YAML or JSON) and applies environment overrides.
// A missing file is not an error: defaults and the environment still apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
