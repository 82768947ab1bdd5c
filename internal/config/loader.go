package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".agtalk-scraper"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// fileConfig mirrors the YAML file schema. Pointer fields distinguish absent
// keys from explicit zero values, and durations are Go duration strings
// ("2s", "500ms") rather than raw nanosecond integers.
type fileConfig struct {
	BaseURL          *string `yaml:"base_url"`
	ForumIDs         []int   `yaml:"forum_ids"`
	StartPage        *int    `yaml:"start_page"`
	MaxPages         *int    `yaml:"max_pages"`
	RequestDelay     *string `yaml:"request_delay"`
	Timeout          *string `yaml:"timeout"`
	MaxRetries       *int    `yaml:"max_retries"`
	RetryDelay       *string `yaml:"retry_delay"`
	MinContentLength *int    `yaml:"min_content_length"`
	MaxTitleLength   *int    `yaml:"max_title_length"`
	UserAgent        *string `yaml:"user_agent"`
	MaxBodySize      *int64  `yaml:"max_body_size"`
	DBDir            *string `yaml:"db_dir"`
	LogFile          *string `yaml:"log_file"`
}

// LoadFile overlays settings from a YAML file onto cfg. Only keys present
// in the file are applied; everything else keeps its current value, so the
// precedence order is defaults < config file < CLI flags.
// If the file does not exist, ErrConfigNotFound is returned and callers
// decide whether that is fatal based on whether the path was explicit.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	return fc.apply(cfg)
}

// apply copies every key present in the file onto cfg.
func (fc *fileConfig) apply(cfg *Config) error {
	if fc.BaseURL != nil {
		cfg.BaseURL = *fc.BaseURL
	}
	if fc.ForumIDs != nil {
		cfg.ForumIDs = fc.ForumIDs
	}
	if fc.StartPage != nil {
		cfg.StartPage = *fc.StartPage
	}
	if fc.MaxPages != nil {
		cfg.MaxPages = *fc.MaxPages
	}
	if fc.MaxRetries != nil {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.MinContentLength != nil {
		cfg.MinContentLength = *fc.MinContentLength
	}
	if fc.MaxTitleLength != nil {
		cfg.MaxTitleLength = *fc.MaxTitleLength
	}
	if fc.UserAgent != nil {
		cfg.UserAgent = *fc.UserAgent
	}
	if fc.MaxBodySize != nil {
		cfg.MaxBodySize = *fc.MaxBodySize
	}
	if fc.DBDir != nil {
		cfg.DBDir = *fc.DBDir
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}

	for _, d := range []struct {
		raw  *string
		dst  *time.Duration
		name string
	}{
		{fc.RequestDelay, &cfg.RequestDelay, "request_delay"},
		{fc.Timeout, &cfg.Timeout, "timeout"},
		{fc.RetryDelay, &cfg.RetryDelay, "retry_delay"},
	} {
		if d.raw == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .agtalk-scraper in the current directory
// 3. Look for .agtalk-scraper in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
