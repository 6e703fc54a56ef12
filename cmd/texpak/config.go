package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/texpak/internal/logger"
)

// Config represents the texpak configuration file (~/.config/texpak/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	Level       *int   `yaml:"level"`
	KeepSources *bool  `yaml:"keep_sources"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

var globalOpts struct {
	configPath string
	logLevel   string
	logFormat  string
	config     Config
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "texpak", "config.yaml")
}

// loadConfig reads path; a missing file yields an empty config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	return cfg, nil
}

// setup loads the config file and installs the logger into the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := loadConfig(globalOpts.configPath)
	if err != nil {
		return ctx, err
	}
	globalOpts.config = cfg

	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		globalOpts.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		globalOpts.logFormat = cfg.LogFormat
	}

	log := logger.ForFormat(os.Stderr, globalOpts.logFormat, logger.ParseLevel(globalOpts.logLevel))
	return logger.WithContext(ctx, log), nil
}

// applyWriteConfig applies config defaults to write command flags that were
// not set explicitly.
func applyWriteConfig(c *cli.Command, cfg Config, level *int, keep *bool) {
	if cfg.Level != nil && !c.IsSet("level") {
		*level = *cfg.Level
	}
	if cfg.KeepSources != nil && !c.IsSet("keep") {
		*keep = *cfg.KeepSources
	}
}
