// Package config loads interpreter settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tapeLang/tape/pkg/engine"
)

// Config holds interpreter settings.
type Config struct {
	TapeSize int    `yaml:"tape_size"`
	Debug    bool   `yaml:"debug"`
	MaxSteps int    `yaml:"max_steps"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TapeSize: engine.DefaultTapeSize,
		LogLevel: "warn",
	}
}

// ValidationError lists every problem found in a Config.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "config: " + strings.Join(e.Issues, "; ")
}

// Load reads a YAML file over the defaults and validates the result.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("config: %s is empty", absPath)
		}
		return cfg, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs ValidationError
	if c.TapeSize < 1 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("tape_size must be at least 1, got %d", c.TapeSize))
	}
	if c.MaxSteps < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_steps must not be negative, got %d", c.MaxSteps))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", name)
}

// Engine builds engine settings writing program output to out.
func (c Config) Engine(out io.Writer, logger *slog.Logger) engine.Config {
	return engine.Config{
		TapeSize: c.TapeSize,
		Debug:    c.Debug,
		MaxSteps: c.MaxSteps,
		Output:   out,
		Logger:   logger,
	}
}
