package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d", cfg.Version)
	}
	return nil
}

func validateSource(cfg *Config) error {
	if len(cfg.Source.Extensions) == 0 {
		return fmt.Errorf("source.extensions must not be empty")
	}
	for _, ext := range cfg.Source.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("source.extensions entry %q must start with '.'", ext)
		}
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(strings.ToLower(pattern)); err != nil {
			return fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
	}
	for _, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive")
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func validateRequired(cfg *Config) error {
	if cfg.Source.Root == "" {
		return fmt.Errorf("source root is required")
	}
	if cfg.Output.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}
