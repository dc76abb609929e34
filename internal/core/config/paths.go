package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	SourceRoot  string
	OutputPath  string
	HistoryPath string
}

// ResolvePaths anchors the relative paths of cfg at cwd.
func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}
	if strings.TrimSpace(cfg.Source.Root) == "" {
		return ResolvedPaths{}, fmt.Errorf("source root must not be empty")
	}
	if strings.TrimSpace(cfg.Output.Path) == "" {
		return ResolvedPaths{}, fmt.Errorf("output path must not be empty")
	}

	resolved := ResolvedPaths{
		SourceRoot: ResolveRelative(cwd, cfg.Source.Root),
		OutputPath: ResolveRelative(cwd, cfg.Output.Path),
	}
	if cfg.History.Enabled {
		resolved.HistoryPath = ResolveRelative(cwd, cfg.History.Path)
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}
