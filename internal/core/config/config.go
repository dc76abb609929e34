package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Source        Source        `toml:"source"`
	Exclude       Exclude       `toml:"exclude"`
	Output        Output        `toml:"-"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Source struct {
	// Root and Output.Path always come from --path and --output.
	Root       string   `toml:"-"`
	Extensions []string `toml:"extensions"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Output struct {
	Path string
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Interval time.Duration `toml:"interval"`
	// Notify wakes the loop early on filesystem events.
	Notify              bool          `toml:"notify"`
	Debounce            time.Duration `toml:"debounce"`
	MaxWakeupsPerSecond float64       `toml:"max_wakeups_per_second"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// Default returns a fully defaulted config with no source or output set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, err
	}
	if err := validateFileKeys(md); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateSource(&cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// flagOnlyKeys are set on the command line; a file naming them is rejected
// rather than silently overridden.
var flagOnlyKeys = [][]string{
	{"source", "root"},
	{"output", "path"},
}

func validateFileKeys(md toml.MetaData) error {
	for _, key := range flagOnlyKeys {
		if md.IsDefined(key...) {
			return fmt.Errorf("config key %s.%s is not supported; use --path and --output", key[0], key[1])
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Source.Extensions) == 0 {
		cfg.Source.Extensions = []string{".cs"}
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{"bin", "obj"}
	}
	if cfg.Exclude.Files == nil {
		cfg.Exclude.Files = []string{"AssemblyInfo.cs"}
	}

	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = 500 * time.Millisecond
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 100 * time.Millisecond
	}
	if cfg.Watch.MaxWakeupsPerSecond <= 0 {
		cfg.Watch.MaxWakeupsPerSecond = 4
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "csmerge-history.db"
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "csmerge"
	}
}

func normalize(cfg *Config) {
	cfg.Source.Root = strings.TrimSpace(cfg.Source.Root)
	cfg.Output.Path = strings.TrimSpace(cfg.Output.Path)
	cfg.History.Path = strings.TrimSpace(cfg.History.Path)
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)

	exts := make([]string, 0, len(cfg.Source.Extensions))
	for _, ext := range cfg.Source.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		exts = append(exts, ext)
	}
	cfg.Source.Extensions = exts
}

// Validate checks a config assembled outside Load, after CLI overrides.
func Validate(cfg *Config) error {
	applyDefaults(cfg)
	normalize(cfg)
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateSource(cfg); err != nil {
		return err
	}
	if err := validateExclude(cfg); err != nil {
		return err
	}
	if err := validateWatch(cfg); err != nil {
		return err
	}
	return validateRequired(cfg)
}
