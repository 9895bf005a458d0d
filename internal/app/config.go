package app

import (
	"fmt"
	"strings"
	"time"
)

// Config holds runtime configuration for the application.
type Config struct {
	Inputs    []string
	OutputDir string
	// Catalog is an embedded catalog name or a path to a YAML catalog.
	Catalog string
	Formats []string

	// Batch
	Concurrency int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	NoCache          bool

	// Now pins the reference time for calibration windows. Zero means the
	// wall clock at the start of the run.
	Now     time.Time
	Verbose bool
}

const (
	outputDirDefault   = "reportes"
	cacheDirDefault    = ".goexpediente-cache"
	concurrencyDefault = 4
)

// knownFormats lists the report formats in the order they are written.
var knownFormats = []string{"json", "txt", "pdf"}

// DefaultFormats returns every supported report format.
func DefaultFormats() []string { return append([]string(nil), knownFormats...) }

// ParseFormats reads a comma-separated format list such as "json,pdf".
// Duplicates collapse and the result follows the order of knownFormats.
func ParseFormats(s string) ([]string, error) {
	want := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		f := strings.ToLower(strings.TrimSpace(p))
		if f == "" {
			continue
		}
		ok := false
		for _, k := range knownFormats {
			if f == k {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("config: unknown format %q (want json, txt or pdf)", f)
		}
		want[f] = true
	}
	var out []string
	for _, k := range knownFormats {
		if want[k] {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("config: empty format list")
	}
	return out, nil
}

// ParseNow accepts RFC3339 timestamps or plain dates. Dates are read in loc.
func ParseNow(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: reference time %q: want RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// ApplyDefaults fills whatever no source configured.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = outputDirDefault
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = DefaultFormats()
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = concurrencyDefault
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = cacheDirDefault
	}
}

// Layer merges the configuration sources with precedence flags > env > file.
// flags carries only the values set explicitly on the command line. Without a
// config file, the environment fills what the flags left unset.
func Layer(flags Config, fc *FileConfig) (Config, error) {
	if fc == nil {
		cfg := flags
		ApplyEnvToConfig(&cfg)
		ApplyDefaults(&cfg)
		return cfg, nil
	}
	var cfg Config
	if err := ApplyFileConfig(&cfg, *fc); err != nil {
		return Config{}, err
	}
	ApplyEnvOverrides(&cfg)
	overlay(&cfg, flags)
	ApplyDefaults(&cfg)
	return cfg, nil
}

func overlay(cfg *Config, f Config) {
	if len(f.Inputs) > 0 {
		cfg.Inputs = append([]string(nil), f.Inputs...)
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.Catalog != "" {
		cfg.Catalog = f.Catalog
	}
	if len(f.Formats) > 0 {
		cfg.Formats = append([]string(nil), f.Formats...)
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.CacheDir != "" {
		cfg.CacheDir = f.CacheDir
	}
	if f.CacheMaxAge != 0 {
		cfg.CacheMaxAge = f.CacheMaxAge
	}
	if f.CacheClear {
		cfg.CacheClear = true
	}
	if f.CacheStrictPerms {
		cfg.CacheStrictPerms = true
	}
	if f.NoCache {
		cfg.NoCache = true
	}
	if !f.Now.IsZero() {
		cfg.Now = f.Now
	}
	if f.Verbose {
		cfg.Verbose = true
	}
}
