package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Environment variables read by ApplyEnvToConfig and ApplyEnvOverrides.
const (
	EnvOutputDir        = "EXPEDIENTE_OUTPUT_DIR"
	EnvCatalog          = "EXPEDIENTE_CATALOG"
	EnvFormats          = "EXPEDIENTE_FORMATS"
	EnvConcurrency      = "EXPEDIENTE_CONCURRENCY"
	EnvCacheDir         = "EXPEDIENTE_CACHE_DIR"
	EnvCacheMaxAge      = "EXPEDIENTE_CACHE_MAX_AGE"
	EnvCacheClear       = "EXPEDIENTE_CACHE_CLEAR"
	EnvCacheStrictPerms = "EXPEDIENTE_CACHE_STRICT_PERMS"
	EnvNoCache          = "EXPEDIENTE_NO_CACHE"
	EnvNow              = "EXPEDIENTE_NOW"
	EnvVerbose          = "EXPEDIENTE_VERBOSE"
)

// envSetter applies one variable. force replaces values that are already set.
type envSetter func(cfg *Config, v string, force bool)

var envSetters = []struct {
	key string
	set envSetter
}{
	{EnvOutputDir, func(cfg *Config, v string, force bool) {
		if force || cfg.OutputDir == "" {
			cfg.OutputDir = v
		}
	}},
	{EnvCatalog, func(cfg *Config, v string, force bool) {
		if force || cfg.Catalog == "" {
			cfg.Catalog = v
		}
	}},
	{EnvFormats, func(cfg *Config, v string, force bool) {
		if !force && len(cfg.Formats) > 0 {
			return
		}
		f, err := ParseFormats(v)
		if err != nil {
			log.Warn().Err(err).Str("env", EnvFormats).Msg("ignoring invalid value")
			return
		}
		cfg.Formats = f
	}},
	{EnvConcurrency, func(cfg *Config, v string, force bool) {
		if !force && cfg.Concurrency != 0 {
			return
		}
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}},
	{EnvCacheDir, func(cfg *Config, v string, force bool) {
		if force || cfg.CacheDir == "" {
			cfg.CacheDir = v
		}
	}},
	{EnvCacheMaxAge, func(cfg *Config, v string, force bool) {
		if !force && cfg.CacheMaxAge != 0 {
			return
		}
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheMaxAge = d
		}
	}},
	{EnvNow, func(cfg *Config, v string, force bool) {
		if !force && !cfg.Now.IsZero() {
			return
		}
		t, err := ParseNow(v, time.Local)
		if err != nil {
			log.Warn().Err(err).Str("env", EnvNow).Msg("ignoring invalid value")
			return
		}
		cfg.Now = t
	}},
	{EnvVerbose, boolSetter(func(c *Config) *bool { return &c.Verbose })},
	{EnvCacheClear, boolSetter(func(c *Config) *bool { return &c.CacheClear })},
	{EnvCacheStrictPerms, boolSetter(func(c *Config) *bool { return &c.CacheStrictPerms })},
	{EnvNoCache, boolSetter(func(c *Config) *bool { return &c.NoCache })},
}

// boolSetter sets a flag on truthy values; when forced, falsey values clear it.
func boolSetter(field func(*Config) *bool) envSetter {
	return func(cfg *Config, v string, force bool) {
		dst := field(cfg)
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			if force {
				*dst = false
			}
		}
	}
}

func applyEnv(cfg *Config, force bool) {
	if cfg == nil {
		return
	}
	for _, s := range envSetters {
		if v := strings.TrimSpace(os.Getenv(s.key)); v != "" {
			s.set(cfg, v, force)
		}
	}
}

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) { applyEnv(cfg, false) }

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. This lets env take precedence over
// values coming from a config file while flags remain highest precedence.
func ApplyEnvOverrides(cfg *Config) { applyEnv(cfg, true) }
