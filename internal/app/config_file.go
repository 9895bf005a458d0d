package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags and env.
type FileConfig struct {
	Input       inputList `yaml:"input" json:"input"`
	OutputDir   string    `yaml:"outputDir" json:"outputDir"`
	Catalog     string    `yaml:"catalog" json:"catalog"`
	Formats     []string  `yaml:"formats" json:"formats"`
	Concurrency int       `yaml:"concurrency" json:"concurrency"`
	Verbose     bool      `yaml:"verbose" json:"verbose"`

	Cache struct {
		Dir         string   `yaml:"dir" json:"dir"`
		MaxAge      duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool     `yaml:"clear" json:"clear"`
		StrictPerms bool     `yaml:"strictPerms" json:"strictPerms"`
		Disable     bool     `yaml:"disable" json:"disable"`
	} `yaml:"cache" json:"cache"`

	Calibration struct {
		// Now is an RFC3339 timestamp or a YYYY-MM-DD date.
		Now string `yaml:"now" json:"now"`
	} `yaml:"calibration" json:"calibration"`
}

// inputList accepts a single path or a list of paths.
type inputList []string

func (l *inputList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*l = inputList{n.Value}
		return nil
	}
	var paths []string
	if err := n.Decode(&paths); err != nil {
		return err
	}
	*l = paths
	return nil
}

func (l *inputList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*l = inputList{one}
		return nil
	}
	var paths []string
	if err := json.Unmarshal(b, &paths); err != nil {
		return err
	}
	*l = paths
	return nil
}

// duration reads Go duration strings ("72h") in both YAML and JSON files.
type duration time.Duration

func (d *duration) UnmarshalYAML(n *yaml.Node) error {
	return d.parse(n.Value)
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string such as \"24h\": %w", err)
	}
	return d.parse(s)
}

func (d *duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			fc = FileConfig{}
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset in cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if len(cfg.Inputs) == 0 && len(fc.Input) > 0 {
		cfg.Inputs = append([]string(nil), fc.Input...)
	}
	if cfg.OutputDir == "" && fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if cfg.Catalog == "" && fc.Catalog != "" {
		cfg.Catalog = fc.Catalog
	}
	if len(cfg.Formats) == 0 && len(fc.Formats) > 0 {
		f, err := ParseFormats(strings.Join(fc.Formats, ","))
		if err != nil {
			return err
		}
		cfg.Formats = f
	}
	if cfg.Concurrency == 0 && fc.Concurrency != 0 {
		cfg.Concurrency = fc.Concurrency
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = time.Duration(fc.Cache.MaxAge)
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.NoCache && fc.Cache.Disable {
		cfg.NoCache = true
	}

	if cfg.Now.IsZero() && fc.Calibration.Now != "" {
		t, err := ParseNow(fc.Calibration.Now, time.Local)
		if err != nil {
			return err
		}
		cfg.Now = t
	}
	return nil
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return errors.New("config: at least one input file is required")
	}
	for _, in := range cfg.Inputs {
		if strings.TrimSpace(in) == "" {
			return errors.New("config: blank input path")
		}
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: output directory is required")
	}
	if len(cfg.Formats) == 0 {
		return errors.New("config: at least one report format is required")
	}
	if _, err := ParseFormats(strings.Join(cfg.Formats, ",")); err != nil {
		return err
	}
	if cfg.Concurrency < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if !cfg.NoCache && strings.TrimSpace(cfg.CacheDir) == "" {
		return errors.New("config: cache directory is required unless the cache is disabled")
	}
	return nil
}
