package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lucasnoah/remedy/internal/classify"
	"github.com/lucasnoah/remedy/internal/pipeline"
	"github.com/lucasnoah/remedy/internal/project"
	"github.com/lucasnoah/remedy/internal/retry"
)

// Load reads and parses a remedy configuration from the given YAML file path.
// After parsing, it fills in defaults for anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the
// first one found. Search order: ./remedy.yaml, ~/.remedy/config.yaml.
// With no config file present it returns the built-in defaults.
func LoadDefault() (*Config, error) {
	candidates := []string{"remedy.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".remedy", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := &Config{}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills unset fields with the built-in defaults.
func applyDefaults(cfg *Config) {
	if cfg.Project.Dir == "" {
		cfg.Project.Dir = "."
	}
	if cfg.Project.StageTimeout == "" {
		cfg.Project.StageTimeout = "2m"
	}

	def := retry.DefaultConfig()
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = def.MaxAttempts
	}
	if cfg.Retry.BaseDelay == "" {
		cfg.Retry.BaseDelay = def.BaseDelay.String()
	}
	if cfg.Retry.MaxDelay == "" {
		cfg.Retry.MaxDelay = def.MaxDelay.String()
	}
	if cfg.Retry.Strategy == "" {
		cfg.Retry.Strategy = string(def.Strategy)
	}
	if cfg.Retry.RetryableKinds == nil {
		for _, k := range classify.Kinds() {
			if k != classify.KindUnknown {
				cfg.Retry.RetryableKinds = append(cfg.Retry.RetryableKinds, string(k))
			}
		}
	}

	if cfg.Classify.WindowLines == nil {
		n := 3
		cfg.Classify.WindowLines = &n
	}
}

// StageTimeout parses the configured per-stage timeout.
func (c *Config) StageTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Project.StageTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse stage_timeout: %w", err)
	}
	return d, nil
}

// ToRetryConfig converts the YAML retry section into a policy config.
func (c *Config) ToRetryConfig() (retry.Config, error) {
	base, err := time.ParseDuration(c.Retry.BaseDelay)
	if err != nil {
		return retry.Config{}, fmt.Errorf("parse retry.base_delay: %w", err)
	}
	max, err := time.ParseDuration(c.Retry.MaxDelay)
	if err != nil {
		return retry.Config{}, fmt.Errorf("parse retry.max_delay: %w", err)
	}

	rc := retry.Config{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   base,
		MaxDelay:    max,
		Strategy:    retry.Strategy(c.Retry.Strategy),
	}
	for _, k := range c.Retry.RetryableKinds {
		rc.RetryableKinds = append(rc.RetryableKinds, classify.Kind(k))
	}
	return rc, rc.Validate()
}

// ClassifierOptions converts the classify section into classifier options.
func (c *Config) ClassifierOptions() []classify.Option {
	var opts []classify.Option
	if c.Classify.WindowLines != nil {
		opts = append(opts, classify.WithWindowLines(*c.Classify.WindowLines))
	}
	if c.Classify.Dedupe {
		opts = append(opts, classify.WithDedupe())
	}
	return opts
}

// CommandTable merges configured command overrides over the built-in stage
// commands. An override replaces the whole argv for that language and stage.
func (c *Config) CommandTable() pipeline.CommandTable {
	table := pipeline.DefaultCommands()
	for lang, stages := range c.Commands {
		l := project.ParseLanguage(lang)
		if table[l] == nil {
			table[l] = make(map[pipeline.StageKind][]string)
		}
		for stage, argv := range stages {
			table[l][pipeline.StageKind(stage)] = argv
		}
	}
	return table
}
