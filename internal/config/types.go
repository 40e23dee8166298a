package config

// Config is the top-level configuration structure parsed from remedy YAML.
type Config struct {
	Project  Project                        `yaml:"project"`
	Retry    Retry                          `yaml:"retry"`
	Classify Classify                       `yaml:"classify"`
	Commands map[string]map[string][]string `yaml:"commands"`
}

// Project holds per-project settings.
type Project struct {
	Dir          string `yaml:"dir"`
	Language     string `yaml:"language"`
	StageTimeout string `yaml:"stage_timeout"`
}

// Retry holds the remediation retry policy. Delays are duration strings
// ("1s", "500ms").
type Retry struct {
	MaxAttempts    int      `yaml:"max_attempts"`
	BaseDelay      string   `yaml:"base_delay"`
	MaxDelay       string   `yaml:"max_delay"`
	Strategy       string   `yaml:"strategy"`
	RetryableKinds []string `yaml:"retryable_kinds"`
}

// Classify holds log classification settings.
type Classify struct {
	WindowLines *int `yaml:"window_lines"`
	Dedupe      bool `yaml:"dedupe"`
}
