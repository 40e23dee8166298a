package config

import (
	"fmt"
	"time"

	"github.com/lucasnoah/remedy/internal/classify"
	"github.com/lucasnoah/remedy/internal/pipeline"
	"github.com/lucasnoah/remedy/internal/retry"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func knownKinds() map[string]bool {
	kinds := make(map[string]bool)
	for _, k := range classify.Kinds() {
		kinds[string(k)] = true
	}
	return kinds
}

func knownStrategies() map[string]bool {
	strategies := make(map[string]bool)
	for _, s := range retry.Strategies() {
		strategies[string(s)] = true
	}
	return strategies
}

// Validate checks a Config for structural and semantic errors.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if _, err := time.ParseDuration(cfg.Project.StageTimeout); err != nil {
		errs = append(errs, ValidationError{Field: "project.stage_timeout", Message: "is not a valid duration"})
	}

	if cfg.Retry.MaxAttempts < 1 {
		errs = append(errs, ValidationError{Field: "retry.max_attempts", Message: "must be at least 1"})
	}
	if _, err := time.ParseDuration(cfg.Retry.BaseDelay); err != nil {
		errs = append(errs, ValidationError{Field: "retry.base_delay", Message: "is not a valid duration"})
	}
	if _, err := time.ParseDuration(cfg.Retry.MaxDelay); err != nil {
		errs = append(errs, ValidationError{Field: "retry.max_delay", Message: "is not a valid duration"})
	}
	if !knownStrategies()[cfg.Retry.Strategy] {
		errs = append(errs, ValidationError{
			Field:   "retry.strategy",
			Message: fmt.Sprintf("unrecognized strategy %q", cfg.Retry.Strategy),
		})
	}

	kinds := knownKinds()
	for _, k := range cfg.Retry.RetryableKinds {
		if !kinds[k] {
			errs = append(errs, ValidationError{
				Field:   "retry.retryable_kinds",
				Message: fmt.Sprintf("unrecognized error kind %q", k),
			})
		}
	}

	if cfg.Classify.WindowLines != nil && *cfg.Classify.WindowLines < 0 {
		errs = append(errs, ValidationError{Field: "classify.window_lines", Message: "must not be negative"})
	}

	for lang, stages := range cfg.Commands {
		for stage, argv := range stages {
			prefix := fmt.Sprintf("commands.%s.%s", lang, stage)
			if !pipeline.ValidStage(pipeline.StageKind(stage)) {
				errs = append(errs, ValidationError{
					Field:   prefix,
					Message: fmt.Sprintf("unrecognized stage %q", stage),
				})
			}
			if len(argv) == 0 {
				errs = append(errs, ValidationError{Field: prefix, Message: "command must not be empty"})
			}
		}
	}

	return errs
}
