package retry

import (
	"fmt"
	"time"

	"github.com/lucasnoah/remedy/internal/classify"
)

// Strategy selects how inter-attempt delay grows.
type Strategy string

const (
	StrategyConstant    Strategy = "constant"
	StrategyLinear      Strategy = "linear"
	StrategyExponential Strategy = "exponential-backoff"
)

// Strategies lists every valid strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyConstant, StrategyLinear, StrategyExponential}
}

// Config holds immutable retry policy parameters.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Strategy    Strategy
	// RetryableKinds is the allow-list of error kinds that consume an
	// attempt instead of propagating. Errors carrying no kind, and kinds
	// outside the list, are non-retryable.
	RetryableKinds []classify.Kind
}

// DefaultConfig mirrors the config-file defaults: three attempts with
// exponential backoff from one second, capped at thirty.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Strategy:    StrategyExponential,
	}
}

// Validate rejects unusable policy parameters.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts %d: must be at least 1", c.MaxAttempts)
	}
	if c.BaseDelay <= 0 {
		return fmt.Errorf("base delay %s: must be positive", c.BaseDelay)
	}
	if c.MaxDelay < c.BaseDelay {
		return fmt.Errorf("max delay %s: must be >= base delay %s", c.MaxDelay, c.BaseDelay)
	}
	switch c.Strategy {
	case StrategyConstant, StrategyLinear, StrategyExponential:
		return nil
	}
	return fmt.Errorf("unknown strategy %q", c.Strategy)
}

// DelayFor computes the backoff delay after the given attempt (1-based),
// clamped to MaxDelay.
func (c Config) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	var d time.Duration
	switch c.Strategy {
	case StrategyLinear:
		d = c.BaseDelay * time.Duration(attempt)
	case StrategyExponential:
		shift := attempt - 1
		// Beyond 62 doublings the product overflows; MaxDelay wins anyway.
		if shift > 62 || c.BaseDelay > c.MaxDelay>>uint(shift) {
			return c.MaxDelay
		}
		d = c.BaseDelay << uint(shift)
	default:
		d = c.BaseDelay
	}

	if d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

func (c Config) retryable(kind classify.Kind) bool {
	for _, k := range c.RetryableKinds {
		if k == kind {
			return true
		}
	}
	return false
}
