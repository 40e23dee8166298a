package retry

import (
	"testing"
	"time"
)

func TestDelayFor_Constant(t *testing.T) {
	cfg := Config{MaxAttempts: 5, BaseDelay: 2 * time.Second, MaxDelay: 10 * time.Second, Strategy: StrategyConstant}
	for attempt := 1; attempt <= 5; attempt++ {
		if d := cfg.DelayFor(attempt); d != 2*time.Second {
			t.Errorf("attempt %d: expected 2s, got %s", attempt, d)
		}
	}
}

func TestDelayFor_Linear(t *testing.T) {
	cfg := Config{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: 3 * time.Second, Strategy: StrategyLinear}
	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	for i, w := range want {
		if d := cfg.DelayFor(i + 1); d != w {
			t.Errorf("attempt %d: expected %s, got %s", i+1, w, d)
		}
	}
}

func TestDelayFor_ExponentialScenario(t *testing.T) {
	cfg := Config{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second, Strategy: StrategyExponential}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, w := range want {
		if d := cfg.DelayFor(i + 1); d != w {
			t.Errorf("attempt %d: expected %s, got %s", i+1, w, d)
		}
	}
}

func TestDelayFor_MonotonicAndClamped(t *testing.T) {
	for _, strategy := range []Strategy{StrategyLinear, StrategyExponential} {
		cfg := Config{MaxAttempts: 50, BaseDelay: 100 * time.Millisecond, MaxDelay: 5 * time.Second, Strategy: strategy}
		prev := time.Duration(0)
		for attempt := 1; attempt <= 50; attempt++ {
			d := cfg.DelayFor(attempt)
			if d < prev {
				t.Errorf("%s attempt %d: delay %s decreased from %s", strategy, attempt, d, prev)
			}
			if d > cfg.MaxDelay {
				t.Errorf("%s attempt %d: delay %s exceeds max %s", strategy, attempt, d, cfg.MaxDelay)
			}
			prev = d
		}
	}
}

func TestDelayFor_ExponentialLargeAttemptNoOverflow(t *testing.T) {
	cfg := Config{MaxAttempts: 100, BaseDelay: time.Second, MaxDelay: time.Minute, Strategy: StrategyExponential}
	if d := cfg.DelayFor(90); d != time.Minute {
		t.Errorf("expected clamp to max delay, got %s", d)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second, Strategy: StrategyExponential}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero attempts", Config{MaxAttempts: 0, BaseDelay: time.Second, MaxDelay: time.Second, Strategy: StrategyConstant}},
		{"zero base delay", Config{MaxAttempts: 1, BaseDelay: 0, MaxDelay: time.Second, Strategy: StrategyConstant}},
		{"max below base", Config{MaxAttempts: 1, BaseDelay: 2 * time.Second, MaxDelay: time.Second, Strategy: StrategyConstant}},
		{"bad strategy", Config{MaxAttempts: 1, BaseDelay: time.Second, MaxDelay: time.Second, Strategy: "fibonacci"}},
	}
	for _, tc := range cases {
		if err := tc.cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
