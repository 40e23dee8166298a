package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucasnoah/remedy/internal/classify"
)

// Result is the outcome of one operation attempt. Success decides whether
// the executor stops; Detail is free-form text for reporting.
type Result struct {
	Success bool
	Detail  string
}

// Operation is the unit of work the executor drives. It receives the
// 1-based attempt number so callers can vary behavior across attempts.
type Operation func(ctx context.Context, attempt int) (*Result, error)

// KindError tags a failure with a classified error kind so the executor
// can check it against the policy's allow-list.
type KindError struct {
	Kind classify.Kind
	Err  error
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *KindError) Unwrap() error { return e.Err }

// ExhaustedError reports that every attempt was consumed without success.
// It carries the last result or failure unchanged.
type ExhaustedError struct {
	Attempts   int
	TotalDelay time.Duration
	LastResult *Result
	LastErr    error
}

func (e *ExhaustedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.LastErr)
	}
	return fmt.Sprintf("retry exhausted after %d attempts", e.Attempts)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// Sleeper abstracts the inter-attempt delay for testability.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Executor repeatedly invokes an operation under a retry policy.
type Executor struct {
	sleep Sleeper
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithSleeper substitutes the delay implementation. Tests use this to
// record delays without actually sleeping.
func WithSleeper(s Sleeper) ExecutorOption {
	return func(e *Executor) { e.sleep = s }
}

// NewExecutor creates an Executor that sleeps on a real timer.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{sleep: timerSleeper{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run invokes op up to cfg.MaxAttempts times, sleeping cfg.DelayFor
// between failed attempts. A failure whose kind is in the retryable
// allow-list consumes an attempt like an unsuccessful result; any other
// failure propagates immediately. When attempts run out, Run returns an
// *ExhaustedError carrying the last result or failure.
func (e *Executor) Run(ctx context.Context, cfg Config, op Operation) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("retry config: %w", err)
	}

	var (
		lastResult *Result
		lastErr    error
		totalDelay time.Duration
	)

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := op(ctx, attempt)
		if err != nil {
			var ke *KindError
			if !errors.As(err, &ke) || !cfg.retryable(ke.Kind) {
				return nil, err
			}
			lastResult, lastErr = result, err
		} else if result != nil && result.Success {
			return result, nil
		} else {
			lastResult, lastErr = result, nil
		}

		if attempt < cfg.MaxAttempts {
			d := cfg.DelayFor(attempt)
			if err := e.sleep.Sleep(ctx, d); err != nil {
				return nil, err
			}
			totalDelay += d
		}
	}

	return nil, &ExhaustedError{
		Attempts:   cfg.MaxAttempts,
		TotalDelay: totalDelay,
		LastResult: lastResult,
		LastErr:    lastErr,
	}
}
