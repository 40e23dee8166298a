package remediate

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucasnoah/remedy/internal/classify"
	"github.com/lucasnoah/remedy/internal/db"
	"github.com/lucasnoah/remedy/internal/pipeline"
	"github.com/lucasnoah/remedy/internal/project"
	"github.com/lucasnoah/remedy/internal/retry"
	"github.com/lucasnoah/remedy/internal/store"
)

// FixFunc attempts to repair the project between validation attempts. It
// receives the classified errors from the failing run. Returning an error
// aborts remediation; fixes that simply don't work should return nil and
// let the next validation attempt discover that.
type FixFunc func(ctx context.Context, attempt int, records []classify.ErrorRecord) error

// Remediator drives validate-classify-fix-revalidate loops against one
// project directory.
type Remediator struct {
	dir       string
	language  project.Language
	cls       *classify.Classifier
	executor  *retry.Executor
	retryCfg  retry.Config
	pipeOpts  []pipeline.PipelineOption
	artifacts *store.Store
	history   *db.DB
	fix       FixFunc
}

// Option configures a Remediator.
type Option func(*Remediator)

// WithRetryConfig substitutes the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(r *Remediator) { r.retryCfg = cfg }
}

// WithClassifier substitutes the log classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(r *Remediator) { r.cls = c }
}

// WithExecutor substitutes the retry executor.
func WithExecutor(e *retry.Executor) Option {
	return func(r *Remediator) { r.executor = e }
}

// WithPipelineOptions forwards options to each validation pipeline.
func WithPipelineOptions(opts ...pipeline.PipelineOption) Option {
	return func(r *Remediator) { r.pipeOpts = append(r.pipeOpts, opts...) }
}

// WithArtifactStore persists every validation run to the given store.
func WithArtifactStore(s *store.Store) Option {
	return func(r *Remediator) { r.artifacts = s }
}

// WithHistory records runs and remediation attempts in the given database.
func WithHistory(d *db.DB) Option {
	return func(r *Remediator) { r.history = d }
}

// WithFix installs the repair hook run between failed attempts.
func WithFix(f FixFunc) Option {
	return func(r *Remediator) { r.fix = f }
}

// New creates a Remediator for the given project directory and language.
func New(dir string, lang project.Language, opts ...Option) *Remediator {
	r := &Remediator{
		dir:      dir,
		language: lang,
		cls:      classify.NewClassifier(),
		executor: retry.NewExecutor(),
		retryCfg: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Outcome summarizes a remediation loop.
type Outcome struct {
	Passed   bool
	Attempts int
	// FinalRun is the last validation run, passing or not.
	FinalRun *pipeline.Run
	// Records holds the classified errors from the last failing run;
	// empty when the final run passed.
	Records []classify.ErrorRecord
}

// FixAndValidate runs the validation pipeline up to the policy's attempt
// budget, classifying failures and invoking the fix hook between attempts.
// A still-failing project is reported in the Outcome, not as an error;
// the error return is reserved for infrastructure problems (bad policy,
// persistence failures, a broken fix hook, cancellation).
func (r *Remediator) FixAndValidate(ctx context.Context, stages ...pipeline.StageKind) (*Outcome, error) {
	out := &Outcome{}

	op := func(ctx context.Context, attempt int) (*retry.Result, error) {
		p := pipeline.New(r.dir, r.language, r.pipeOpts...)
		run := p.Run(ctx, stages...)
		out.Attempts = attempt
		out.FinalRun = run

		if err := r.persist(run); err != nil {
			return nil, err
		}

		if run.Passed() {
			out.Records = nil
			return &retry.Result{Success: true, Detail: "all stages passed"}, nil
		}

		failed := run.Stages[len(run.Stages)-1]
		records := r.cls.Classify(run.FailedOutput())
		out.Records = records
		kind := records[0].Kind

		if r.history != nil {
			if err := r.history.LogRetryAttempt(run.ID, attempt, string(kind), 0, string(failed.Stage)); err != nil {
				return nil, err
			}
		}

		if r.fix != nil {
			if err := r.fix(ctx, attempt, records); err != nil {
				return nil, fmt.Errorf("apply fix: %w", err)
			}
		}

		return &retry.Result{Detail: fmt.Sprintf("stage %s failed", failed.Stage)},
			&retry.KindError{Kind: kind, Err: fmt.Errorf("stage %s failed", failed.Stage)}
	}

	_, err := r.executor.Run(ctx, r.retryCfg, op)
	if err != nil {
		var exhausted *retry.ExhaustedError
		var kindErr *retry.KindError
		if errors.As(err, &exhausted) || errors.As(err, &kindErr) {
			return out, nil
		}
		return nil, err
	}

	out.Passed = true
	return out, nil
}

// Validate runs the pipeline once, with no retry and no fix hook, and
// classifies any failure.
func (r *Remediator) Validate(ctx context.Context, stages ...pipeline.StageKind) (*Outcome, error) {
	p := pipeline.New(r.dir, r.language, r.pipeOpts...)
	run := p.Run(ctx, stages...)

	if err := r.persist(run); err != nil {
		return nil, err
	}

	out := &Outcome{Attempts: 1, FinalRun: run, Passed: run.Passed()}
	if !run.Passed() {
		out.Records = r.cls.Classify(run.FailedOutput())
	}
	return out, nil
}

func (r *Remediator) persist(run *pipeline.Run) error {
	if r.artifacts != nil {
		if err := r.artifacts.SaveRun(run); err != nil {
			return fmt.Errorf("save run artifacts: %w", err)
		}
	}
	if r.history != nil {
		if err := r.history.InsertRun(run); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}
	return nil
}
