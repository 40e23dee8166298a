package remediate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lucasnoah/remedy/internal/classify"
	"github.com/lucasnoah/remedy/internal/db"
	"github.com/lucasnoah/remedy/internal/pipeline"
	"github.com/lucasnoah/remedy/internal/project"
	"github.com/lucasnoah/remedy/internal/retry"
	"github.com/lucasnoah/remedy/internal/store"
)

// mockRunner replays scripted stage results across validation attempts.
type mockRunner struct {
	results []mockResult
	callIdx int
}

type mockResult struct {
	Output   string
	ExitCode int
	Err      error
}

func (m *mockRunner) Run(ctx context.Context, dir string, argv []string) (string, int, error) {
	if m.callIdx >= len(m.results) {
		return "", 0, nil
	}
	r := m.results[m.callIdx]
	m.callIdx++
	return r.Output, r.ExitCode, r.Err
}

type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return nil
}

const lintFailure = "src/app.py:3:1: E302 expected 2 blank lines, got 1"

func testPolicy() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.RetryableKinds = []classify.Kind{classify.KindLintError}
	return cfg
}

func TestFixAndValidate_SucceedsAfterFix(t *testing.T) {
	mock := &mockRunner{
		results: []mockResult{
			{Output: lintFailure, ExitCode: 1},
			{Output: "all checks passed", ExitCode: 0},
		},
	}
	sleeper := &fakeSleeper{}

	var fixCalls []int
	var fixedKinds []classify.Kind
	r := New("/tmp/proj", project.LangPython,
		WithRetryConfig(testPolicy()),
		WithExecutor(retry.NewExecutor(retry.WithSleeper(sleeper))),
		WithPipelineOptions(pipeline.WithRunner(mock)),
		WithFix(func(ctx context.Context, attempt int, records []classify.ErrorRecord) error {
			fixCalls = append(fixCalls, attempt)
			fixedKinds = append(fixedKinds, records[0].Kind)
			return nil
		}),
	)

	out, err := r.FixAndValidate(context.Background(), pipeline.StageLint)
	if err != nil {
		t.Fatalf("fix and validate: %v", err)
	}
	if !out.Passed {
		t.Error("expected remediation to succeed")
	}
	if out.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", out.Attempts)
	}
	if len(fixCalls) != 1 || fixCalls[0] != 1 {
		t.Errorf("expected one fix call on attempt 1, got %v", fixCalls)
	}
	if len(fixedKinds) != 1 || fixedKinds[0] != classify.KindLintError {
		t.Errorf("expected lint-error records passed to fix, got %v", fixedKinds)
	}
	if len(sleeper.delays) != 1 || sleeper.delays[0] != time.Second {
		t.Errorf("expected one 1s backoff, got %v", sleeper.delays)
	}
	if len(out.Records) != 0 {
		t.Errorf("expected no records on a passing outcome, got %v", out.Records)
	}
}

func TestFixAndValidate_ExhaustsAttempts(t *testing.T) {
	mock := &mockRunner{
		results: []mockResult{
			{Output: lintFailure, ExitCode: 1},
			{Output: lintFailure, ExitCode: 1},
			{Output: lintFailure, ExitCode: 1},
		},
	}
	r := New("/tmp/proj", project.LangPython,
		WithRetryConfig(testPolicy()),
		WithExecutor(retry.NewExecutor(retry.WithSleeper(&fakeSleeper{}))),
		WithPipelineOptions(pipeline.WithRunner(mock)),
	)

	out, err := r.FixAndValidate(context.Background(), pipeline.StageLint)
	if err != nil {
		t.Fatalf("expected failure as data, got error: %v", err)
	}
	if out.Passed {
		t.Error("expected remediation to fail")
	}
	if out.Attempts != 3 {
		t.Errorf("expected attempt budget consumed, got %d", out.Attempts)
	}
	if len(out.Records) == 0 || out.Records[0].Kind != classify.KindLintError {
		t.Errorf("expected classified lint errors, got %v", out.Records)
	}
	if out.FinalRun == nil || out.FinalRun.Passed() {
		t.Error("expected failing final run")
	}
}

func TestFixAndValidate_NonRetryableKindStopsEarly(t *testing.T) {
	mock := &mockRunner{
		results: []mockResult{
			{Output: lintFailure, ExitCode: 1},
		},
	}
	cfg := retry.DefaultConfig()
	cfg.RetryableKinds = []classify.Kind{classify.KindTestFailure}

	r := New("/tmp/proj", project.LangPython,
		WithRetryConfig(cfg),
		WithExecutor(retry.NewExecutor(retry.WithSleeper(&fakeSleeper{}))),
		WithPipelineOptions(pipeline.WithRunner(mock)),
	)

	out, err := r.FixAndValidate(context.Background(), pipeline.StageLint)
	if err != nil {
		t.Fatalf("fix and validate: %v", err)
	}
	if out.Passed || out.Attempts != 1 {
		t.Errorf("expected single failed attempt, got %+v", out)
	}
	if mock.callIdx != 1 {
		t.Errorf("expected pipeline run once, got %d", mock.callIdx)
	}
}

func TestFixAndValidate_FixErrorAborts(t *testing.T) {
	mock := &mockRunner{
		results: []mockResult{
			{Output: lintFailure, ExitCode: 1},
		},
	}
	r := New("/tmp/proj", project.LangPython,
		WithRetryConfig(testPolicy()),
		WithExecutor(retry.NewExecutor(retry.WithSleeper(&fakeSleeper{}))),
		WithPipelineOptions(pipeline.WithRunner(mock)),
		WithFix(func(ctx context.Context, attempt int, records []classify.ErrorRecord) error {
			return fmt.Errorf("patch rejected")
		}),
	)

	if _, err := r.FixAndValidate(context.Background(), pipeline.StageLint); err == nil {
		t.Fatal("expected fix error to propagate")
	}
}

func TestFixAndValidate_PersistsRunsAndAttempts(t *testing.T) {
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	artifacts := store.NewStore(t.TempDir())

	mock := &mockRunner{
		results: []mockResult{
			{Output: lintFailure, ExitCode: 1},
			{Output: "clean", ExitCode: 0},
		},
	}
	r := New("/tmp/proj", project.LangPython,
		WithRetryConfig(testPolicy()),
		WithExecutor(retry.NewExecutor(retry.WithSleeper(&fakeSleeper{}))),
		WithPipelineOptions(pipeline.WithRunner(mock)),
		WithArtifactStore(artifacts),
		WithHistory(database),
	)

	out, err := r.FixAndValidate(context.Background(), pipeline.StageLint)
	if err != nil {
		t.Fatalf("fix and validate: %v", err)
	}
	if !out.Passed {
		t.Fatal("expected success")
	}

	history, err := database.GetRunHistory(10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected both attempts recorded, got %d", len(history))
	}

	// The failing first attempt logged a retry record under its run ID.
	var failedRunID string
	for _, rec := range history {
		if !rec.Passed {
			failedRunID = rec.ID
		}
	}
	attempts, err := database.GetRetryAttempts(failedRunID)
	if err != nil {
		t.Fatalf("retry attempts: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Kind != "lint-error" {
		t.Errorf("expected one lint-error attempt, got %v", attempts)
	}

	ids, err := artifacts.List()
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected artifacts for both runs, got %v", ids)
	}
}

func TestValidate_SingleRun(t *testing.T) {
	mock := &mockRunner{
		results: []mockResult{
			{Output: lintFailure, ExitCode: 1},
		},
	}
	r := New("/tmp/proj", project.LangPython,
		WithPipelineOptions(pipeline.WithRunner(mock)),
	)

	out, err := r.Validate(context.Background(), pipeline.StageLint)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Passed {
		t.Error("expected failing outcome")
	}
	if out.Attempts != 1 || mock.callIdx != 1 {
		t.Errorf("expected exactly one pipeline run, got %+v", out)
	}
	if len(out.Records) == 0 {
		t.Error("expected classified records")
	}
}
