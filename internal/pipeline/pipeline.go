package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucasnoah/remedy/internal/project"
)

// maxOutputLen caps how much captured output a stage result retains.
// Error summaries and tracebacks cluster at the tail, so keep the tail.
const maxOutputLen = 8000

const defaultStageTimeout = 2 * time.Minute

// Pipeline runs ordered validation stages against one project directory.
// Concurrent runs against the same directory are the caller's problem;
// the pipeline itself shares no state across invocations.
type Pipeline struct {
	dir      string
	language project.Language
	runner   CommandRunner
	commands CommandTable
	timeout  time.Duration
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithRunner substitutes command execution. Tests use this to script
// stage outcomes.
func WithRunner(r CommandRunner) PipelineOption {
	return func(p *Pipeline) { p.runner = r }
}

// WithCommands substitutes the stage command table.
func WithCommands(t CommandTable) PipelineOption {
	return func(p *Pipeline) { p.commands = t }
}

// WithStageTimeout bounds each stage's external command.
func WithStageTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New creates a Pipeline for the given project directory and language.
func New(dir string, lang project.Language, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		dir:      dir,
		language: lang,
		runner:   &ExecRunner{},
		commands: DefaultCommands(),
		timeout:  defaultStageTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the given stages strictly in order, stopping at the first
// failing stage. With no stages given, the language's default sequence is
// used. Stage failure is represented in the result data, never as an
// error return.
func (p *Pipeline) Run(ctx context.Context, stages ...StageKind) *Run {
	if len(stages) == 0 {
		stages = DefaultStages(p.language)
	}

	run := &Run{
		ID:        uuid.NewString(),
		Dir:       p.dir,
		Language:  p.language,
		StartedAt: time.Now().UTC(),
	}

	for _, stage := range stages {
		result := p.runStage(ctx, stage)
		run.Stages = append(run.Stages, result)
		if !result.Passed {
			break
		}
	}
	return run
}

// runStage invokes the stage's mapped command and derives the result.
// A stage with no command for this language passes as "skipped".
func (p *Pipeline) runStage(ctx context.Context, stage StageKind) StageResult {
	argv, ok := p.commands.Lookup(p.language, stage)
	if !ok {
		return StageResult{
			Stage:   stage,
			Passed:  true,
			Skipped: true,
			Output:  fmt.Sprintf("skipped: no %s command for language %s", stage, p.language),
		}
	}

	stageCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	output, exitCode, err := p.runner.Run(stageCtx, p.dir, argv)
	duration := time.Since(start).Seconds()

	output = truncateOutput(output)

	if err != nil {
		// Tool missing and tool-ran-and-failed share the same result shape.
		msg := fmt.Sprintf("invocation failed: %v", err)
		if stageCtx.Err() == context.DeadlineExceeded {
			msg = fmt.Sprintf("invocation failed: timeout after %s", p.timeout)
		}
		return StageResult{
			Stage:           stage,
			Passed:          false,
			Output:          output,
			DurationSeconds: duration,
			Errors:          []string{msg},
		}
	}

	errors := scanErrorLines(output)
	return StageResult{
		Stage:           stage,
		Passed:          exitCode == 0 && len(errors) == 0,
		Output:          output,
		DurationSeconds: duration,
		Errors:          errors,
	}
}

// scanErrorLines picks lines that look like failures out of captured
// output. This is a textual heuristic, not a structural parse: a passing
// test named "test_failed_login" will over-report, and tools that phrase
// failures differently will under-report.
func scanErrorLines(output string) []string {
	var errors []string
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error:") || strings.Contains(lower, "failed") {
			errors = append(errors, strings.TrimSpace(line))
		}
	}
	return errors
}

func truncateOutput(s string) string {
	if len(s) <= maxOutputLen {
		return s
	}
	return "…(truncated)\n" + s[len(s)-maxOutputLen:]
}
