package pipeline

import (
	"time"

	"github.com/lucasnoah/remedy/internal/project"
)

// StageKind names one validation step.
type StageKind string

const (
	StageFormat           StageKind = "format"
	StageLint             StageKind = "lint"
	StageTypeCheck        StageKind = "type-check"
	StageBuild            StageKind = "build"
	StageUnitTests        StageKind = "unit-tests"
	StageIntegrationTests StageKind = "integration-tests"
)

// StageKinds lists every valid stage.
func StageKinds() []StageKind {
	return []StageKind{
		StageFormat,
		StageLint,
		StageTypeCheck,
		StageBuild,
		StageUnitTests,
		StageIntegrationTests,
	}
}

// ValidStage reports whether s names a known stage.
func ValidStage(s StageKind) bool {
	for _, k := range StageKinds() {
		if k == s {
			return true
		}
	}
	return false
}

// DefaultStages is the hardcoded per-language stage sequence. Languages
// without a full toolchain mapping fall back to unit tests only.
func DefaultStages(lang project.Language) []StageKind {
	switch lang {
	case project.LangPython:
		return []StageKind{StageFormat, StageLint, StageTypeCheck, StageUnitTests}
	case project.LangCpp:
		return []StageKind{StageFormat, StageLint, StageBuild, StageUnitTests}
	}
	return []StageKind{StageUnitTests}
}

// StageResult is one stage's outcome.
type StageResult struct {
	Stage           StageKind `json:"stage"`
	Passed          bool      `json:"passed"`
	Skipped         bool      `json:"skipped,omitempty"`
	Output          string    `json:"output,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
	Errors          []string  `json:"errors,omitempty"`
}

// Run owns the ordered stage results for one project validation. Stages
// stop appending after the first failure by design.
type Run struct {
	ID        string           `json:"id"`
	Dir       string           `json:"dir"`
	Language  project.Language `json:"language"`
	StartedAt time.Time        `json:"started_at"`
	Stages    []StageResult    `json:"stages"`
}

// Summary is the derived view over a finished run.
type Summary struct {
	TotalStages   int     `json:"total_stages"`
	PassedCount   int     `json:"passed_count"`
	FailedCount   int     `json:"failed_count"`
	TotalDuration float64 `json:"total_duration_seconds"`
}

// Summary derives stage totals from the recorded results.
func (r *Run) Summary() Summary {
	s := Summary{TotalStages: len(r.Stages)}
	for _, st := range r.Stages {
		if st.Passed {
			s.PassedCount++
		} else {
			s.FailedCount++
		}
		s.TotalDuration += st.DurationSeconds
	}
	return s
}

// Passed reports whether every executed stage passed.
func (r *Run) Passed() bool {
	return r.Summary().FailedCount == 0
}

// FailedOutput concatenates the captured output of failing stages, for
// classification and prompt building.
func (r *Run) FailedOutput() string {
	var out string
	for _, st := range r.Stages {
		if st.Passed {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += st.Output
	}
	return out
}
