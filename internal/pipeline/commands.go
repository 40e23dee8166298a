package pipeline

import "github.com/lucasnoah/remedy/internal/project"

// CommandTable maps language and stage to the argv vector to invoke.
// Commands are argv slices, never shell strings; they run with the
// project directory as working directory.
type CommandTable map[project.Language]map[StageKind][]string

// DefaultCommands mirrors the scaffolded project toolchains: ruff, mypy
// and pytest for Python; clang-format, clang-tidy, cmake and ctest for
// C++. Stages absent for a language are skipped, not errors.
func DefaultCommands() CommandTable {
	return CommandTable{
		project.LangPython: {
			StageFormat:           {"ruff", "format", "--check", "."},
			StageLint:             {"ruff", "check", "."},
			StageTypeCheck:        {"mypy", "."},
			StageUnitTests:        {"pytest", "-q"},
			StageIntegrationTests: {"pytest", "-q", "-m", "integration"},
		},
		project.LangCpp: {
			StageFormat:    {"clang-format", "--dry-run", "--Werror", "src/main.cpp"},
			StageLint:      {"run-clang-tidy", "-p", "build", "-quiet"},
			StageBuild:     {"cmake", "--build", "build"},
			StageUnitTests: {"ctest", "--test-dir", "build", "--output-on-failure"},
		},
		project.LangUnknown: {
			StageUnitTests: {"make", "test"},
		},
	}
}

// Lookup returns the argv for a language/stage pair, or ok=false when the
// stage has no mapping for that language.
func (t CommandTable) Lookup(lang project.Language, stage StageKind) ([]string, bool) {
	stages, ok := t[lang]
	if !ok {
		return nil, false
	}
	argv, ok := stages[stage]
	if !ok || len(argv) == 0 {
		return nil, false
	}
	return argv, true
}
