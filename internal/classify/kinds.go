package classify

// Kind tags a classified error record. The set is closed: adding a new
// kind means updating Title and Suggestion, which the compiler and tests
// will catch.
type Kind string

const (
	KindTestFailure  Kind = "test-failure"
	KindLintError    Kind = "lint-error"
	KindTypeError    Kind = "type-error"
	KindBuildError   Kind = "build-error"
	KindImportError  Kind = "import-error"
	KindRuntimeError Kind = "runtime-error"
	KindUnknown      Kind = "unknown"
)

// Kinds lists every kind in classification order. KindUnknown is last
// because it is only produced synthetically, never by a pattern.
func Kinds() []Kind {
	return []Kind{
		KindTestFailure,
		KindLintError,
		KindTypeError,
		KindBuildError,
		KindImportError,
		KindRuntimeError,
		KindUnknown,
	}
}

// Title returns the heading used when rendering records of this kind.
func (k Kind) Title() string {
	switch k {
	case KindTestFailure:
		return "Test Failures"
	case KindLintError:
		return "Lint Errors"
	case KindTypeError:
		return "Type Errors"
	case KindBuildError:
		return "Build Errors"
	case KindImportError:
		return "Import Errors"
	case KindRuntimeError:
		return "Runtime Errors"
	case KindUnknown:
		return "Unclassified"
	}
	return string(k)
}

// Suggestion returns the static remediation hint for this kind.
func (k Kind) Suggestion() string {
	switch k {
	case KindTestFailure:
		return "Inspect the failing assertion and align the implementation with the expected behavior"
	case KindLintError:
		return "Run the linter locally and apply its suggested fixes or auto-formatting"
	case KindTypeError:
		return "Check the annotated types and reconcile declared versus actual types"
	case KindBuildError:
		return "Fix the compile error at the reported location and rebuild"
	case KindImportError:
		return "Install the missing dependency or correct the import path"
	case KindRuntimeError:
		return "Reproduce the failure locally and debug the failing code path"
	case KindUnknown:
		return "Review the full log and investigate the root cause"
	}
	return ""
}

// ErrorRecord is one classified defect extracted from a log.
type ErrorRecord struct {
	Kind       Kind   `json:"kind"`
	FilePath   string `json:"file_path,omitempty"`
	LineNumber int    `json:"line_number,omitempty"`
	Message    string `json:"message"`
	Context    string `json:"context,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}
