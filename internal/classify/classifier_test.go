package classify

import (
	"regexp"
	"strings"
	"testing"
)

const pytestLog = `============================= test session starts ==============================
collected 3 items

tests/test_app.py ..F                                                    [100%]

=================================== FAILURES ===================================
_________________________________ test_login ___________________________________

    def test_login():
>       assert login("bob", "hunter2")
E       AssertionError: assert False

tests/test_app.py:42: AssertionError
=========================== short test summary info ============================
FAILED tests/test_app.py::test_login - AssertionError: assert False
========================= 1 failed, 2 passed in 0.12s ==========================
`

func TestClassify_PytestFailure(t *testing.T) {
	c := NewClassifier()
	records := c.Classify(pytestLog)

	var testFailures []ErrorRecord
	for _, r := range records {
		if r.Kind == KindTestFailure {
			testFailures = append(testFailures, r)
		}
	}
	if len(testFailures) == 0 {
		t.Fatal("expected at least one test-failure record")
	}

	foundLoc := false
	for _, r := range testFailures {
		if r.FilePath == "tests/test_app.py" && r.LineNumber == 42 {
			foundLoc = true
		}
	}
	if !foundLoc {
		t.Errorf("expected a test-failure with tests/test_app.py:42, got %+v", testFailures)
	}
}

func TestClassify_NoMatchesYieldsSingleUnknown(t *testing.T) {
	c := NewClassifier()
	log := "everything is fine\nnothing to see here\n"
	records := c.Classify(log)

	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Kind != KindUnknown {
		t.Errorf("expected kind=unknown, got %q", r.Kind)
	}
	if r.Message != log {
		t.Errorf("expected message to be the full (short) log")
	}
	if r.Context != log {
		t.Errorf("expected context to be the entire log")
	}
}

func TestClassify_UnknownMessageTruncated(t *testing.T) {
	c := NewClassifier()
	log := strings.Repeat("x", 2000)
	records := c.Classify(log)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if len(records[0].Message) != unknownMessageCap {
		t.Errorf("expected message capped at %d chars, got %d", unknownMessageCap, len(records[0].Message))
	}
	if records[0].Context != log {
		t.Errorf("expected context to keep the whole log")
	}
}

func TestClassify_EmptyLog(t *testing.T) {
	c := NewClassifier()
	records := c.Classify("")

	if len(records) != 1 || records[0].Kind != KindUnknown {
		t.Fatalf("expected single unknown record for empty log, got %+v", records)
	}
}

func TestClassify_LintErrorLocation(t *testing.T) {
	c := NewClassifier()
	log := "src/main.py:10:5: E501 line too long (95 > 88 characters)\n"
	records := c.Classify(log)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Kind != KindLintError {
		t.Errorf("expected kind=lint-error, got %q", r.Kind)
	}
	if r.FilePath != "src/main.py" {
		t.Errorf("expected file_path=src/main.py, got %q", r.FilePath)
	}
	if r.LineNumber != 10 {
		t.Errorf("expected line_number=10, got %d", r.LineNumber)
	}
	if r.Suggestion != KindLintError.Suggestion() {
		t.Errorf("expected lint-error suggestion, got %q", r.Suggestion)
	}
}

func TestClassify_GroupedByKindInTableOrder(t *testing.T) {
	c := NewClassifier()
	// mypy error appears before the lint error in the log, but lint-error
	// precedes type-error in the table, so the lint record comes first.
	log := "src/a.py:3: error: Incompatible return value type\n" +
		"src/b.py:7:1: E302 expected 2 blank lines\n"
	records := c.Classify(log)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Kind != KindLintError {
		t.Errorf("expected first record kind=lint-error, got %q", records[0].Kind)
	}
	if records[1].Kind != KindTypeError {
		t.Errorf("expected second record kind=type-error, got %q", records[1].Kind)
	}
}

func TestClassify_WithinKindLogOrder(t *testing.T) {
	c := NewClassifier()
	log := "src/z.py:20:1: E501 line too long\n" +
		"src/a.py:5:1: W291 trailing whitespace\n"
	records := c.Classify(log)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].FilePath != "src/z.py" || records[1].FilePath != "src/a.py" {
		t.Errorf("expected log order within kind, got %q then %q",
			records[0].FilePath, records[1].FilePath)
	}
}

func TestClassify_OverlappingPatternsDuplicateWithoutDedupe(t *testing.T) {
	// The gcc error line matches both the build-error and the import-error
	// tables when it reports a missing header.
	log := "src/main.cpp:1:10: fatal error: 'missing.h' file not found\n"

	c := NewClassifier()
	records := c.Classify(log)
	if len(records) != 2 {
		t.Fatalf("expected duplicate records across kinds, got %d", len(records))
	}

	deduped := NewClassifier(WithDedupe())
	records = deduped.Classify(log)
	if len(records) != 1 {
		t.Fatalf("expected dedupe to keep one record, got %d", len(records))
	}
	if records[0].Kind != KindBuildError {
		t.Errorf("expected the earlier table entry to win, got %q", records[0].Kind)
	}
}

func TestClassify_CustomPatternTable(t *testing.T) {
	table := PatternSet{
		{
			Kind:     KindRuntimeError,
			Patterns: []*regexp.Regexp{regexp.MustCompile(`(?m)^BOOM (\S+?):(\d+)$`)},
		},
	}
	c := NewClassifier(WithPatterns(table))
	records := c.Classify("ok\nBOOM app/crash.go:99\nok\n")

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Kind != KindRuntimeError {
		t.Errorf("expected runtime-error, got %q", records[0].Kind)
	}
	if records[0].FilePath != "app/crash.go" || records[0].LineNumber != 99 {
		t.Errorf("expected app/crash.go:99, got %s:%d", records[0].FilePath, records[0].LineNumber)
	}
}

func TestClassify_ContextWindow(t *testing.T) {
	c := NewClassifier(WithWindowLines(1))
	log := "line one\nline two\nsrc/main.py:3:1: E999 SyntaxError\nline four\n"
	records := c.Classify(log)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	want := "line two\nsrc/main.py:3:1: E999 SyntaxError"
	if records[0].Context != want {
		t.Errorf("expected context %q, got %q", want, records[0].Context)
	}
}

func TestRenderPrompt_LintRoundTrip(t *testing.T) {
	c := NewClassifier()
	log := "src/main.py:10:5: E501 line too long (95 > 88 characters)\n"
	out := RenderPrompt(c.Classify(log))

	if !strings.Contains(out, "src/main.py") {
		t.Errorf("expected rendered prompt to contain file path, got:\n%s", out)
	}
	if !strings.Contains(out, ":10") {
		t.Errorf("expected rendered prompt to contain line 10, got:\n%s", out)
	}
	if !strings.Contains(out, KindLintError.Suggestion()) {
		t.Errorf("expected rendered prompt to contain the lint suggestion")
	}
	if !strings.Contains(out, "Lint Errors (1)") {
		t.Errorf("expected kind heading with count, got:\n%s", out)
	}
}

func TestRenderPrompt_Empty(t *testing.T) {
	if out := RenderPrompt(nil); !strings.Contains(out, "No errors") {
		t.Errorf("unexpected output for empty records: %q", out)
	}
}

func TestKindSuggestion_Exhaustive(t *testing.T) {
	for _, k := range Kinds() {
		if k.Suggestion() == "" {
			t.Errorf("kind %q has no suggestion", k)
		}
		if k.Title() == "" {
			t.Errorf("kind %q has no title", k)
		}
	}
}
