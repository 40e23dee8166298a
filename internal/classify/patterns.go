package classify

import "regexp"

// PatternEntry binds one error kind to the ordered regexes that detect it.
// Capture group 1, when present, is the implicated file path; group 2 the
// 1-based line number. Non-location groups must be non-capturing.
type PatternEntry struct {
	Kind     Kind
	Patterns []*regexp.Regexp
}

// PatternSet is an ordered classification table. Entry order determines
// the grouping order of the classifier's output.
type PatternSet []PatternEntry

// DefaultPatterns covers the toolchains the validation pipeline drives:
// pytest/ruff/mypy for Python, clang/cmake/ctest for C++.
func DefaultPatterns() PatternSet {
	return PatternSet{
		{
			Kind: KindTestFailure,
			Patterns: []*regexp.Regexp{
				// pytest short summary: "FAILED tests/test_app.py::test_login"
				regexp.MustCompile(`(?m)^FAILED (\S+?)::\S+.*$`),
				// pytest traceback location: "tests/test_app.py:42: AssertionError"
				regexp.MustCompile(`(?m)^(\S+?):(\d+): AssertionError.*$`),
				// googletest: "[  FAILED  ] SuiteName.TestName"
				regexp.MustCompile(`(?m)^\[  FAILED  \] \S+.*$`),
				// ctest summary line
				regexp.MustCompile(`(?m)^The following tests FAILED:$`),
			},
		},
		{
			Kind: KindLintError,
			Patterns: []*regexp.Regexp{
				// ruff/flake8: "src/main.py:10:5: E501 line too long"
				regexp.MustCompile(`(?m)^(\S+?):(\d+):\d+: [EWF]\d+ .*$`),
				// clang-tidy: "src/main.cpp:12:3: warning: ... [check-name]"
				regexp.MustCompile(`(?m)^(\S+?):(\d+):\d+: warning: .*\[[\w.,-]+\]$`),
			},
		},
		{
			Kind: KindTypeError,
			Patterns: []*regexp.Regexp{
				// mypy: "src/main.py:10: error: Incompatible types ..."
				regexp.MustCompile(`(?m)^(\S+?):(\d+): error: .*$`),
				regexp.MustCompile(`(?m)^TypeError: .*$`),
			},
		},
		{
			Kind: KindBuildError,
			Patterns: []*regexp.Regexp{
				// gcc/clang: "src/main.cpp:7:5: error: ..."
				regexp.MustCompile(`(?m)^(\S+?):(\d+):\d+: (?:fatal )?error: .*$`),
				regexp.MustCompile(`(?m)^CMake Error.*$`),
				regexp.MustCompile(`(?m)^.*undefined reference to .*$`),
			},
		},
		{
			Kind: KindImportError,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^ModuleNotFoundError: .*$`),
				regexp.MustCompile(`(?m)^ImportError: .*$`),
				// clang missing header: "src/main.cpp:1:10: fatal error: 'x.h' file not found"
				regexp.MustCompile(`(?m)^(\S+?):(\d+):\d+: fatal error: '[^']+' file not found$`),
			},
		},
		{
			Kind: KindRuntimeError,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?m)^Traceback \(most recent call last\):$`),
				// traceback frame: File "app/main.py", line 12, in <module>
				regexp.MustCompile(`(?m)^\s*File "([^"]+)", line (\d+).*$`),
				regexp.MustCompile(`(?m)^.*Segmentation fault.*$`),
				regexp.MustCompile(`(?m)^RuntimeError: .*$`),
			},
		},
	}
}
