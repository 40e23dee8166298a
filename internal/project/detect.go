package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// Language identifies a project's toolchain family.
type Language string

const (
	LangPython  Language = "python"
	LangCpp     Language = "cpp"
	LangUnknown Language = "unknown"
)

// ParseLanguage normalizes a user-supplied language name. Anything not
// recognized maps to LangUnknown rather than an error: the pipeline has a
// defined fallback for unknown languages.
func ParseLanguage(s string) Language {
	switch s {
	case "python", "py":
		return LangPython
	case "cpp", "c++", "cxx":
		return LangCpp
	}
	return LangUnknown
}

// marker files checked per language, in priority order.
var languageMarkers = []struct {
	language Language
	files    []string
}{
	{LangPython, []string{"pyproject.toml", "setup.py", "requirements.txt", "setup.cfg"}},
	{LangCpp, []string{"CMakeLists.txt", "conanfile.txt", "meson.build", "Makefile"}},
}

// DetectResult reports the detected language and the marker files that
// drove the decision.
type DetectResult struct {
	Language Language `json:"language"`
	Markers  []string `json:"markers"`
}

// Detect inspects the top level of dir for well-known marker files and
// picks the language with the most hits; ties go to the earlier entry in
// the marker table. No markers means LangUnknown, not an error.
func Detect(dir string) (*DetectResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat project dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	best := &DetectResult{Language: LangUnknown, Markers: []string{}}
	for _, entry := range languageMarkers {
		var found []string
		for _, name := range entry.files {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				found = append(found, name)
			}
		}
		if len(found) > len(best.Markers) {
			best = &DetectResult{Language: entry.language, Markers: found}
		}
	}
	return best, nil
}
