package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/lucasnoah/remedy/internal/config"
	"github.com/lucasnoah/remedy/internal/db"
	"github.com/lucasnoah/remedy/internal/pipeline"
)

// loadConfig loads an explicit config path, or the default search chain
// when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// openDB opens the run history database at its default location.
func openDB() (*db.DB, func(), error) {
	path, err := db.DefaultDBPath()
	if err != nil {
		return nil, nil, err
	}
	d, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Migrate(); err != nil {
		d.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return d, func() { d.Close() }, nil
}

func passFail(passed bool) string {
	if passed {
		return color.GreenString("PASS")
	}
	return color.RedString("FAIL")
}

// parseStages converts a comma-separated stage list, rejecting unknown
// stage names.
func parseStages(s string) ([]pipeline.StageKind, error) {
	if s == "" {
		return nil, nil
	}
	var stages []pipeline.StageKind
	for _, name := range strings.Split(s, ",") {
		stage := pipeline.StageKind(strings.TrimSpace(name))
		if !pipeline.ValidStage(stage) {
			return nil, fmt.Errorf("unknown stage %q", name)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// printStages writes one line per stage result.
func printStages(w io.Writer, run *pipeline.Run) {
	for _, st := range run.Stages {
		note := ""
		if st.Skipped {
			note = " (skipped)"
		}
		fmt.Fprintf(w, "[%s] %s%s (%.1fs)\n", passFail(st.Passed), st.Stage, note, st.DurationSeconds)
	}
}
