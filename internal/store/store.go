package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lucasnoah/remedy/internal/pipeline"
)

// Store persists validation run artifacts on disk: one directory per run
// holding run.json plus the raw captured output of each stage.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// DefaultStore returns a Store at ~/.remedy/runs, creating the directory
// if needed.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".remedy", "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{baseDir: dir}, nil
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// RunDir returns the directory path for a run ID.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func (s *Store) runPath(runID string) string {
	return filepath.Join(s.RunDir(runID), "run.json")
}

// SaveRun writes run.json and per-stage output files for a finished run.
func (s *Store) SaveRun(run *pipeline.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run has no ID")
	}
	dir := s.RunDir(run.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	if err := WriteJSON(s.runPath(run.ID), run); err != nil {
		return fmt.Errorf("write run.json: %w", err)
	}

	for _, st := range run.Stages {
		if st.Output == "" {
			continue
		}
		name := fmt.Sprintf("%s-output.txt", st.Stage)
		if err := WriteAtomic(filepath.Join(dir, name), []byte(st.Output)); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// LoadRun reads a saved run by ID.
func (s *Store) LoadRun(runID string) (*pipeline.Run, error) {
	var run pipeline.Run
	if err := ReadJSON(s.runPath(runID), &run); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("read run %s: %w", runID, err)
	}
	return &run, nil
}

// List returns the IDs of all saved runs, sorted lexically.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.runPath(e.Name())); err == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
