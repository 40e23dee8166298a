package pipeline

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner abstracts external command execution for testability.
// Output is combined stdout+stderr, captured in full before returning.
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string) (output string, exitCode int, err error)
}

// ExecRunner implements CommandRunner with os/exec. The returned error is
// non-nil only when the command could not be started or was cut short;
// a non-zero exit is reported through exitCode.
type ExecRunner struct{}

func (e *ExecRunner) Run(ctx context.Context, dir string, argv []string) (string, int, error) {
	if len(argv) == 0 {
		return "", -1, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var buf strings.Builder
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return buf.String(), exitErr.ExitCode(), nil
		}
		return buf.String(), -1, fmt.Errorf("exec %s: %w", argv[0], err)
	}
	return buf.String(), 0, nil
}
