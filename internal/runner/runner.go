package runner

import (
	"context"
	"errors"
	"os/exec"
)

// Runner executes an external tool and reports its exit code.
// The call blocks until the process has terminated.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// ExecRunner runs commands through os/exec
type ExecRunner struct{}

// NewExecRunner creates a runner backed by the host's process table
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the command, waits for it and returns the exit code.
// A non-zero tool exit is not an error here; the caller applies its own
// policy. The error return covers failures to start the process at all.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
