// Package environment builds and caches the hermetic container a repo
// profile's tests run in, and ensures a local mirror checkout exists
// before the worktree manager branches off it.
package environment

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner abstracts shelling out, for testability — image builds and
// container runs are both "run this shell command with a timeout and
// capture stdout/stderr/exit code."
type CommandRunner interface {
	Run(ctx context.Context, dir string, command string) (stdout string, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner by shelling out to sh -c.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, command string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return stdoutBuf.String(), stderrBuf.String(), -1, fmt.Errorf("exec: %w", err)
		}
	}
	return stdoutBuf.String(), stderrBuf.String(), exitCode, nil
}

// RunTimeout runs command with the given timeout, reporting a deadline
// exceeded as exit code -1 rather than an error, mirroring how a timed-out
// test run is "no output found" rather than a hard failure.
func RunTimeout(runner CommandRunner, dir, command string, timeout time.Duration) (stdout, stderr string, exitCode int, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stdout, stderr, exitCode, err = runner.Run(ctx, dir, command)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return stdout, stderr, -1, nil
	}
	return stdout, stderr, exitCode, err
}
