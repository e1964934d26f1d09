package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/swesmith-go/synthesis/internal/environment"
)

const containerWorkdir = "/repo"

// ContainerHandle is a running, detached container instance of a profile's
// image, kept alive with `sleep infinity` so the validator can exec
// multiple commands (apply, test) against the same filesystem state.
type ContainerHandle struct {
	ID string
}

// StartContainer launches a detached container from image and returns its
// ID once docker reports it running. memory, when non-empty, is passed
// through verbatim as docker's --memory limit (e.g. "2g", "512m").
func StartContainer(ctx context.Context, runner environment.CommandRunner, image string, memory string) (ContainerHandle, error) {
	memFlag := ""
	if memory != "" {
		memFlag = fmt.Sprintf("--memory %s ", memory)
	}
	cmd := fmt.Sprintf("docker run -d --rm %s%s sleep infinity", memFlag, image)
	stdout, stderr, exitCode, err := runner.Run(ctx, "", cmd)
	if err != nil {
		return ContainerHandle{}, fmt.Errorf("validate: start container from %s: %w", image, err)
	}
	if exitCode != 0 {
		return ContainerHandle{}, fmt.Errorf("validate: docker run %s exited %d: %s", image, exitCode, stderr)
	}
	return ContainerHandle{ID: strings.TrimSpace(stdout)}, nil
}

// Stop tears down a running container.
func (h ContainerHandle) Stop(ctx context.Context, runner environment.CommandRunner) error {
	_, _, _, err := runner.Run(ctx, "", fmt.Sprintf("docker stop %s", h.ID))
	return err
}

// Exec returns a CommandRunner that runs commands inside this container via
// docker exec, rather than on the host. dir is ignored — every command runs
// from containerWorkdir, matching how the image is built (WORKDIR /repo).
func (h ContainerHandle) Exec(runner environment.CommandRunner) environment.CommandRunner {
	return containerRunner{inner: runner, containerID: h.ID}
}

type containerRunner struct {
	inner       environment.CommandRunner
	containerID string
}

func (r containerRunner) Run(ctx context.Context, _ string, command string) (string, string, int, error) {
	dockerCmd := fmt.Sprintf("docker exec -w %s %s sh -c %s", containerWorkdir, r.containerID, shellQuote(command))
	return r.inner.Run(ctx, "", dockerCmd)
}

// shellQuote wraps s in single quotes, escaping any embedded single quote
// so it survives being passed through another layer of sh -c.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
