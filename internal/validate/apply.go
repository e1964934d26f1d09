package validate

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/swesmith-go/synthesis/internal/environment"
)

// gitApplyCmds is the fallback chain tried in order against a patch file
// already written into the working tree, each progressively more lenient
// than the last.
var gitApplyCmds = []string{
	"git apply --verbose %s",
	"git apply --verbose --reject %s",
	"patch --batch --fuzz=5 -p1 -i %s",
}

const patchFileName = "_temp_patch_swesmith.diff"

// writeRemoteFile materializes content at path via runner, base64-encoded
// inline in the command so it works identically whether runner targets the
// host or a docker exec session with no separate stdin channel.
func writeRemoteFile(ctx context.Context, runner environment.CommandRunner, dir, path, content string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	cmd := fmt.Sprintf("echo %s | base64 -d > %s", encoded, path)
	_, stderr, exitCode, err := runner.Run(ctx, dir, cmd)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		return fmt.Errorf("validate: write %s: %s", path, stderr)
	}
	return nil
}

// ApplyPatch writes diff to patchFileName inside dir and tries each command
// in gitApplyCmds in order until one exits 0, returning the command that
// worked (or ApplyFailed, with the last command's stderr, if none did).
func ApplyPatch(ctx context.Context, runner environment.CommandRunner, dir, diff string) (ApplyOutcome, string, error) {
	if err := writeRemoteFile(ctx, runner, dir, patchFileName, diff); err != nil {
		return ApplyFailed, "", err
	}

	var lastStderr string
	for _, tmpl := range gitApplyCmds {
		cmd := fmt.Sprintf(tmpl, patchFileName)
		_, stderr, exitCode, err := runner.Run(ctx, dir, cmd)
		if err != nil {
			return ApplyFailed, stderr, err
		}
		if exitCode == 0 {
			return ApplyOK, cmd, nil
		}
		lastStderr = stderr
	}
	return ApplyFailed, lastStderr, nil
}
