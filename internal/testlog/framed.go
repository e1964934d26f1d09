package testlog

import (
	"errors"
	"fmt"
	"strings"
)

const (
	startMarker    = ">>>>> Start Test Output"
	endMarker      = ">>>>> End Test Output"
	applyPatchFail = "APPLY_PATCH_FAIL"
	timeoutMarker  = ">>>>> Applying patch timed out"
)

// ErrNoTestOutput means the run log never reached a real test invocation —
// the patch failed to apply, or the run timed out first. internal/validate
// treats this as the unparseable path rather than handing empty text to a
// Parser.
var ErrNoTestOutput = errors.New("testlog: no output found")

// ReadFramed extracts the text a harness wrapped between the start/end
// markers, mirroring the exact framing and sentinel contract the original
// synthesis pipeline's run scripts use. It returns ErrNoTestOutput if the
// log never reached a framed section, carries the APPLY_PATCH_FAIL
// sentinel, or shows the patch-apply timeout marker.
func ReadFramed(log string) (string, error) {
	if strings.Contains(log, applyPatchFail) || strings.Contains(log, timeoutMarker) {
		return "", ErrNoTestOutput
	}

	start := strings.Index(log, startMarker)
	if start < 0 {
		return "", ErrNoTestOutput
	}
	body := log[start+len(startMarker):]

	end := strings.Index(body, endMarker)
	if end < 0 {
		return "", ErrNoTestOutput
	}
	return strings.TrimSpace(body[:end]), nil
}

// WrapTestCommand surrounds cmd with the same start/end markers ReadFramed
// expects, the way the original harness's eval.sh wraps a test invocation.
func WrapTestCommand(cmd string) string {
	return fmt.Sprintf("echo '%s'\n%s\necho '%s'", startMarker, cmd, endMarker)
}
