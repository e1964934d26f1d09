package environment

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecRunner_CapturesOutputAndExitCode(t *testing.T) {
	stdout, _, exitCode, err := ExecRunner{}.Run(context.Background(), "", "echo hello && exit 0")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exitCode = %d, want 0", exitCode)
	}
	if !strings.Contains(stdout, "hello") {
		t.Errorf("stdout = %q, want to contain hello", stdout)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	_, _, exitCode, err := ExecRunner{}.Run(context.Background(), "", "exit 3")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if exitCode != 3 {
		t.Errorf("exitCode = %d, want 3", exitCode)
	}
}

func TestRunTimeout_DeadlineExceeded(t *testing.T) {
	_, _, exitCode, err := RunTimeout(ExecRunner{}, "", "sleep 5", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("RunTimeout() error: %v", err)
	}
	if exitCode != -1 {
		t.Errorf("exitCode = %d, want -1 (timeout)", exitCode)
	}
}

func TestRunTimeout_CompletesWithinDeadline(t *testing.T) {
	_, _, exitCode, err := RunTimeout(ExecRunner{}, "", "exit 0", time.Second)
	if err != nil {
		t.Fatalf("RunTimeout() error: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exitCode = %d, want 0", exitCode)
	}
}
