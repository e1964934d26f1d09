package validate

import (
	"context"
	"strings"
	"testing"
)

type recordingRunner struct {
	calls  []string
	stdout string
}

func (r *recordingRunner) Run(ctx context.Context, dir, command string) (string, string, int, error) {
	r.calls = append(r.calls, command)
	return r.stdout, "", 0, nil
}

func TestStartContainer_ParsesID(t *testing.T) {
	r := &recordingRunner{stdout: "abc123def456\n"}
	h, err := StartContainer(context.Background(), r, "myimage:tag", "")
	if err != nil {
		t.Fatalf("StartContainer: %v", err)
	}
	if h.ID != "abc123def456" {
		t.Errorf("ID = %q, want abc123def456", h.ID)
	}
	if !strings.Contains(r.calls[0], "docker run -d --rm myimage:tag") {
		t.Errorf("unexpected command: %q", r.calls[0])
	}
}

func TestStartContainer_AppliesMemoryLimit(t *testing.T) {
	r := &recordingRunner{stdout: "abc123def456\n"}
	if _, err := StartContainer(context.Background(), r, "myimage:tag", "2g"); err != nil {
		t.Fatalf("StartContainer: %v", err)
	}
	if !strings.Contains(r.calls[0], "--memory 2g") {
		t.Errorf("command = %q, missing --memory flag", r.calls[0])
	}
	if !strings.Contains(r.calls[0], "myimage:tag") {
		t.Errorf("command = %q, missing image", r.calls[0])
	}
}

func TestContainerHandle_ExecWrapsCommand(t *testing.T) {
	r := &recordingRunner{}
	h := ContainerHandle{ID: "deadbeef"}
	exec := h.Exec(r)

	exec.Run(context.Background(), "/ignored", "go test ./...")

	if len(r.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(r.calls))
	}
	got := r.calls[0]
	if !strings.Contains(got, "docker exec -w /repo deadbeef sh -c") {
		t.Errorf("command = %q, missing docker exec prefix", got)
	}
	if !strings.Contains(got, "go test ./...") {
		t.Errorf("command = %q, missing wrapped inner command", got)
	}
}

func TestContainerHandle_Stop(t *testing.T) {
	r := &recordingRunner{}
	h := ContainerHandle{ID: "deadbeef"}
	if err := h.Stop(context.Background(), r); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if r.calls[0] != "docker stop deadbeef" {
		t.Errorf("command = %q, want docker stop deadbeef", r.calls[0])
	}
}
