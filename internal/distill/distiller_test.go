package distill

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swesmith-go/synthesis/internal/gather"
)

func instanceMap(instances ...gather.Instance) map[string]gather.Instance {
	m := map[string]gather.Instance{}
	for _, inst := range instances {
		m[inst.InstanceID] = inst
	}
	return m
}

func TestDistillAll_WritesOneJSONLinePerTrajectory(t *testing.T) {
	logsDir := t.TempDir()
	resolvedOutput := ">>>>> Start Test Output\n" +
		"tests/test_foo.py::test_a PASSED\n" +
		"tests/test_foo.py::test_b PASSED\n" +
		">>>>> End Test Output"

	d := &Distiller{
		Resolver: newResolver(resolvedOutput),
		Dialect:  DialectFunctionCall,
	}
	instances := instanceMap(testInstance())
	trajectories := []Trajectory{
		{
			InstanceID: "acme__widgets.abc1234.hash1",
			Messages:   testMessages(),
			ModelPatch: "patch",
		},
	}

	records, summary, err := d.DistillAll(context.Background(), logsDir, "widgets", instances, trajectories)
	if err != nil {
		t.Fatalf("DistillAll: %v", err)
	}
	if len(records) != 1 || !records[0].Resolved {
		t.Fatalf("unexpected records: %+v", records)
	}
	if summary.Count != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	path := filepath.Join(logsDir, "distilled", "widgets.jsonl")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		lines++
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
	}
	if lines != 1 {
		t.Errorf("expected 1 JSONL line, got %d", lines)
	}
}

func TestDistillAll_ResolvedOnly_DropsUnresolvedTrajectories(t *testing.T) {
	logsDir := t.TempDir()
	unresolvedOutput := ">>>>> Start Test Output\n" +
		"tests/test_foo.py::test_a FAILED\n" +
		"tests/test_foo.py::test_b PASSED\n" +
		">>>>> End Test Output"

	d := &Distiller{
		Resolver:     newResolver(unresolvedOutput),
		Dialect:      DialectFunctionCall,
		ResolvedOnly: true,
	}
	instances := instanceMap(testInstance())
	trajectories := []Trajectory{
		{InstanceID: "acme__widgets.abc1234.hash1", Messages: testMessages(), ModelPatch: "patch"},
	}

	records, _, err := d.DistillAll(context.Background(), logsDir, "widgets", instances, trajectories)
	if err != nil {
		t.Fatalf("DistillAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected resolved-only filter to drop the unresolved trajectory, got %+v", records)
	}
}

func TestDistillAll_UnknownInstance_Errors(t *testing.T) {
	logsDir := t.TempDir()
	d := &Distiller{Resolver: newResolver(""), Dialect: DialectFunctionCall}
	trajectories := []Trajectory{{InstanceID: "no-such-instance", Messages: testMessages(), ModelPatch: "patch"}}

	_, _, err := d.DistillAll(context.Background(), logsDir, "widgets", instanceMap(), trajectories)
	if err == nil {
		t.Fatal("expected error for trajectory referencing an unknown instance")
	}
}

func TestSummarizeLengths_Empty(t *testing.T) {
	if got := summarizeLengths(nil); got != (LengthSummary{}) {
		t.Errorf("expected zero-value summary for empty input, got %+v", got)
	}
}

func TestSummarizeLengths_ComputesMinMaxMean(t *testing.T) {
	got := summarizeLengths([]int{10, 30, 20})
	want := LengthSummary{Count: 3, Min: 10, Max: 30, Mean: 20}
	if got != want {
		t.Errorf("summarizeLengths = %+v, want %+v", got, want)
	}
}

