package issuegen

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateAll_StaticMode_WritesCanonicalPath(t *testing.T) {
	logsDir := t.TempDir()
	g := &Generator{Mode: ModeStatic}

	inputs := []Input{testInstance("acme__widgets.abc1234.procedural_negate-boolean__hash1", []string{"test_add"})}
	records, err := g.GenerateAll(context.Background(), logsDir, "widgets", "exp1", inputs)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(records) != 1 || records[0].InstanceID != inputs[0].Instance.InstanceID {
		t.Fatalf("unexpected records: %+v", records)
	}

	path := filepath.Join(logsDir, "issue_gen", "widgets__exp1_n1.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected output at %s: %v", path, err)
	}
	var got []Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(got) != 1 || got[0].ProblemStatement == "" {
		t.Errorf("unexpected output contents: %+v", got)
	}
}

func TestGenerateAll_SkipMode_EmptyProblemStatements(t *testing.T) {
	logsDir := t.TempDir()
	g := &Generator{Mode: ModeSkip}

	inputs := []Input{testInstance("acme__widgets.abc1234.procedural_negate-boolean__hash1", []string{"test_add"})}
	records, err := g.GenerateAll(context.Background(), logsDir, "widgets", "exp1", inputs)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if records[0].ProblemStatement != "" {
		t.Errorf("expected empty problem statement in skip mode, got %q", records[0].ProblemStatement)
	}
}

func TestGenerateAll_LLMMode_RequiresClient(t *testing.T) {
	g := &Generator{Mode: ModeLLM}
	inputs := []Input{testInstance("acme__widgets.abc1234.procedural_negate-boolean__hash1", []string{"test_add"})}
	_, err := g.GenerateAll(context.Background(), t.TempDir(), "widgets", "exp1", inputs)
	if err == nil {
		t.Fatal("expected error when llm mode has no configured client")
	}
}

func TestGenerateAll_PRMode_FallsBackToStaticWhenUncached(t *testing.T) {
	g := &Generator{Mode: ModePR, BugGenDir: t.TempDir()}
	inputs := []Input{testInstance("acme__widgets.abc1234.procedural_negate-boolean__hash1", []string{"test_add"})}
	records, err := g.GenerateAll(context.Background(), t.TempDir(), "widgets", "exp1", inputs)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if records[0].ProblemStatement == "" {
		t.Error("expected static fallback to produce a non-empty problem statement")
	}
}

func TestRepoName(t *testing.T) {
	if got := repoName("acme/widgets"); got != "widgets" {
		t.Errorf("repoName = %q, want widgets", got)
	}
	if got := repoName("widgets"); got != "widgets" {
		t.Errorf("repoName(no slash) = %q, want widgets", got)
	}
}
