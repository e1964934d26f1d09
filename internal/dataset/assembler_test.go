package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/issuegen"
)

func baseInstance(id string) gather.Instance {
	return gather.Instance{
		InstanceID: id,
		Repo:       "acme/widgets",
		Patch:      "--- a/widgets/core.py\n+++ b/widgets/core.py\n@@ -1,2 +1,2 @@\n def add(a, b):\n-    return a + b\n+    return a - b\n",
		FailToPass: []string{"test_add"},
		PassToPass: []string{"test_sub"},
		ImageName:  "swesmith.acme_widgets:abc1234",
	}
}

func TestAssemble_JoinsIssueTextAndWrites(t *testing.T) {
	logsDir := t.TempDir()
	writeRecords(t, canonicalIssuePath(logsDir, "widgets", "exp1"), []issuegen.Record{
		{InstanceID: "acme__widgets.abc1234.hash1", ProblemStatement: "the add function is broken"},
	})

	a := &Assembler{LogsDir: logsDir, Repo: "widgets", Exp: "exp1", IssueMode: issuegen.ModeStatic}
	records, err := a.Assemble([]gather.Instance{baseInstance("acme__widgets.abc1234.hash1")})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(records) != 1 || records[0].ProblemStatement != "the add function is broken" {
		t.Fatalf("unexpected records: %+v", records)
	}

	data, err := os.ReadFile(filepath.Join(logsDir, "agent_datasets", "widgets_final.json"))
	if err != nil {
		t.Fatalf("read final dataset: %v", err)
	}
	var got []Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].InstanceID != "acme__widgets.abc1234.hash1" {
		t.Errorf("unexpected final dataset contents: %+v", got)
	}
}

func TestAssemble_FailsLoudlyOnMissingProblemStatement(t *testing.T) {
	logsDir := t.TempDir()
	a := &Assembler{LogsDir: logsDir, Repo: "widgets", Exp: "exp1", IssueMode: issuegen.ModeStatic}
	_, err := a.Assemble([]gather.Instance{baseInstance("acme__widgets.abc1234.hash1")})
	if err == nil {
		t.Fatal("expected error for instance missing problem_statement")
	}
	if !strings.Contains(err.Error(), "acme__widgets.abc1234.hash1") {
		t.Errorf("expected error to name the offending instance, got: %v", err)
	}
}

func TestAssemble_SkipModeToleratesMissingProblemStatement(t *testing.T) {
	logsDir := t.TempDir()
	a := &Assembler{LogsDir: logsDir, Repo: "widgets", Exp: "exp1", IssueMode: issuegen.ModeSkip}
	records, err := a.Assemble([]gather.Instance{baseInstance("acme__widgets.abc1234.hash1")})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected skip mode to keep the instance, got %+v", records)
	}
}

func TestAssemble_RejectsInstanceMissingFailToPass(t *testing.T) {
	logsDir := t.TempDir()
	writeRecords(t, canonicalIssuePath(logsDir, "widgets", "exp1"), []issuegen.Record{
		{InstanceID: "acme__widgets.abc1234.hash1", ProblemStatement: "broken"},
	})
	inst := baseInstance("acme__widgets.abc1234.hash1")
	inst.FailToPass = nil

	a := &Assembler{LogsDir: logsDir, Repo: "widgets", Exp: "exp1", IssueMode: issuegen.ModeStatic}
	_, err := a.Assemble([]gather.Instance{inst})
	if err == nil {
		t.Fatal("expected schema validation error for missing fail_to_pass")
	}
}
