package collector

import (
	"path/filepath"
	"testing"

	"github.com/swesmith-go/synthesis/internal/buggen"
	"github.com/swesmith-go/synthesis/internal/lang"
)

func TestWriteCandidateAndCollect(t *testing.T) {
	logsDir := t.TempDir()

	c1 := buggen.Candidate{
		Method: buggen.MethodProcedural,
		Kind:   "negate-boolean",
		Entity: lang.Entity{Name: "WithinBudget"},
		Diff:   "--- a/budget.go\n+++ b/budget.go\n@@ -1,1 +1,1 @@\n-true\n+false\n",
	}
	c2 := buggen.Candidate{
		Method:      buggen.MethodLMModify,
		Kind:        "lm_modify",
		Entity:      lang.Entity{Name: "WithinBudget"},
		Diff:        "--- a/budget.go\n+++ b/budget.go\n@@ -1,1 +1,1 @@\n-true\n+maybe\n",
		RawResponse: "maybe",
	}

	if _, err := WriteCandidate(logsDir, "widgets", "budget.go", "WithinBudget", c1); err != nil {
		t.Fatalf("WriteCandidate c1: %v", err)
	}
	if _, err := WriteCandidate(logsDir, "widgets", "budget.go", "WithinBudget", c2); err != nil {
		t.Fatalf("WriteCandidate c2: %v", err)
	}

	m, err := Collect(logsDir, "widgets")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(m.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(m.Entries))
	}

	kinds := map[string]bool{}
	for _, e := range m.Entries {
		kinds[e.BugKind] = true
		if e.SourceEntity != "WithinBudget" {
			t.Errorf("SourceEntity = %q, want WithinBudget", e.SourceEntity)
		}
		if e.Hash == "" {
			t.Error("Hash should not be empty")
		}
	}
	if !kinds["procedural:negate-boolean"] || !kinds["lm_modify"] {
		t.Errorf("unexpected bug kinds: %v", kinds)
	}

	manifestPath := filepath.Join(logsDir, "widgets_all_patches.json")
	if _, err := ReadManifest(manifestPath); err != nil {
		t.Fatalf("manifest not written at expected path: %v", err)
	}
}

func TestCollect_EmptyRepoProducesEmptyManifest(t *testing.T) {
	logsDir := t.TempDir()
	m, err := Collect(logsDir, "nothing/here")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(m.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(m.Entries))
	}
}

func TestCollect_StableOrdering(t *testing.T) {
	logsDir := t.TempDir()
	entity := lang.Entity{Name: "Fn"}

	for _, f := range []string{"b.go", "a.go", "c.go"} {
		c := buggen.Candidate{Method: buggen.MethodProcedural, Kind: "negate-boolean", Entity: entity, Diff: "diff for " + f}
		if _, err := WriteCandidate(logsDir, "repo", f, "Fn", c); err != nil {
			t.Fatalf("WriteCandidate(%s): %v", f, err)
		}
	}

	m1, err := Collect(logsDir, "repo")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	m2, err := Collect(logsDir, "repo")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(m1.Entries) != len(m2.Entries) {
		t.Fatalf("entry count differs between runs: %d vs %d", len(m1.Entries), len(m2.Entries))
	}
	for i := range m1.Entries {
		if m1.Entries[i].InstanceIDStub != m2.Entries[i].InstanceIDStub {
			t.Errorf("entry %d order differs: %q vs %q", i, m1.Entries[i].InstanceIDStub, m2.Entries[i].InstanceIDStub)
		}
	}
}
