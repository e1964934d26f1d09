package issuegen

import (
	"strings"
	"testing"

	"github.com/swesmith-go/synthesis/internal/gather"
)

func testInstance(id string, f2p []string) Input {
	return Input{
		Instance: gather.Instance{
			InstanceID: id,
			Repo:       "acme/widgets",
			Patch:      "--- a/widgets/core.py\n+++ b/widgets/core.py\n@@ -1,2 +1,2 @@\n def add(a, b):\n-    return a + b\n+    return a - b\n",
			FailToPass: f2p,
		},
		BugKind: "procedural:negate-boolean",
	}
}

func TestGenerateStatic_ProducesNonEmptyStatement(t *testing.T) {
	ps, err := GenerateStatic(testInstance("acme__widgets.abc1234.procedural_negate-boolean__hash1", []string{"test_add"}))
	if err != nil {
		t.Fatalf("GenerateStatic: %v", err)
	}
	if strings.TrimSpace(ps) == "" {
		t.Error("expected non-empty problem statement")
	}
}

func TestGenerateStatic_Deterministic(t *testing.T) {
	in := testInstance("acme__widgets.abc1234.procedural_negate-boolean__hash1", []string{"test_add", "test_sub"})
	a, err := GenerateStatic(in)
	if err != nil {
		t.Fatalf("GenerateStatic: %v", err)
	}
	b, err := GenerateStatic(in)
	if err != nil {
		t.Fatalf("GenerateStatic: %v", err)
	}
	if a != b {
		t.Errorf("expected deterministic output for same instance_id, got %q vs %q", a, b)
	}
}

func TestGenerateStatic_DiffersAcrossInstances(t *testing.T) {
	a, _ := GenerateStatic(testInstance("acme__widgets.abc1234.procedural_negate-boolean__hash1", []string{"test_add"}))
	b, _ := GenerateStatic(testInstance("acme__widgets.abc1234.procedural_negate-boolean__hash2", []string{"test_add"}))
	// Not a hard guarantee for every pair, but with a broad template pool a
	// different seed should pick a different template or f2p entry often
	// enough that identical output here would indicate a broken seed.
	if a == b {
		t.Skip("same template picked for both seeds; not a failure but worth a second look if it recurs")
	}
}

func TestGenerateStatic_NoHintForLLMGeneratedBug(t *testing.T) {
	in := testInstance("acme__widgets.abc1234.lm_modify__hash1", []string{"test_add"})
	in.BugKind = "lm_modify"
	ps, err := GenerateStatic(in)
	if err != nil {
		t.Fatalf("GenerateStatic: %v", err)
	}
	if strings.Contains(ps, "boundary") || strings.Contains(ps, "condition evaluated backwards") {
		t.Errorf("unexpected procedural hint leaked into lm_modify statement: %q", ps)
	}
}

func TestProcedureVariant(t *testing.T) {
	if got := procedureVariant("procedural:negate-boolean"); got != "negate-boolean" {
		t.Errorf("procedureVariant = %q, want negate-boolean", got)
	}
	if got := procedureVariant("lm_rewrite"); got != "" {
		t.Errorf("procedureVariant(lm_rewrite) = %q, want empty", got)
	}
}
