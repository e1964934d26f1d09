package testlog

import "testing"

func TestGoTestParser_Parse(t *testing.T) {
	output := `
{"Action":"run","Package":"internal/worktree","Test":"TestCreate_HappyPath"}
{"Action":"pass","Package":"internal/worktree","Test":"TestCreate_HappyPath"}
{"Action":"run","Package":"internal/worktree","Test":"TestRemove_HappyPath"}
{"Action":"fail","Package":"internal/worktree","Test":"TestRemove_HappyPath"}
{"Action":"pass","Package":"internal/worktree"}
`
	report, err := GoTestParser{}.Parse(output)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("got %d entries, want 2 (package-level events excluded): %v", len(report), report)
	}
	if report["internal/worktree.TestCreate_HappyPath"] != Pass {
		t.Errorf("TestCreate_HappyPath = %q, want pass", report["internal/worktree.TestCreate_HappyPath"])
	}
	if report["internal/worktree.TestRemove_HappyPath"] != Fail {
		t.Errorf("TestRemove_HappyPath = %q, want fail", report["internal/worktree.TestRemove_HappyPath"])
	}
}
