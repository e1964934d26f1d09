package mirror

import (
	"strings"
	"testing"
)

type gitCall struct {
	Dir  string
	Args []string
}

type mockGit struct {
	calls   []gitCall
	results []mockResult
	idx     int
}

type mockResult struct {
	output string
	err    error
}

func (m *mockGit) RunGit(dir string, args ...string) (string, error) {
	m.calls = append(m.calls, gitCall{Dir: dir, Args: args})
	if m.idx >= len(m.results) {
		return "", nil
	}
	r := m.results[m.idx]
	m.idx++
	return r.output, r.err
}

func TestPushBranch(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: ""}}}
	client := NewClient(git)

	if err := client.PushBranch("/tmp/worktree", "instance/o__r.abc1234.kind__h"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(git.calls) != 1 {
		t.Fatalf("expected 1 git call, got %d", len(git.calls))
	}
	call := git.calls[0]
	if call.Dir != "/tmp/worktree" {
		t.Errorf("dir = %q, want /tmp/worktree", call.Dir)
	}
	want := []string{"push", "-u", "origin", "instance/o__r.abc1234.kind__h"}
	if len(call.Args) != len(want) {
		t.Fatalf("args = %v, want %v", call.Args, want)
	}
	for i, arg := range want {
		if call.Args[i] != arg {
			t.Errorf("arg[%d] = %q, want %q", i, call.Args[i], arg)
		}
	}
}

func TestPushBranch_RejectsDashPrefix(t *testing.T) {
	client := NewClient(&mockGit{})
	err := client.PushBranch("/tmp", "--delete")
	if err == nil {
		t.Fatal("expected error for branch starting with -")
	}
	if !strings.Contains(err.Error(), "must not start with -") {
		t.Errorf("expected rejection message, got %q", err.Error())
	}
}

func TestForcePushBranch(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: ""}}}
	client := NewClient(git)

	if err := client.ForcePushBranch("/tmp/worktree", "instance/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"push", "--force-with-lease", "-u", "origin", "instance/a"}
	if len(git.calls[0].Args) != len(want) {
		t.Fatalf("args = %v, want %v", git.calls[0].Args, want)
	}
}

func TestRebaseOntoMain_CleanRebase(t *testing.T) {
	git := &mockGit{results: []mockResult{
		{output: ""}, // fetch
		{output: ""}, // rebase succeeds
	}}
	client := NewClient(git)

	conflicted, err := client.RebaseOntoMain("/tmp/worktree")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflicted {
		t.Error("expected no conflict")
	}
}

func TestRebaseOntoMain_ConflictAbortsCleanly(t *testing.T) {
	git := &mockGit{results: []mockResult{
		{output: ""},                                                      // fetch
		{output: "CONFLICT (content): Merge conflict", err: errTestRebase}, // rebase fails
		{output: ""},                                                      // abort
	}}
	client := NewClient(git)

	conflicted, err := client.RebaseOntoMain("/tmp/worktree")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflicted {
		t.Error("expected conflict to be detected")
	}
	lastCall := git.calls[len(git.calls)-1]
	if strings.Join(lastCall.Args, " ") != "rebase --abort" {
		t.Errorf("expected rebase --abort call, got %v", lastCall.Args)
	}
}

func TestRebaseOntoMain_FetchErrorPropagates(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: "permission denied", err: errTestRebase}}}
	client := NewClient(git)

	_, err := client.RebaseOntoMain("/tmp/worktree")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestClone_PrefersSSH(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: ""}}}
	client := NewClient(git)

	transport, err := client.Clone(CloneSpec{SSHURL: "git@github.com:acme/widgets.git", HTTPSURL: "https://github.com/acme/widgets.git", Token: "secret"}, "/tmp/dest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport != "ssh" {
		t.Errorf("transport = %q, want ssh", transport)
	}
	if git.calls[0].Args[1] != "git@github.com:acme/widgets.git" {
		t.Errorf("expected ssh URL cloned, got %v", git.calls[0].Args)
	}
}

func TestClone_FallsBackToHTTPSWithToken(t *testing.T) {
	git := &mockGit{results: []mockResult{
		{output: "Permission denied (publickey)", err: errTestRebase}, // ssh fails
		{output: ""}, // https succeeds
	}}
	client := NewClient(git)

	transport, err := client.Clone(CloneSpec{SSHURL: "git@github.com:acme/widgets.git", HTTPSURL: "https://github.com/acme/widgets.git", Token: "secret"}, "/tmp/dest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transport != "https" {
		t.Errorf("transport = %q, want https", transport)
	}
	secondCall := git.calls[1]
	if secondCall.Args[1] != "https://secret@github.com/acme/widgets.git" {
		t.Errorf("expected token-embedded https URL, got %v", secondCall.Args)
	}
}

func TestClone_BothTransportsFail(t *testing.T) {
	git := &mockGit{results: []mockResult{
		{output: "", err: errTestRebase},
		{output: "", err: errTestRebase},
	}}
	client := NewClient(git)

	_, err := client.Clone(CloneSpec{SSHURL: "git@github.com:acme/widgets.git", HTTPSURL: "https://github.com/acme/widgets.git", Token: "secret"}, "/tmp/dest")
	if err == nil {
		t.Fatal("expected error when both transports fail")
	}
	if strings.Contains(err.Error(), "secret") {
		t.Error("error message must not leak the token")
	}
}

func TestHTTPSWithToken_NoToken(t *testing.T) {
	got := httpsWithToken("https://github.com/acme/widgets.git", "")
	if got != "https://github.com/acme/widgets.git" {
		t.Errorf("got %q, want unchanged URL", got)
	}
}

func TestBranchExists(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: "abc123\trefs/heads/instance/a"}}}
	client := NewClient(git)

	exists, err := client.BranchExists("/tmp/worktree", "instance/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected branch to exist")
	}
}

func TestBranchExists_NotFound(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: ""}}}
	client := NewClient(git)

	exists, err := client.BranchExists("/tmp/worktree", "instance/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected branch not to exist")
	}
}

func TestRemoteBranchTip(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: "abc123def456\trefs/heads/instance/a"}}}
	client := NewClient(git)

	tip, err := client.RemoteBranchTip("/tmp/worktree", "instance/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tip != "abc123def456" {
		t.Errorf("tip = %q, want abc123def456", tip)
	}
}

func TestFetchBranch(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: ""}}}
	client := NewClient(git)

	if err := client.FetchBranch("/tmp/worktree", "instance/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"fetch", "origin", "instance/a"}
	if len(git.calls[0].Args) != len(want) {
		t.Fatalf("args = %v, want %v", git.calls[0].Args, want)
	}
}

func TestTreeHash(t *testing.T) {
	git := &mockGit{results: []mockResult{{output: "deadbeef"}}}
	client := NewClient(git)

	hash, err := client.TreeHash("/tmp/worktree", "origin/instance/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash != "deadbeef" {
		t.Errorf("hash = %q, want deadbeef", hash)
	}
	if git.calls[0].Args[1] != "origin/instance/a^{tree}" {
		t.Errorf("expected rev-parse of tree, got %v", git.calls[0].Args)
	}
}

var errTestRebase = &testError{"command failed"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
