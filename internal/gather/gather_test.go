package gather

import (
	"context"
	"strings"
	"testing"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/mirror"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/testlog"
	"github.com/swesmith-go/synthesis/internal/validate"
	"github.com/swesmith-go/synthesis/internal/worktree"
)

type fakeGit struct {
	calls    []string
	branches map[string]bool // branch -> exists on remote
}

func (f *fakeGit) RunGit(dir string, args ...string) (string, error) {
	f.calls = append(f.calls, strings.Join(args, " "))
	if len(args) >= 2 && args[0] == "ls-remote" {
		branch := args[len(args)-1]
		if f.branches[branch] {
			return "abc123\trefs/heads/" + branch, nil
		}
		return "", nil
	}
	if len(args) >= 1 && args[0] == "rev-parse" {
		return "sametree", nil
	}
	return "", nil
}

func (f *fakeGit) Run(dir string, args ...string) (string, error) {
	return f.RunGit(dir, args...)
}

type fakeRunner struct{}

func (fakeRunner) Run(ctx context.Context, dir, cmd string) (string, string, int, error) {
	return "", "", 0, nil
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Owner: "acme", Repo: "widgets", Commit: "abc1234def5678",
		Lang: "python", TestCmd: "pytest", ParserKind: testlog.KindPytest,
		DHOrg: "swebench", GHOrg: "swesmith", Arch: "x86_64",
	}
}

func writeValidated(t *testing.T, logsDir string, p *profile.Profile, hash, bugKind string, report validate.Report) {
	t.Helper()
	dir := logsDir + "/" + p.Key() + "/" + hash
	if err := artifact.WriteAtomic(dir+"/patch.diff", []byte("diff --git a/x b/x\n")); err != nil {
		t.Fatal(err)
	}
	if err := artifact.WriteJSON(dir+"/report.json", report); err != nil {
		t.Fatal(err)
	}
	meta := struct {
		BugKind      string `json:"bug_kind"`
		SourceEntity string `json:"source_entity"`
		PatchHash    string `json:"patch_hash"`
	}{BugKind: bugKind, SourceEntity: "widgets.core.add", PatchHash: hash}
	if err := artifact.WriteJSON(dir+"/candidate_metadata.json", meta); err != nil {
		t.Fatal(err)
	}
}

func TestGatherAll_KeepsOnlyPromotedCandidates(t *testing.T) {
	logsDir := t.TempDir()
	p := testProfile()

	writeValidated(t, logsDir, p, "hash1", "procedural:negate-boolean", validate.Report{FailToPass: []string{"t_a"}, PassToPass: []string{"t_b"}})
	writeValidated(t, logsDir, p, "hash2", "procedural:invert-boundary", validate.Report{FailToPass: []string{"t_a"}}) // no P2P, rejected

	git := &fakeGit{branches: map[string]bool{}}
	mirrorClient := mirror.NewClient(git)
	worktrees := worktree.NewManager(git, "/repo", "/repo/worktrees")
	g := NewGatherer(git, mirrorClient, worktrees, fakeRunner{}, logsDir, t.TempDir())

	instances, err := g.GatherAll(p)
	if err != nil {
		t.Fatalf("GatherAll: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("got %d instances, want 1", len(instances))
	}
	if instances[0].InstanceID != "acme__widgets.abc1234d.procedural_negate-boolean__hash1" {
		t.Errorf("instance_id = %q", instances[0].InstanceID)
	}
	if instances[0].ImageName != p.ImageName() {
		t.Errorf("image_name = %q, want %q", instances[0].ImageName, p.ImageName())
	}
	if len(instances[0].FailToPass) != 1 || len(instances[0].PassToPass) != 1 {
		t.Errorf("unexpected F2P/P2P: %+v", instances[0])
	}

	var pushed bool
	for _, c := range git.calls {
		if strings.HasPrefix(c, "push -u origin") {
			pushed = true
		}
	}
	if !pushed {
		t.Error("expected a push for the promoted candidate")
	}
}

func TestGatherAll_NoPromotedCandidatesProducesNoInstances(t *testing.T) {
	logsDir := t.TempDir()
	p := testProfile()
	writeValidated(t, logsDir, p, "hash1", "procedural:negate-boolean", validate.Report{})

	git := &fakeGit{}
	g := NewGatherer(git, mirror.NewClient(git), worktree.NewManager(git, "/repo", "/repo/worktrees"), fakeRunner{}, logsDir, t.TempDir())

	instances, err := g.GatherAll(p)
	if err != nil {
		t.Fatalf("GatherAll: %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("got %d instances, want 0", len(instances))
	}
}

func TestGatherAll_IdempotentRerunSkipsPushWhenContentMatches(t *testing.T) {
	logsDir := t.TempDir()
	p := testProfile()
	writeValidated(t, logsDir, p, "hash1", "procedural:negate-boolean", validate.Report{FailToPass: []string{"t_a"}, PassToPass: []string{"t_b"}})

	instanceID := "acme__widgets.abc1234d.procedural_negate-boolean__hash1"
	git := &fakeGit{branches: map[string]bool{instanceID: true}}
	g := NewGatherer(git, mirror.NewClient(git), worktree.NewManager(git, "/repo", "/repo/worktrees"), fakeRunner{}, logsDir, t.TempDir())

	instances, err := g.GatherAll(p)
	if err != nil {
		t.Fatalf("GatherAll: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("got %d instances, want 1", len(instances))
	}
	for _, c := range git.calls {
		if strings.HasPrefix(c, "push -u origin") {
			t.Error("expected no push when remote branch already has matching content")
		}
	}
}

func TestGatherAll_EmptyLogsDirProducesNoInstances(t *testing.T) {
	git := &fakeGit{}
	g := NewGatherer(git, mirror.NewClient(git), worktree.NewManager(git, "/repo", "/repo/worktrees"), fakeRunner{}, t.TempDir(), t.TempDir())

	instances, err := g.GatherAll(testProfile())
	if err != nil {
		t.Fatalf("GatherAll: %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("got %d instances, want 0", len(instances))
	}
}

func TestMintInstanceID(t *testing.T) {
	p := testProfile()
	id := MintInstanceID(p, "lm_modify", "h4sh1234")
	want := "acme__widgets.abc1234d.lm_modify__h4sh1234"
	if id != want {
		t.Errorf("MintInstanceID = %q, want %q", id, want)
	}
}
