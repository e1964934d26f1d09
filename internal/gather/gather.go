package gather

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/mirror"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/validate"
	"github.com/swesmith-go/synthesis/internal/worktree"
)

// GitRunner provides the raw git commands gather needs beyond what
// internal/mirror exposes: staging and committing the applied patch
// before it can be pushed. Same shape as mirror.GitRunner, so
// *mirror.ExecGit can back both without a separate implementation.
type GitRunner interface {
	RunGit(dir string, args ...string) (string, error)
}

// Gatherer keeps validated candidates meeting the promotion threshold,
// mints their instance_id, and pushes one branch per kept instance onto
// the repo's mirror.
type Gatherer struct {
	git       GitRunner
	mirror    *mirror.Client
	worktrees *worktree.Manager
	runner    environment.CommandRunner
	logsDir   string
	locksDir  string
}

// NewGatherer creates a Gatherer. locksDir is where per-repo push locks
// are taken (spec.md §5 serialization requirement).
func NewGatherer(git GitRunner, m *mirror.Client, worktrees *worktree.Manager, runner environment.CommandRunner, logsDir, locksDir string) *Gatherer {
	return &Gatherer{git: git, mirror: m, worktrees: worktrees, runner: runner, logsDir: logsDir, locksDir: locksDir}
}

// GatherAll scans p's validation output, keeps every candidate with
// ≥1 FAIL_TO_PASS and ≥1 PASS_TO_PASS, and returns the instance record
// for each — after pushing its branch onto the mirror. Branch pushes for
// one repo are serialized via an advisory lock. The first candidate that
// fails (worktree, patch apply, commit, push, or a content mismatch on an
// existing branch) stops the batch, and GatherAll returns that error.
func (g *Gatherer) GatherAll(p *profile.Profile) ([]Instance, error) {
	candidates, err := scan(g.logsDir, p)
	if err != nil {
		return nil, fmt.Errorf("gather: scan: %w", err)
	}

	release, err := acquirePushLock(filepath.Join(g.locksDir, p.Key()))
	if err != nil {
		return nil, fmt.Errorf("gather: %w", err)
	}
	defer release()

	var instances []Instance
	for _, c := range candidates {
		if !c.report.Promoted() {
			continue
		}
		inst, err := g.gatherOne(p, c)
		if err != nil {
			return nil, fmt.Errorf("gather: candidate %s: %w", c.hash, err)
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

func (g *Gatherer) gatherOne(p *profile.Profile, c candidate) (Instance, error) {
	instanceID := MintInstanceID(p, c.bugKind, c.hash)

	wt, err := g.worktrees.CreateFromCommit(worktree.CreateOpts{Key: instanceID, BaseRef: p.Commit, Branch: instanceID})
	if err != nil {
		return Instance{}, fmt.Errorf("create worktree: %w", err)
	}

	exists, err := g.mirror.BranchExists(wt.Path, instanceID)
	if err != nil {
		return Instance{}, fmt.Errorf("check remote branch: %w", err)
	}

	applyOutcome, _, err := validate.ApplyPatch(context.Background(), g.runner, wt.Path, c.patch)
	if err != nil {
		return Instance{}, fmt.Errorf("apply patch: %w", err)
	}
	if applyOutcome != validate.ApplyOK {
		return Instance{}, fmt.Errorf("patch for %s no longer applies cleanly onto %s", instanceID, p.Commit)
	}

	if _, err := g.git.RunGit(wt.Path, "add", "-A"); err != nil {
		return Instance{}, fmt.Errorf("stage patch: %w", err)
	}
	if _, err := g.git.RunGit(wt.Path, "commit", "-m", fmt.Sprintf("bug: %s", c.bugKind)); err != nil {
		return Instance{}, fmt.Errorf("commit patch: %w", err)
	}

	if exists {
		if err := g.mirror.FetchBranch(wt.Path, instanceID); err != nil {
			return Instance{}, fmt.Errorf("fetch existing branch: %w", err)
		}
		localTree, err := g.mirror.TreeHash(wt.Path, "HEAD")
		if err != nil {
			return Instance{}, fmt.Errorf("local tree hash: %w", err)
		}
		remoteTree, err := g.mirror.TreeHash(wt.Path, "FETCH_HEAD")
		if err != nil {
			return Instance{}, fmt.Errorf("remote tree hash: %w", err)
		}
		if localTree != remoteTree {
			return Instance{}, fmt.Errorf("instance %s already exists on the mirror with different contents", instanceID)
		}
		// Idempotent re-run: branch already holds this exact content, no push needed.
	} else if err := g.mirror.PushBranch(wt.Path, instanceID); err != nil {
		return Instance{}, fmt.Errorf("push branch: %w", err)
	}

	return Instance{
		InstanceID: instanceID,
		Repo:       fmt.Sprintf("%s/%s", p.Owner, p.Repo),
		Patch:      c.patch,
		FailToPass: c.report.FailToPass,
		PassToPass: c.report.PassToPass,
		ImageName:  p.ImageName(),
	}, nil
}
