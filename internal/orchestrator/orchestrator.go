// Package orchestrator chains the ten synthesis stages (profile through
// dataset, with an optional trailing distill pass) into one run, tracked
// via internal/artifact.RunStore. Unlike a human-review pipeline, there
// are no goal gates or on_fail routing to a different stage: a stage
// failure simply marks the run failed and stops.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/buggen"
	"github.com/swesmith-go/synthesis/internal/collector"
	"github.com/swesmith-go/synthesis/internal/config"
	"github.com/swesmith-go/synthesis/internal/dataset"
	"github.com/swesmith-go/synthesis/internal/db"
	"github.com/swesmith-go/synthesis/internal/distill"
	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/issuegen"
	"github.com/swesmith-go/synthesis/internal/mirror"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/testlog"
	"github.com/swesmith-go/synthesis/internal/validate"
	"github.com/swesmith-go/synthesis/internal/worktree"
)

// Logf is the ambient progress callback, matching the rest of the pipeline.
type Logf func(format string, args ...any)

// Orchestrator composes the stage implementations and a RunStore to drive
// one profile through the full synthesis pipeline.
type Orchestrator struct {
	Store     *artifact.RunStore
	DB        *db.DB // optional, nil disables event logging
	Images    *environment.ImageBuilder
	Runner    environment.CommandRunner
	WTGit     worktree.GitRunner
	Worktrees *worktree.Manager
	Mirror    *mirror.Client
	GoGit     gather.GitRunner
	LLM       buggen.Completer // satisfies both buggen.Completer and issuegen.Completer
	LogsDir   string
	LocksDir  string
	WorkDir   string // scratch root for mirror clones and scan worktrees
	Logf      Logf
}

// Run drives profile p through every stage per cfg, creating a fresh run
// record under runID. trajectoriesPath is optional: when empty, the
// distill stage is recorded as skipped rather than run, since it needs
// trajectories an external agent produced against this run's instances.
func (o *Orchestrator) Run(ctx context.Context, runID string, p *profile.Profile, cfg config.Run, trajectoriesPath string) (*artifact.RunState, error) {
	if _, err := o.Store.Create(runID, p.Key(), artifact.StageProfile); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	o.event(p, runID, "created", artifact.StageProfile, nil)

	if err := o.advance(runID, artifact.StageProfile, artifact.StageEntities, func() error {
		return nil // profile is already loaded by the caller; this stage exists for state-tracking symmetry
	}); err != nil {
		return o.fail(runID, err)
	}

	mirrorDir, err := environment.EnsureMirror(o.WTGit, o.WorkDir, p)
	if err != nil {
		return o.fail(runID, fmt.Errorf("mirror: %w", err))
	}
	scopedWT := o.Worktrees.WithRepoDir(mirrorDir)

	repoDir, err := o.checkout(scopedWT, p)
	if err != nil {
		return o.fail(runID, fmt.Errorf("checkout: %w", err))
	}
	if err := o.advance(runID, artifact.StageEntities, artifact.StageBuildEnv, func() error { return nil }); err != nil {
		return o.fail(runID, err)
	}

	// The build-env stage pre-builds and caches the image so a failure here
	// is attributed to StageBuildEnv rather than surfacing later as a
	// validate failure. validate.Validator.ValidateCandidate builds again
	// per candidate, but ImageBuilder.Build is idempotent (it checks
	// docker image inspect against DigestTag before rebuilding), so the
	// repeat call is a cache hit, not a rebuild. skip-build assumes the
	// image already exists and bypasses this stage's explicit build.
	if err := o.advance(runID, artifact.StageBuildEnv, artifact.StageBugGen, func() error {
		if cfg.SkipBuild {
			o.logf("orchestrator: skip-build set, assuming image %s exists", environment.DigestTag(p))
			return nil
		}
		tag, err := o.Images.Build(ctx, p)
		if err != nil {
			return err
		}
		o.logf("orchestrator: built image %s for %s", tag, p.Key())
		return nil
	}); err != nil {
		return o.fail(runID, err)
	}

	var bugsWritten int
	if err := o.advance(runID, artifact.StageBugGen, artifact.StageCollect, func() error {
		methods, err := buggen.MethodsFor(cfg.BugGenMethod)
		if err != nil {
			return err
		}
		driver := &buggen.Driver{
			Profile: p,
			RepoDir: repoDir,
			LogsDir: o.LogsDir,
			MaxBugs: cfg.MaxBugs,
			Methods: methods,
			Client:  o.LLM,
			Workdir: cfg.WorkspaceRoot,
			Workers: cfg.Workers,
			Logf:    buggen.Logf(o.Logf),
		}
		n, err := driver.Run(ctx)
		bugsWritten = n
		return err
	}); err != nil {
		return o.fail(runID, err)
	}
	o.logf("orchestrator: bug-gen wrote %d candidate(s) for %s", bugsWritten, p.Key())

	var manifest *collector.Manifest
	if err := o.advance(runID, artifact.StageCollect, artifact.StageValidate, func() error {
		m, err := collector.Collect(o.LogsDir, p.Key())
		manifest = m
		return err
	}); err != nil {
		return o.fail(runID, err)
	}

	validator := validate.NewValidator(o.Images, o.Runner, o.DB, filepath.Join(o.LogsDir, "run_validation"), cfg.Workers)
	if err := o.advance(runID, artifact.StageValidate, artifact.StageGather, func() error {
		_, err := validator.ValidateAll(ctx, p, manifest.Entries)
		return err
	}); err != nil {
		return o.fail(runID, err)
	}

	gatherer := gather.NewGatherer(o.GoGit, o.Mirror, scopedWT, o.Runner, filepath.Join(o.LogsDir, "run_validation"), o.LocksDir)
	var instances []gather.Instance
	if err := o.advance(runID, artifact.StageGather, artifact.StageIssueGen, func() error {
		insts, err := gatherer.GatherAll(p)
		instances = insts
		return err
	}); err != nil {
		return o.fail(runID, err)
	}
	o.logf("orchestrator: gathered %d instance(s) for %s", len(instances), p.Key())

	mode := issuegen.Mode(cfg.IssueMode)
	if mode == "" {
		mode = issuegen.ModeLLM
	}
	exp := issueExp(cfg.IssueConfig, mode)
	issueGen := &issuegen.Generator{
		Mode:        mode,
		LLMClient:   o.LLM,
		TemplateDir: cfg.WorkspaceRoot,
		BugGenDir:   o.LogsDir,
		Logf:        issuegen.Logf(o.Logf),
	}
	if err := o.advance(runID, artifact.StageIssueGen, artifact.StageDataset, func() error {
		inputs := make([]issuegen.Input, len(instances))
		for i, inst := range instances {
			inputs[i] = issuegen.Input{Instance: inst, Language: p.Language()}
		}
		_, err := issueGen.GenerateAll(ctx, o.LogsDir, p.Repo, exp, inputs)
		return err
	}); err != nil {
		return o.fail(runID, err)
	}

	assembler := &dataset.Assembler{LogsDir: o.LogsDir, Repo: p.Repo, Exp: exp, IssueMode: mode, Logf: dataset.Logf(o.Logf)}
	var records []dataset.Record
	if err := o.advance(runID, artifact.StageDataset, artifact.StageDistill, func() error {
		recs, err := assembler.Assemble(instances)
		records = recs
		return err
	}); err != nil {
		return o.fail(runID, err)
	}

	if trajectoriesPath == "" {
		if err := o.Store.AdvanceStage(runID, artifact.StageDistill, "completed", "no trajectories provided, distill skipped", ""); err != nil {
			return nil, err
		}
	} else {
		if err := o.advance(runID, artifact.StageDistill, "", func() error {
			return o.runDistill(ctx, p, records, trajectoriesPath)
		}); err != nil {
			return o.fail(runID, err)
		}
	}

	return o.Store.Get(runID)
}

func (o *Orchestrator) runDistill(ctx context.Context, p *profile.Profile, records []dataset.Record, trajectoriesPath string) error {
	var trajectories []distill.Trajectory
	if err := artifact.ReadJSON(trajectoriesPath, &trajectories); err != nil {
		return fmt.Errorf("read trajectories %s: %w", trajectoriesPath, err)
	}

	instances := make(map[string]gather.Instance, len(records))
	for _, r := range records {
		instances[r.InstanceID] = gather.Instance(r)
	}

	distiller := &distill.Distiller{
		Resolver: &distill.Resolver{
			Runner:    o.Runner,
			TestCmd:   func(gather.Instance) string { return p.EffectiveTestCmd() },
			ParseLog:  func(_ gather.Instance, raw string) (testlog.Report, error) { return p.ParseLog(raw) },
			Timeout:   p.PerTestTimeoutDuration(),
			MaxMemory: func(gather.Instance) string { return p.MaxMemory },
		},
		Dialect: distill.DialectFunctionCall,
		Logf:    distill.Logf(o.Logf),
	}

	_, summary, err := distiller.DistillAll(ctx, o.LogsDir, p.Repo, instances, trajectories)
	if err != nil {
		return err
	}
	o.logf("orchestrator: distilled %d trajectory record(s) for %s", summary.Count, p.Key())
	return nil
}

// checkout creates a pinned-commit worktree off wt (already scoped to p's
// mirror clone) for the bug-gen driver to scan, and returns its path.
func (o *Orchestrator) checkout(wt *worktree.Manager, p *profile.Profile) (string, error) {
	result, err := wt.CreateFromCommit(worktree.CreateOpts{Key: p.Key() + "-scan", BaseRef: p.Commit})
	if err != nil {
		return "", err
	}
	return result.Path, nil
}

// advance runs fn under from, recording success as a transition to next
// (or "completed" if next is "") and failure as a failed transition that
// stops the run.
func (o *Orchestrator) advance(runID string, from, next artifact.Stage, fn func() error) error {
	if err := fn(); err != nil {
		_ = o.Store.AdvanceStage(runID, from, "failed", err.Error(), "")
		return err
	}
	return o.Store.AdvanceStage(runID, from, "completed", "", next)
}

func (o *Orchestrator) fail(runID string, err error) (*artifact.RunState, error) {
	rs, getErr := o.Store.Get(runID)
	if getErr != nil {
		return nil, err
	}
	return rs, err
}

func (o *Orchestrator) event(p *profile.Profile, runID, event string, stage artifact.Stage, exitCode *int) {
	if o.DB == nil {
		return
	}
	_ = o.DB.LogStageEvent(p.Key(), runID, string(stage), event, exitCode, "")
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// issueExp names the issue-generation run for logs/issue_gen's
// <repo>__<exp>_n1.json path: the issue-config file's basename without
// extension when one is given, the mode name otherwise.
func issueExp(issueConfigPath string, mode issuegen.Mode) string {
	if issueConfigPath == "" {
		return string(mode)
	}
	base := filepath.Base(issueConfigPath)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
