package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/collector"
	"github.com/swesmith-go/synthesis/internal/db"
	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/testlog"
)

// Validator runs the gold-then-candidate differential test execution
// against a profile's container image, fanning candidates out across a
// worker pool.
type Validator struct {
	images  *environment.ImageBuilder
	runner  environment.CommandRunner
	gold    *GoldCache
	db      *db.DB // optional, nil disables validation-run logging
	logsDir string
	workers int
}

// NewValidator creates a Validator. logsDir is the root instance-artifact
// directory (logs/run_validation/<repo>/<instance>/...). Each run's
// container memory limit and per-test timeout come from the profile passed
// to runGold/ValidateCandidate, not from the Validator itself.
func NewValidator(images *environment.ImageBuilder, runner environment.CommandRunner, database *db.DB, logsDir string, workers int) *Validator {
	return &Validator{
		images:  images,
		runner:  runner,
		gold:    NewGoldCache(),
		db:      database,
		logsDir: logsDir,
		workers: workers,
	}
}

// runGold runs the unpatched test suite once inside a fresh container and
// parses it into a test report.
func (v *Validator) runGold(ctx context.Context, p *profile.Profile, tag string) (testlog.Report, string, error) {
	handle, err := StartContainer(ctx, v.runner, tag, p.MaxMemory)
	if err != nil {
		return nil, "", err
	}
	defer handle.Stop(ctx, v.runner)

	exec := handle.Exec(v.runner)
	stdout, stderr, _, err := environment.RunTimeout(exec, containerWorkdir, testlog.WrapTestCommand(p.EffectiveTestCmd()), p.PerTestTimeoutDuration())
	if err != nil {
		return nil, "", fmt.Errorf("validate: run gold suite: %w", err)
	}

	raw := stdout + stderr
	framed, err := testlog.ReadFramed(raw)
	if err != nil {
		return nil, raw, fmt.Errorf("validate: gold suite produced no test output: %w", err)
	}
	r, err := p.ParseLog(framed)
	if err != nil {
		return nil, raw, fmt.Errorf("validate: parse gold log: %w", err)
	}
	return r, raw, nil
}

// ValidateCandidate runs the full per-candidate pipeline: start a fresh
// container, apply the patch, run the test suite, classify against the
// cached gold report, and persist the instance artifacts.
func (v *Validator) ValidateCandidate(ctx context.Context, p *profile.Profile, entry collector.Entry) (InstanceResult, error) {
	start := time.Now()
	runInstance := uuid.NewString()

	tag, err := v.images.Build(ctx, p)
	if err != nil {
		return InstanceResult{}, fmt.Errorf("validate: build image: %w", err)
	}

	goldReport, err := v.gold.Get(tag, func() (testlog.Report, error) {
		r, _, err := v.runGold(ctx, p, tag)
		return r, err
	})
	if err != nil {
		return InstanceResult{}, fmt.Errorf("validate: gold run: %w", err)
	}

	handle, err := StartContainer(ctx, v.runner, tag, p.MaxMemory)
	if err != nil {
		return InstanceResult{}, err
	}
	defer handle.Stop(ctx, v.runner)
	exec := handle.Exec(v.runner)

	applyOutcome, applyDetail, err := ApplyPatch(ctx, exec, containerWorkdir, entry.Patch)
	if err != nil {
		return InstanceResult{}, fmt.Errorf("validate: apply patch %s: %w", entry.Hash, err)
	}

	result := InstanceResult{PatchHash: entry.Hash, RunInstance: runInstance, ApplyResult: applyOutcome}
	if applyOutcome != ApplyOK {
		result.TestOutput = applyDetail
		v.persist(p, entry, result)
		v.logRun(p, entry, result, start)
		return result, nil
	}

	stdout, stderr, exitCode, err := environment.RunTimeout(exec, containerWorkdir, testlog.WrapTestCommand(p.EffectiveTestCmd()), p.PerTestTimeoutDuration())
	if err != nil {
		return InstanceResult{}, fmt.Errorf("validate: run candidate suite: %w", err)
	}
	raw := stdout + stderr
	result.TestOutput = raw
	if exitCode == -1 {
		result.ApplyResult = ApplyTimeout
		v.persist(p, entry, result)
		v.logRun(p, entry, result, start)
		return result, nil
	}

	var candidateReport testlog.Report
	if framed, err := testlog.ReadFramed(raw); err == nil {
		candidateReport, err = p.ParseLog(framed)
		if err != nil {
			candidateReport = testlog.Report{}
		}
	} else {
		// unparseable output: no test signal, every test is ignored.
		candidateReport = testlog.Report{}
	}

	result.Report = Classify(goldReport, candidateReport)
	result.DurationMs = time.Since(start).Milliseconds()

	v.persist(p, entry, result)
	v.logRun(p, entry, result, start)
	return result, nil
}

// ValidateAll fans entries out across v.workers concurrent candidates,
// sharing one gold run per image. A candidate's own error does not cancel
// siblings; validation failures surface as apply_failed/timed_out results,
// never as a fatal error for the whole batch.
func (v *Validator) ValidateAll(ctx context.Context, p *profile.Profile, entries []collector.Entry) ([]InstanceResult, error) {
	results := make([]InstanceResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	if v.workers > 0 {
		g.SetLimit(v.workers)
	}

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			r, err := v.ValidateCandidate(gctx, p, entry)
			if err != nil {
				r = InstanceResult{PatchHash: entry.Hash, ApplyResult: ApplyFailed, TestOutput: err.Error()}
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (v *Validator) logRun(p *profile.Profile, entry collector.Entry, result InstanceResult, start time.Time) {
	if v.db == nil {
		return
	}
	durationMs := int(time.Since(start).Milliseconds())
	summary := fmt.Sprintf("F2P=%d P2P=%d", len(result.Report.FailToPass), len(result.Report.PassToPass))
	runID, err := v.db.LogValidationRun(p.Key(), entry.Hash, "", string(result.ApplyResult), durationMs, summary)
	if err != nil {
		return
	}
	for _, name := range result.Report.FailToPass {
		v.db.LogTestResult(runID, name, "fail", "pass", string(ClassFailToPass))
	}
	for _, name := range result.Report.PassToPass {
		v.db.LogTestResult(runID, name, "pass", "pass", string(ClassPassToPass))
	}
	for _, name := range result.Report.FailToFail {
		v.db.LogTestResult(runID, name, "fail", "fail", string(ClassFailToFail))
	}
	for _, name := range result.Report.PassToFail {
		v.db.LogTestResult(runID, name, "pass", "fail", string(ClassPassToFail))
	}
}

func (v *Validator) persist(p *profile.Profile, entry collector.Entry, result InstanceResult) {
	dir := fmt.Sprintf("%s/%s/%s", v.logsDir, p.Key(), entry.Hash)
	artifact.WriteAtomic(dir+"/patch.diff", []byte(entry.Patch))
	artifact.WriteAtomic(dir+"/test_output.txt", []byte(result.TestOutput))
	artifact.WriteJSON(dir+"/report.json", result.Report)
	artifact.WriteAtomic(dir+"/eval.sh", []byte(p.EffectiveTestCmd()+"\n"))
	artifact.WriteAtomic(dir+"/run_instance.log", []byte(fmt.Sprintf("run_instance=%s apply=%s\n%s", result.RunInstance, result.ApplyResult, result.TestOutput)))
	// bug_kind/source_entity are needed again by the Gatherer to mint this
	// candidate's instance_id without re-threading collector.Entry through
	// a disk-resumed run.
	artifact.WriteJSON(dir+"/candidate_metadata.json", candidateMetadata{BugKind: entry.BugKind, SourceEntity: entry.SourceEntity, PatchHash: entry.Hash})
}

// candidateMetadata is the minimal per-candidate identity a resumed
// Gatherer run needs, persisted alongside the report so it can rescan
// logs/run_validation/<repo>/ without holding collector.Entry in memory.
type candidateMetadata struct {
	BugKind      string `json:"bug_kind"`
	SourceEntity string `json:"source_entity"`
	PatchHash    string `json:"patch_hash"`
}
