package distill

import (
	"context"
	"fmt"
	"time"

	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/testlog"
	"github.com/swesmith-go/synthesis/internal/validate"
)

// Resolver re-runs a trajectory's proposed patch against the instance's
// already-built image and classifies the outcome, mirroring
// get_eval_tests_report/get_eval_report's resolution rule: resolved iff
// every FAIL_TO_PASS test now passes and no PASS_TO_PASS test regresses.
type Resolver struct {
	Runner    environment.CommandRunner
	TestCmd   func(instance gather.Instance) string
	ParseLog  func(instance gather.Instance, raw string) (testlog.Report, error)
	Timeout   time.Duration
	MaxMemory func(instance gather.Instance) string
}

// Resolve applies t.ModelPatch over a fresh container started from
// instance.ImageName, re-runs the instance's test command, and reports
// whether the trajectory resolved the instance.
func (r *Resolver) Resolve(ctx context.Context, instance gather.Instance, t Trajectory) (bool, ResolutionCounts, error) {
	timeout := r.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	memory := ""
	if r.MaxMemory != nil {
		memory = r.MaxMemory(instance)
	}
	handle, err := validate.StartContainer(ctx, r.Runner, instance.ImageName, memory)
	if err != nil {
		return false, ResolutionCounts{}, fmt.Errorf("distill: start container for %s: %w", instance.InstanceID, err)
	}
	defer handle.Stop(ctx, r.Runner)
	exec := handle.Exec(r.Runner)

	applyOutcome, applyDetail, err := validate.ApplyPatch(ctx, exec, "/repo", t.ModelPatch)
	if err != nil {
		return false, ResolutionCounts{}, fmt.Errorf("distill: apply model patch for %s: %w", instance.InstanceID, err)
	}
	if applyOutcome != validate.ApplyOK {
		return false, allFailed(instance), fmt.Errorf("distill: model patch for %s did not apply: %s", instance.InstanceID, applyDetail)
	}

	stdout, stderr, exitCode, err := environment.RunTimeout(exec, "/repo", testlog.WrapTestCommand(r.TestCmd(instance)), timeout)
	if err != nil {
		return false, ResolutionCounts{}, fmt.Errorf("distill: run test suite for %s: %w", instance.InstanceID, err)
	}
	raw := stdout + stderr
	if exitCode == -1 {
		return false, allFailed(instance), nil
	}

	framed, err := testlog.ReadFramed(raw)
	if err != nil {
		return false, allFailed(instance), nil
	}
	report, err := r.ParseLog(instance, framed)
	if err != nil {
		return false, allFailed(instance), nil
	}

	resolved, counts := classifyResolution(instance, report)
	return resolved, counts, nil
}

// classifyResolution checks each of the instance's named FAIL_TO_PASS and
// PASS_TO_PASS tests against the freshly parsed report — not a differential
// classification against a second gold run, since the instance already
// records which tests are expected to flip and which must hold.
func classifyResolution(instance gather.Instance, report testlog.Report) (bool, ResolutionCounts) {
	var counts ResolutionCounts
	for _, name := range instance.FailToPass {
		if passed(report, name) {
			counts.F2PSuccess++
		} else {
			counts.F2PFailure++
		}
	}
	for _, name := range instance.PassToPass {
		if passed(report, name) {
			counts.P2PSuccess++
		} else {
			counts.P2PFailure++
		}
	}
	resolved := counts.F2PFailure == 0 && counts.P2PFailure == 0 && counts.F2PSuccess == len(instance.FailToPass)
	return resolved, counts
}

func passed(report testlog.Report, name string) bool {
	outcome, ok := report[name]
	if !ok {
		return false
	}
	return outcome.Normalize() == testlog.Pass
}

func allFailed(instance gather.Instance) ResolutionCounts {
	return ResolutionCounts{F2PFailure: len(instance.FailToPass), P2PFailure: len(instance.PassToPass)}
}
