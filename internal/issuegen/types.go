// Package issuegen implements the Issue Generator: given a kept task
// instance (its diff, FAIL_TO_PASS tests, and repo context), it produces a
// natural-language problem statement that does not reveal the fix.
//
// Five modes are supported, selected per run: llm (default, asks a model to
// write the issue), static (diff/bug-kind-derived template, no model call),
// tests (test-output/test-source-derived template), pr (recovers the
// original upstream PR description when one was cached by the bug
// generator that produced this instance), and skip (no problem_statement
// is attached; the Dataset Assembler must be told to tolerate that).
package issuegen

import "github.com/swesmith-go/synthesis/internal/gather"

// Mode selects how a problem statement is produced for an instance.
type Mode string

const (
	ModeLLM    Mode = "llm"
	ModeStatic Mode = "static"
	ModeTests  Mode = "tests"
	ModePR     Mode = "pr"
	ModeSkip   Mode = "skip"
)

// Record is the issue-generation output for one instance: exactly the two
// fields the Dataset Assembler joins back onto the instance record.
type Record struct {
	InstanceID       string `json:"instance_id"`
	ProblemStatement string `json:"problem_statement"`
}

// Logf is the ambient progress/diagnostic callback threaded through
// long-running operations, matched to the rest of the pipeline's idiom
// rather than a structured-logging library.
type Logf func(format string, args ...any)

// Input bundles what a mode needs to produce one instance's problem
// statement: the canonical instance fields plus the checkout it was
// validated against, so a mode can read test source or test output off
// disk without re-deriving paths itself.
type Input struct {
	Instance     gather.Instance
	BugKind      string // e.g. "procedural:negate-boolean", "lm_modify"
	WorktreePath string // checkout with the candidate patch already applied
	Language     string // profile.Language(), drives test-source extraction
	TestOutput   string // raw captured test output for this instance, if available
}
