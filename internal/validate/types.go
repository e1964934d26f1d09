// Package validate runs the two-phase differential test execution that
// turns a candidate patch into a classified test report: once against
// the gold tree to establish a baseline, then once per candidate to see
// which tests the patch broke or left alone.
package validate

// Classification names why a test matters (or doesn't) for a candidate.
type Classification string

const (
	ClassFailToPass Classification = "FAIL_TO_PASS" // F2P: the bug breaks a previously-passing test
	ClassPassToPass Classification = "PASS_TO_PASS"  // P2P: regression witness, stays passing
	ClassFailToFail Classification = "FAIL_TO_FAIL"  // diagnostic only, never promotes
	ClassPassToFail Classification = "PASS_TO_FAIL"  // diagnostic only, never promotes
	ClassIgnored    Classification = "IGNORED"
)

// ApplyOutcome names how patch application went.
type ApplyOutcome string

const (
	ApplyOK      ApplyOutcome = "ok"
	ApplyFailed  ApplyOutcome = "apply_failed"
	ApplyTimeout ApplyOutcome = "timed_out"
)

// Report is the classification of every test that appeared in either the
// gold or the candidate run.
type Report struct {
	FailToPass []string `json:"FAIL_TO_PASS"`
	PassToPass []string `json:"PASS_TO_PASS"`
	FailToFail []string `json:"FAIL_TO_FAIL,omitempty"`
	PassToFail []string `json:"PASS_TO_FAIL,omitempty"`
}

// Promoted reports whether this candidate qualifies as a kept instance:
// it broke at least one previously-passing test and left at least one
// other passing test still passing.
func (r Report) Promoted() bool {
	return len(r.FailToPass) >= 1 && len(r.PassToPass) >= 1
}

// InstanceResult is everything produced by validating one candidate patch.
type InstanceResult struct {
	PatchHash   string
	RunInstance string // unique ID for this validation attempt, for run_instance.log correlation
	ApplyResult ApplyOutcome
	Report      Report
	GoldOutput  string
	TestOutput  string
	DurationMs  int64
}
