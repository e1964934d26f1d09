// Package gather implements the Instance Gatherer: it scans a repo's
// validation output, keeps every candidate that broke at least one test
// and preserved at least one passing one, mints a stable instance_id for
// each, and pushes a branch per kept instance onto the repo's mirror.
package gather

import "github.com/swesmith-go/synthesis/internal/validate"

// Instance is the canonical task-instance record (spec.md §3), minus
// problem_statement — the Issue Generator fills that field in later.
type Instance struct {
	InstanceID       string   `json:"instance_id"`
	Repo             string   `json:"repo"`
	Patch            string   `json:"patch"`
	ProblemStatement string   `json:"problem_statement"`
	FailToPass       []string `json:"FAIL_TO_PASS"`
	PassToPass       []string `json:"PASS_TO_PASS"`
	ImageName        string   `json:"image_name"`
}

// candidate is one validated patch read back off disk, reassembled from
// its persisted artifacts.
type candidate struct {
	hash         string
	bugKind      string
	sourceEntity string
	patch        string
	report       validate.Report
}
