package config

import "fmt"

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var recognizedBugGenMethods = map[string]bool{
	"procedural": true, "llm-modify": true, "llm-rewrite": true, "all": true,
}

var recognizedIssueModes = map[string]bool{
	"llm": true, "static": true, "tests": true, "pr": true, "skip": true,
}

var recognizedOwnerTypes = map[string]bool{
	"user": true, "org": true,
}

// Validate checks a RunConfig for structural and semantic errors. It returns
// every violation found (empty if valid) rather than failing on the first.
func Validate(cfg *RunConfig) []ValidationError {
	var errs []ValidationError
	r := cfg.Run

	if r.ProfilePath == "" {
		errs = append(errs, ValidationError{Field: "run.profile", Message: "is required"})
	}
	if r.MaxBugs < 0 {
		errs = append(errs, ValidationError{Field: "run.max_bugs", Message: "must be >= 0"})
	}
	if r.Workers < 1 {
		errs = append(errs, ValidationError{Field: "run.workers", Message: "must be >= 1"})
	}
	if r.IssueWorkers < 1 {
		errs = append(errs, ValidationError{Field: "run.issue_workers", Message: "must be >= 1"})
	}
	if !recognizedBugGenMethods[r.BugGenMethod] {
		errs = append(errs, ValidationError{
			Field:   "run.bug_gen_method",
			Message: fmt.Sprintf("unrecognized method %q", r.BugGenMethod),
		})
	}
	if !recognizedIssueModes[r.IssueMode] {
		errs = append(errs, ValidationError{
			Field:   "run.issue_mode",
			Message: fmt.Sprintf("unrecognized issue mode %q", r.IssueMode),
		})
	}
	if !recognizedOwnerTypes[r.GHOwnerType] {
		errs = append(errs, ValidationError{
			Field:   "run.gh_owner_type",
			Message: fmt.Sprintf("unrecognized owner type %q", r.GHOwnerType),
		})
	}
	if r.IssueMode == "llm" && r.LLMModel == "" {
		errs = append(errs, ValidationError{
			Field:   "run.llm_model",
			Message: "is required when issue_mode is \"llm\"",
		})
	}

	return errs
}
