package dataset

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/issuegen"
)

// Assembler joins gathered instances with generated issue texts and writes
// the final per-repo dataset.
type Assembler struct {
	LogsDir   string
	Repo      string // short name, e.g. "widgets"
	Exp       string
	IssueMode issuegen.Mode
	Logf      Logf
}

func outPath(logsDir, repo string) string {
	return filepath.Join(logsDir, "agent_datasets", repo+"_final.json")
}

// Assemble joins instances with issue texts on instance_id, validates the
// canonical schema, and writes logs/agent_datasets/<repo>_final.json.
//
// Any instance without a problem_statement fails the whole run unless
// IssueMode is issuegen.ModeSkip, matching spec.md §4.9's "fail loudly"
// requirement.
func (a *Assembler) Assemble(instances []gather.Instance) ([]Record, error) {
	issues, err := LoadIssues(a.LogsDir, a.Repo, a.Exp, a.Logf)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(instances))
	var missing []string
	for _, inst := range instances {
		rec := inst
		if ps, ok := issues[inst.InstanceID]; ok {
			rec.ProblemStatement = ps
		}
		if rec.ProblemStatement == "" && a.IssueMode != issuegen.ModeSkip {
			missing = append(missing, inst.InstanceID)
			continue
		}
		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("dataset: %s: %w", inst.InstanceID, err)
		}
		records = append(records, rec)
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("dataset: %d instance(s) missing problem_statement (issue-mode=%s): %v", len(missing), a.IssueMode, missing)
	}

	path := outPath(a.LogsDir, a.Repo)
	if err := artifact.WriteJSON(path, records); err != nil {
		return nil, fmt.Errorf("dataset: write %s: %w", path, err)
	}
	if a.Logf != nil {
		a.Logf("dataset: wrote %d record(s) to %s", len(records), path)
	}
	return records, nil
}

// validateRecord checks the canonical seven-field schema (spec.md §3):
// instance_id, repo, patch, FAIL_TO_PASS, and image_name must all be
// present (problem_statement is validated separately by the caller, since
// skip mode legitimately leaves it empty; PASS_TO_PASS may legitimately be
// empty for an instance with no pre-existing passing tests).
func validateRecord(rec Record) error {
	switch {
	case rec.InstanceID == "":
		return fmt.Errorf("missing instance_id")
	case rec.Repo == "":
		return fmt.Errorf("missing repo")
	case rec.Patch == "":
		return fmt.Errorf("missing patch")
	case rec.ImageName == "":
		return fmt.Errorf("missing image_name")
	case len(rec.FailToPass) == 0:
		return fmt.Errorf("missing fail_to_pass")
	}
	return nil
}
