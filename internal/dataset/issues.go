package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/issuegen"
)

// legacyIssuePath is the pre-rename location issue texts could land at
// before this repo settled on logs/issue_gen/ as canonical (spec.md §6
// filesystem layout lists logs/task_insts/<repo>.json).
func legacyIssuePath(logsDir, repo string) string {
	return filepath.Join(logsDir, "task_insts", repo+"__issues.json")
}

func canonicalIssuePath(logsDir, repo, exp string) string {
	return filepath.Join(logsDir, "issue_gen", fmt.Sprintf("%s__%s_n1.json", repo, exp))
}

// LoadIssues reads the canonical issue_gen output for repo/exp and, if a
// legacy logs/task_insts/<repo>__issues.json also exists, merges in any
// record it holds whose instance_id isn't already covered — rehoming it
// onto the canonical file and logging that it fired, per SPEC_FULL.md's
// Open Questions decision ("do not guess — document the rehoming rule and
// log when it fires"). Returns instance_id -> problem_statement.
func LoadIssues(logsDir, repo, exp string, logf Logf) (map[string]string, error) {
	byID := map[string]string{}

	canonicalPath := canonicalIssuePath(logsDir, repo, exp)
	var canonical []issuegen.Record
	if err := artifact.ReadJSON(canonicalPath, &canonical); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("dataset: read %s: %w", canonicalPath, err)
		}
	}
	for _, r := range canonical {
		byID[r.InstanceID] = r.ProblemStatement
	}

	legacyPath := legacyIssuePath(logsDir, repo)
	var legacy []issuegen.Record
	if err := artifact.ReadJSON(legacyPath, &legacy); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("dataset: read legacy %s: %w", legacyPath, err)
		}
		return byID, nil
	}

	rehomed := false
	for _, r := range legacy {
		if _, ok := byID[r.InstanceID]; ok {
			continue
		}
		byID[r.InstanceID] = r.ProblemStatement
		canonical = append(canonical, r)
		rehomed = true
		if logf != nil {
			logf("dataset: rehomed issue record %s from legacy path %s to canonical %s", r.InstanceID, legacyPath, canonicalPath)
		}
	}
	if rehomed {
		if err := artifact.WriteJSON(canonicalPath, canonical); err != nil {
			return nil, fmt.Errorf("dataset: write rehomed canonical %s: %w", canonicalPath, err)
		}
	}
	return byID, nil
}
