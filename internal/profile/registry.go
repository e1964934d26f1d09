package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/swesmith-go/synthesis/internal/testlog"
)

// DefaultPerTestTimeout bounds a test-suite run when a Profile leaves
// PerTestTimeout unset.
const DefaultPerTestTimeout = 10 * time.Minute

// Key identifies a Profile's registry entry.
func (p *Profile) Key() string {
	return fmt.Sprintf("%s/%s@%s", p.Owner, p.Repo, p.Commit)
}

// ContainerRecipe returns the build instructions for this repo's image.
func (p *Profile) ContainerRecipe() ImageRecipe {
	return p.Image
}

// Language returns the profile's declared source language.
func (p *Profile) Language() string {
	return p.Lang
}

// SourceGlobs returns the glob patterns identifying source files eligible
// for entity extraction and bug injection.
func (p *Profile) SourceGlobs() []string {
	return p.SourceGlob
}

// ExcludeGlobs returns the glob patterns to subtract from SourceGlobs.
func (p *Profile) ExcludeGlobs() []string {
	return p.ExcludeGlob
}

// CommitShort returns the short form of Commit used in generated names.
func (p *Profile) CommitShort() string {
	if len(p.Commit) <= 8 {
		return p.Commit
	}
	return p.Commit[:8]
}

// MirrorName is the deterministic name of this repo's mirror under the
// registry's GitHub owner: <gh_org>/<owner>__<repo>.<commit_short>.
func (p *Profile) MirrorName() string {
	return fmt.Sprintf("%s/%s__%s.%s", p.GHOrg, p.Owner, p.Repo, p.CommitShort())
}

// ImageName is the deterministic name of this repo's container image:
// <dh_org>/swesmith.<arch>.<owner>_1776_<repo>.<commit_short>. The literal
// token 1776 separates owner from repo without colliding with repo names
// that themselves contain underscores.
func (p *Profile) ImageName() string {
	return fmt.Sprintf("%s/swesmith.%s.%s_1776_%s.%s", p.DHOrg, p.Arch, p.Owner, p.Repo, p.CommitShort())
}

// nonTestSteps lists binaries/invocations that chained test commands
// frequently bundle alongside the actual test run, but that would poison a
// test-differential signal if included: lint, type-check, and doc-build
// steps that have nothing to do with pass/fail test outcomes.
var nonTestSteps = []string{"tsc", "dtslint", "prettier", "eslint", "flake8", "mypy", "black", "isort", "golangci-lint"}

// EffectiveTestCmd strips non-test segments from a shell `&&`-chained test
// command, keeping only the segment(s) that actually invoke the test
// runner. A profile's raw test_cmd is authored to invoke the runner
// directly wherever possible; this exists for repos inherited with a
// bundled command that predates that authoring rule.
func (p *Profile) EffectiveTestCmd() string {
	segments := strings.Split(p.TestCmd, "&&")
	var kept []string
	for _, seg := range segments {
		trimmed := strings.TrimSpace(seg)
		if trimmed == "" {
			continue
		}
		if isNonTestStep(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, " && ")
}

func isNonTestStep(segment string) bool {
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return false
	}
	invocation := fields[0]
	for _, step := range nonTestSteps {
		if invocation == step || strings.HasSuffix(invocation, "/"+step) {
			return true
		}
	}
	return false
}

// ParseLog parses raw test-suite output into a {test_name: outcome} map
// using the parser this profile's repo requires.
func (p *Profile) ParseLog(text string) (testlog.Report, error) {
	return testlog.New(p.ParserKind).Parse(text)
}

// PerTestTimeoutDuration parses PerTestTimeout, falling back to
// DefaultPerTestTimeout when it is unset or malformed.
func (p *Profile) PerTestTimeoutDuration() time.Duration {
	if p.PerTestTimeout == "" {
		return DefaultPerTestTimeout
	}
	d, err := time.ParseDuration(p.PerTestTimeout)
	if err != nil {
		return DefaultPerTestTimeout
	}
	return d
}
