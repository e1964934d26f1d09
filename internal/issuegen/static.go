package issuegen

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/swesmith-go/synthesis/internal/diffutil"
)

// variantHints gives a one-line, spoiler-free gloss for each procedural
// mutator's variant name, for the templates below that mention the bug
// type without naming the exact transformation. Unlisted variants (and
// lm_modify/lm_rewrite) fall back to the empty string.
var variantHints = map[string]string{
	"negate-boolean":   "possibly a condition evaluated backwards. ",
	"invert-boundary":  "possibly an off-by-one at a boundary check. ",
	"off-by-one":       "possibly a loop running one iteration too many or too few. ",
	"drop-conditional": "possibly a missing guard clause. ",
	"drop-return":      "possibly a value silently discarded. ",
	"swap-siblings":     "possibly two operations happening in the wrong order. ",
	"shuffle-branches":  "possibly control flow taking the wrong branch. ",
}

// staticTemplate is one entry in the weighted pool of says-little prompts
// used by GenerateStatic, mirroring the variety of a human filer who knows
// only that something is broken, or at most which files/tests are involved.
type staticTemplate struct {
	weight int
	render func(vars staticVars) string
}

type staticVars struct {
	hint      string
	files     []string
	f2p       []string
	f2pSingle string
}

var staticPool = []staticTemplate{
	{5, func(v staticVars) string {
		return "There is a bug in this codebase. Please look into it and resolve the issue."
	}},
	{10, func(v staticVars) string {
		return fmt.Sprintf("There are bug(s) in this codebase, likely located in the following file(s):\n%s\n\nPlease look into them and fix any bugs that you find.", printList(v.files))
	}},
	{10, func(v staticVars) string {
		return "Several tests in the codebase are breaking. Please find the bugs and fix them."
	}},
	{10, func(v staticVars) string {
		return fmt.Sprintf("Several tests in the codebase are breaking.\n\nThe tests that are failing are:\n%s\n\nPlease fix the codebase such that the tests pass.", printList(v.f2p))
	}},
	{5, func(v staticVars) string {
		return fmt.Sprintf("There is a bug in this codebase. %sPlease look into it and resolve the issue.", v.hint)
	}},
	{15, func(v staticVars) string {
		return fmt.Sprintf("There is a bug in this codebase. %sIt seems to be related to the following files:\n%s\n\nPlease look into these files and resolve the issue.", v.hint, printList(v.files))
	}},
	{15, func(v staticVars) string {
		return fmt.Sprintf("There is a bug in this codebase. %sIt seems to be related to the following files:\n%s\n\nPlease look into these files and resolve the issue. I believe a test case is also failing because of this bug:\n%s", v.hint, printList(v.files), v.f2pSingle)
	}},
}

func printList(items []string) string {
	if len(items) == 0 {
		return "- (unknown)"
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// GenerateStatic builds a says-little problem statement from the patch's
// changed files and the instance's FAIL_TO_PASS list, with no model call.
// Selection among the template pool is weighted but deterministic — seeded
// from the instance_id so repeated runs over the same instance always pick
// the same template, matching the Gatherer/Collector's content-addressed
// idempotence rather than the original's process-global random seed.
func GenerateStatic(in Input) (string, error) {
	files, err := diffutil.Parse(in.Instance.Patch)
	if err != nil {
		return "", fmt.Errorf("issuegen: parse patch for static template: %w", err)
	}
	var paths []string
	for _, f := range files {
		p := f.NewPath
		if p == "" {
			p = f.OldPath
		}
		paths = append(paths, p)
	}

	v := staticVars{
		hint:  variantHints[procedureVariant(in.BugKind)],
		files: paths,
		f2p:   in.Instance.FailToPass,
	}
	if len(in.Instance.FailToPass) > 0 {
		v.f2pSingle = in.Instance.FailToPass[pick(in.Instance.InstanceID, len(in.Instance.FailToPass))]
	}

	tmpl := weightedPick(in.Instance.InstanceID)
	return tmpl.render(v), nil
}

// procedureVariant strips the "procedural:" prefix off a bug_kind, leaving
// the bare variant name variantHints is keyed by; non-procedural kinds
// (lm_modify, lm_rewrite) never match and get no hint.
func procedureVariant(bugKind string) string {
	const prefix = "procedural:"
	if strings.HasPrefix(bugKind, prefix) {
		return strings.TrimPrefix(bugKind, prefix)
	}
	return ""
}

func seedFrom(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

func pick(seed string, n int) int {
	if n <= 0 {
		return 0
	}
	r := rand.New(rand.NewSource(seedFrom(seed)))
	return r.Intn(n)
}

func weightedPick(seed string) staticTemplate {
	total := 0
	for _, t := range staticPool {
		total += t.weight
	}
	r := rand.New(rand.NewSource(seedFrom(seed)))
	roll := r.Intn(total)
	for _, t := range staticPool {
		if roll < t.weight {
			return t
		}
		roll -= t.weight
	}
	return staticPool[0]
}
