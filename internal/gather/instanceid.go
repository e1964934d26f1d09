package gather

import (
	"fmt"
	"strings"

	"github.com/swesmith-go/synthesis/internal/profile"
)

// MintInstanceID builds the canonical instance_id for a kept candidate:
// "<owner>__<repo>.<commit_short>.<kind>__<hash>" (spec.md §4.2). kind is
// the candidate's bug_kind with ":" folded to "_" so the id stays a single
// token-safe string regardless of whether the candidate came from the
// procedural generator ("procedural:invert-boundary") or an LM generator
// ("lm_modify").
func MintInstanceID(p *profile.Profile, bugKind, hash string) string {
	kind := strings.ReplaceAll(bugKind, ":", "_")
	return fmt.Sprintf("%s__%s.%s.%s__%s", p.Owner, p.Repo, p.CommitShort(), kind, hash)
}
