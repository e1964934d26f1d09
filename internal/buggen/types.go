// Package buggen turns a source entity into a candidate bug: a unified
// diff that introduces exactly one defect, plus the metadata that names
// how it was introduced.
package buggen

import "github.com/swesmith-go/synthesis/internal/lang"

// Method names how a Candidate's patch was produced.
type Method string

const (
	MethodProcedural Method = "procedural"
	MethodLMModify   Method = "lm_modify"
	MethodLMRewrite  Method = "lm_rewrite"
)

// Candidate is one proposed bug patch for one entity.
type Candidate struct {
	Method Method
	Kind   string // mutator name (procedural) or "lm_modify"/"lm_rewrite"
	Entity lang.Entity
	Diff   string
	// RawResponse is the unmodified model completion, kept for lm_modify/
	// lm_rewrite candidates so a later audit can see what the model said
	// versus what ended up in the diff.
	RawResponse string
}
