// Package collector walks a bug-gen run's output directory and
// consolidates every candidate patch into one indexed manifest.
package collector

// Metadata describes the generator-specific provenance of one candidate
// patch, stored alongside its diff as metadata__<kind>__<hash>.json.
type Metadata struct {
	BugKind      string  `json:"bug_kind"`
	SourceFile   string  `json:"source_file"`
	SourceEntity string  `json:"source_entity"`
	Strategy     string  `json:"strategy,omitempty"`
	Explanation  string  `json:"explanation,omitempty"`
	RawResponse  string  `json:"raw_response,omitempty"`
	Cost         float64 `json:"cost,omitempty"`
}

// Entry is one row of the consolidated manifest.
type Entry struct {
	InstanceIDStub string `json:"instance_id_stub"`
	Patch          string `json:"patch"`
	BugKind        string `json:"bug_kind"`
	SourceEntity   string `json:"source_entity"`
	Hash           string `json:"hash"`
}

// Manifest is the full <repo>_all_patches.json document.
type Manifest struct {
	Repo    string  `json:"repo"`
	Entries []Entry `json:"entries"`
}
