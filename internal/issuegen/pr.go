package issuegen

import (
	"errors"
	"path/filepath"

	"github.com/swesmith-go/synthesis/internal/artifact"
)

// ErrNoPRSource means the bug generator that produced this instance wasn't
// the PR-mirror generator, or no cached metadata survives for it — pr mode
// has nothing to recover, and the caller must fall back or skip.
var ErrNoPRSource = errors.New("issuegen: no cached PR source for this instance")

type prMetadata struct {
	ProblemStatement string `json:"problem_statement"`
}

// GeneratePR recovers the original upstream PR description that a
// PR-mirror bug generator cached alongside its candidate patch, rather
// than asking a model to invent one. logsDir is the bug-gen log root
// (logs/bug_gen); repo is the bare repo name. Returns ErrNoPRSource when
// nothing was cached, e.g. because the instance's bug came from the
// procedural or LM generators instead.
func GeneratePR(logsDir, repo string, in Input) (string, error) {
	path := filepath.Join(logsDir, repo, "mirror_pr", in.Instance.InstanceID, "metadata__pr.json")
	var meta prMetadata
	if err := artifact.ReadJSON(path, &meta); err != nil {
		return "", ErrNoPRSource
	}
	if meta.ProblemStatement == "" {
		return "", ErrNoPRSource
	}
	return meta.ProblemStatement, nil
}
