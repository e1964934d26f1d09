// Package diffutil generates and parses the unified diffs that flow through
// the pipeline as candidate patches: go-difflib produces a patch from a bug
// generator's before/after source, and go-diff parses a patch back into its
// constituent file hunks wherever a later stage needs to know what changed
// (the Patch Collector's manifest, the Instance Gatherer's file list).
package diffutil

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	gdiff "github.com/sourcegraph/go-diff/diff"
)

// Generate produces a unified diff transforming oldContent into newContent,
// labeled with the given file path on both sides (a/<path>, b/<path>).
func Generate(path, oldContent, newContent string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("generate diff for %s: %w", path, err)
	}
	if text == "" {
		return "", nil
	}
	return text, nil
}

// FileDiff is a single file's changes within a (possibly multi-file) patch.
type FileDiff struct {
	OldPath    string
	NewPath    string
	Insertions int
	Deletions  int
}

// Parse parses a unified diff (as produced by Generate, git diff, or git
// apply --verbose output) into its per-file hunks.
func Parse(patch string) ([]FileDiff, error) {
	fileDiffs, err := gdiff.ParseMultiFileDiff([]byte(patch))
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}

	result := make([]FileDiff, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		var ins, del int
		for _, hunk := range fd.Hunks {
			for _, line := range strings.Split(string(hunk.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					ins++
				case strings.HasPrefix(line, "-"):
					del++
				}
			}
		}
		result = append(result, FileDiff{
			OldPath:    trimDiffPrefix(fd.OrigName),
			NewPath:    trimDiffPrefix(fd.NewName),
			Insertions: ins,
			Deletions:  del,
		})
	}
	return result, nil
}

// FilesChanged returns the set of file paths (new-side) touched by a patch.
func FilesChanged(patch string) ([]string, error) {
	fds, err := Parse(patch)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(fds))
	for _, fd := range fds {
		paths = append(paths, fd.NewPath)
	}
	return paths, nil
}

func trimDiffPrefix(name string) string {
	for _, prefix := range []string{"a/", "b/"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}
