package collector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/buggen"
)

// fileAsDir turns a repo-relative source path into the directory segment
// logs/bug_gen lays candidates out under, per file.
func fileAsDir(sourceFile string) string {
	return strings.ReplaceAll(sourceFile, string(filepath.Separator), "__")
}

// bugKind renders a Candidate's spec-level bug_kind label:
// "procedural:<mutator>", "lm_modify", or "lm_rewrite".
func bugKind(c buggen.Candidate) string {
	if c.Method == buggen.MethodProcedural {
		return "procedural:" + c.Kind
	}
	return string(c.Method)
}

// WriteCandidate persists one buggen.Candidate as a
// (bug__<kind>__<hash>.diff, metadata__<kind>__<hash>.json) pair under
// logsDir/<repo>/<file_as_dir>/<entity>/. kind is filesystem-safe (":" is
// not, so it is rendered with "__" in place of ":" within the filename).
func WriteCandidate(logsDir, repo, sourceFile, entityName string, c buggen.Candidate) (string, error) {
	hash := ContentHash([]byte(c.Diff))
	kind := bugKind(c)
	fileKind := strings.ReplaceAll(kind, ":", "__")
	dir := filepath.Join(logsDir, repo, fileAsDir(sourceFile), entityName)

	diffPath := filepath.Join(dir, fmt.Sprintf("bug__%s__%s.diff", fileKind, hash))
	if err := artifact.WriteAtomic(diffPath, []byte(c.Diff)); err != nil {
		return "", fmt.Errorf("write diff %s: %w", diffPath, err)
	}

	meta := Metadata{
		BugKind:      kind,
		SourceFile:   sourceFile,
		SourceEntity: entityName,
		RawResponse:  c.RawResponse,
	}
	metaPath := filepath.Join(dir, fmt.Sprintf("metadata__%s__%s.json", fileKind, hash))
	if err := artifact.WriteJSON(metaPath, meta); err != nil {
		return "", fmt.Errorf("write metadata %s: %w", metaPath, err)
	}

	return diffPath, nil
}
