package gather

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/swesmith-go/synthesis/internal/artifact"
	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/validate"
)

// scan reads every validated candidate's persisted artifacts out of
// logsDir/<p.Key()>/<hash>/, sorted by hash for stable ordering.
func scan(logsDir string, p *profile.Profile) ([]candidate, error) {
	repoDir := filepath.Join(logsDir, p.Key())

	entries, err := os.ReadDir(repoDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", repoDir, err)
	}

	var hashes []string
	for _, e := range entries {
		if e.IsDir() {
			hashes = append(hashes, e.Name())
		}
	}
	sort.Strings(hashes)

	var candidates []candidate
	for _, hash := range hashes {
		dir := filepath.Join(repoDir, hash)

		var meta struct {
			BugKind      string `json:"bug_kind"`
			SourceEntity string `json:"source_entity"`
			PatchHash    string `json:"patch_hash"`
		}
		if err := artifact.ReadJSON(filepath.Join(dir, "candidate_metadata.json"), &meta); err != nil {
			return nil, fmt.Errorf("read candidate metadata %s: %w", dir, err)
		}

		var report validate.Report
		if err := artifact.ReadJSON(filepath.Join(dir, "report.json"), &report); err != nil {
			return nil, fmt.Errorf("read report %s: %w", dir, err)
		}

		patchBytes, err := os.ReadFile(filepath.Join(dir, "patch.diff"))
		if err != nil {
			return nil, fmt.Errorf("read patch %s: %w", dir, err)
		}

		candidates = append(candidates, candidate{
			hash:         hash,
			bugKind:      meta.BugKind,
			sourceEntity: meta.SourceEntity,
			patch:        string(patchBytes),
			report:       report,
		})
	}
	return candidates, nil
}
