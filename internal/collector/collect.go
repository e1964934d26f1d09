package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/swesmith-go/synthesis/internal/artifact"
)

// Collect walks logsDir/<repo>/ for bug__*.diff/metadata__*.json pairs and
// writes the consolidated logsDir/<repo>_all_patches.json manifest.
// Entries are sorted lexicographically by path then hash so that two runs
// over identical inputs produce a byte-identical manifest.
func Collect(logsDir, repo string) (*Manifest, error) {
	repoDir := filepath.Join(logsDir, repo)

	var diffPaths []string
	err := filepath.WalkDir(repoDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), "bug__") && strings.HasSuffix(d.Name(), ".diff") {
			diffPaths = append(diffPaths, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Repo: repo}, nil
		}
		return nil, fmt.Errorf("walk %s: %w", repoDir, err)
	}

	sort.Strings(diffPaths)

	m := &Manifest{Repo: repo}
	for _, diffPath := range diffPaths {
		entry, err := loadEntry(repoDir, diffPath)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, entry)
	}

	manifestPath := filepath.Join(logsDir, repo+"_all_patches.json")
	if err := artifact.WriteJSON(manifestPath, m); err != nil {
		return nil, fmt.Errorf("write manifest %s: %w", manifestPath, err)
	}
	return m, nil
}

// ReadManifest reads a previously written <repo>_all_patches.json.
func ReadManifest(path string) (*Manifest, error) {
	var m Manifest
	if err := artifact.ReadJSON(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func loadEntry(repoDir, diffPath string) (Entry, error) {
	diffBytes, err := os.ReadFile(diffPath)
	if err != nil {
		return Entry{}, fmt.Errorf("read diff %s: %w", diffPath, err)
	}

	name := filepath.Base(diffPath)
	fileKind, hash, err := parseBugFilename(name)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", diffPath, err)
	}

	dir := filepath.Dir(diffPath)
	metaPath := filepath.Join(dir, fmt.Sprintf("metadata__%s__%s.json", fileKind, hash))
	var meta Metadata
	if err := artifact.ReadJSON(metaPath, &meta); err != nil {
		return Entry{}, fmt.Errorf("read metadata %s: %w", metaPath, err)
	}

	rel, err := filepath.Rel(repoDir, diffPath)
	if err != nil {
		return Entry{}, err
	}
	stub := strings.TrimSuffix(strings.ReplaceAll(rel, string(filepath.Separator), "."), ".diff")

	return Entry{
		InstanceIDStub: stub,
		Patch:          string(diffBytes),
		BugKind:        meta.BugKind,
		SourceEntity:   meta.SourceEntity,
		Hash:           hash,
	}, nil
}

// parseBugFilename splits "bug__<kind>__<hash>.diff" into the filesystem-
// safe kind (":" rendered as "__") and hash. kind itself may contain "__"
// (e.g. "procedural__negate-boolean"), so the hash is always the last
// "__"-delimited segment before the extension.
func parseBugFilename(name string) (kind, hash string, err error) {
	trimmed := strings.TrimSuffix(name, ".diff")
	trimmed = strings.TrimPrefix(trimmed, "bug__")
	idx := strings.LastIndex(trimmed, "__")
	if idx < 0 {
		return "", "", fmt.Errorf("malformed bug filename %q", name)
	}
	return trimmed[:idx], trimmed[idx+2:], nil
}
