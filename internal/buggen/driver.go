package buggen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/swesmith-go/synthesis/internal/collector"
	"github.com/swesmith-go/synthesis/internal/lang"
	"github.com/swesmith-go/synthesis/internal/profile"
)

// Logf is the ambient progress callback, matching the rest of the pipeline.
type Logf func(format string, args ...any)

// MethodsFor resolves a bug-gen-method config value to the ordered list of
// Methods a Driver tries per entity. "all" tries procedural first (cheap,
// no LLM call) and falls back to the two LM methods.
func MethodsFor(configValue string) ([]Method, error) {
	switch configValue {
	case "", "all":
		return []Method{MethodProcedural, MethodLMModify, MethodLMRewrite}, nil
	case "procedural":
		return []Method{MethodProcedural}, nil
	case "llm-modify":
		return []Method{MethodLMModify}, nil
	case "llm-rewrite":
		return []Method{MethodLMRewrite}, nil
	default:
		return nil, fmt.Errorf("buggen: unknown bug-gen method %q", configValue)
	}
}

// Driver walks a repo checkout's source files, extracts entities via the
// profile's language adapter, and applies Methods in order to each entity
// until one succeeds, writing every accepted candidate to LogsDir via
// collector.WriteCandidate. It stops once MaxBugs candidates have been
// written.
type Driver struct {
	Profile *profile.Profile
	RepoDir string // local checkout root to scan
	LogsDir string
	MaxBugs int
	Methods []Method
	Client  Completer // required if Methods includes MethodLMModify or MethodLMRewrite
	Workdir string     // template override dir for LM prompts, "" for built-ins only
	Workers int        // concurrent entities in flight; <= 0 means sequential
	Logf    Logf
}

// workItem is one entity queued for bug generation, with the full file
// content and its siblings (lm-rewrite's context) carried alongside so
// concurrent workers never re-read or re-parse the file.
type workItem struct {
	relPath  string
	entity   lang.Entity
	content  []byte
	siblings []lang.Entity
}

// Run fans Methods out across d.Workers concurrent entities (mirroring
// internal/validate's ValidateAll worker pool), stopping once MaxBugs
// candidates have been written. Workers pull from a shared queue rather
// than each owning a fixed slice, so the cap is honored precisely instead
// of running one last full batch past it.
func (d *Driver) Run(ctx context.Context) (int, error) {
	if d.MaxBugs <= 0 {
		return 0, nil
	}

	files, err := sourceFiles(d.RepoDir, d.Profile.SourceGlobs(), d.Profile.ExcludeGlobs())
	if err != nil {
		return 0, err
	}

	adapter, err := lang.For(d.Profile.Language())
	if err != nil {
		return 0, err
	}

	var items []workItem
	for _, relPath := range files {
		absPath := filepath.Join(d.RepoDir, relPath)
		content, err := os.ReadFile(absPath)
		if err != nil {
			return 0, fmt.Errorf("buggen: read %s: %w", relPath, err)
		}

		entities, err := adapter.EntitiesOf(ctx, content, relPath)
		if err != nil {
			d.logf("buggen: skipping %s, entity extraction failed: %v", relPath, err)
			continue
		}
		for _, entity := range entities {
			items = append(items, workItem{relPath: relPath, entity: entity, content: content, siblings: entities})
		}
	}

	repoKey := d.Profile.Key()
	workers := d.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		written int
		next    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for range items {
		g.Go(func() error {
			for {
				mu.Lock()
				if written >= d.MaxBugs || next >= len(items) {
					mu.Unlock()
					return nil
				}
				item := items[next]
				next++
				mu.Unlock()

				candidate, ok, err := d.tryMethods(gctx, item.content, item.entity, item.siblings)
				if err != nil {
					d.logf("buggen: %s %s: %v", item.relPath, item.entity.Name, err)
					continue
				}
				if !ok {
					continue
				}

				if _, err := collector.WriteCandidate(d.LogsDir, repoKey, item.relPath, item.entity.Name, candidate); err != nil {
					return fmt.Errorf("buggen: write candidate for %s %s: %w", item.relPath, item.entity.Name, err)
				}

				mu.Lock()
				written++
				count := written
				mu.Unlock()
				d.logf("buggen: wrote %s candidate for %s:%s (%d/%d)", candidate.Kind, item.relPath, item.entity.Name, count, d.MaxBugs)
			}
		})
	}

	if err := g.Wait(); err != nil {
		mu.Lock()
		defer mu.Unlock()
		return written, err
	}
	return written, nil
}

// tryMethods attempts d.Methods in order against entity, returning the
// first one that produces a candidate. Procedural is skipped outright for
// non-Go profiles since ApplyProcedural rewrites a parsed go/ast node.
func (d *Driver) tryMethods(ctx context.Context, content []byte, entity lang.Entity, siblings []lang.Entity) (Candidate, bool, error) {
	for _, method := range d.Methods {
		switch method {
		case MethodProcedural:
			if d.Profile.Language() != "go" {
				continue
			}
			for _, mutator := range ProceduralMutators {
				candidate, ok, err := ApplyProcedural(mutator, content, entity)
				if err != nil {
					return Candidate{}, false, err
				}
				if ok {
					return candidate, true, nil
				}
			}
		case MethodLMModify:
			if d.Client == nil {
				continue
			}
			candidate, ok, err := LMModify(ctx, d.Client, d.Workdir, d.Profile.Language(), content, entity, "")
			if err != nil {
				return Candidate{}, false, err
			}
			if ok {
				return candidate, true, nil
			}
		case MethodLMRewrite:
			if d.Client == nil {
				continue
			}
			context_ := contextEntities(entity, siblings)
			candidate, ok, err := LMRewrite(ctx, d.Client, d.Workdir, d.Profile.Language(), content, entity, docstring(content, entity), context_)
			if err != nil {
				return Candidate{}, false, err
			}
			if ok {
				return candidate, true, nil
			}
		}
	}
	return Candidate{}, false, nil
}

// contextEntities returns every sibling entity in the same file other than
// entity itself, for lm-rewrite's "what else exists in this file" context.
func contextEntities(entity lang.Entity, siblings []lang.Entity) []lang.Entity {
	var out []lang.Entity
	for _, s := range siblings {
		if s.Name != entity.Name || s.StartByte != entity.StartByte {
			out = append(out, s)
		}
	}
	return out
}

// docstring extracts entity's documentation, if any. Python keeps its
// docstring as the function body's first statement, so that's checked
// first; Go/JS/TS instead carry it as a comment block immediately
// preceding the declaration, so that's checked against the full file
// content surrounding entity.StartByte. Best-effort — an empty result
// just means lm-rewrite gets no hint beyond the signature.
func docstring(content []byte, entity lang.Entity) string {
	body := strings.TrimPrefix(entity.Source, entity.Signature)
	body = strings.TrimLeft(body, "{\n\t ")

	for _, quote := range []string{`"""`, `'''`} {
		if strings.HasPrefix(body, quote) {
			rest := body[len(quote):]
			if end := strings.Index(rest, quote); end >= 0 {
				return strings.TrimSpace(rest[:end])
			}
		}
	}

	preceding := string(content[:entity.StartByte])
	lines := strings.Split(strings.TrimRight(preceding, "\n"), "\n")
	var comment []string
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			break
		}
		if !strings.HasPrefix(trimmed, "//") {
			break
		}
		comment = append([]string{strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))}, comment...)
	}
	return strings.Join(comment, " ")
}

func (d *Driver) logf(format string, args ...any) {
	if d.Logf != nil {
		d.Logf(format, args...)
	}
}

// sourceFiles walks root and returns every file's root-relative,
// forward-slash path that matches sourceGlobs and none of excludeGlobs,
// sorted for deterministic ordering across runs.
func sourceFiles(root string, sourceGlobs, excludeGlobs []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(rel, sourceGlobs) {
			return nil
		}
		if matchesAny(rel, excludeGlobs) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("buggen: walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}
