package issuegen

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/swesmith-go/synthesis/internal/artifact"
)

// Generator produces problem statements for a batch of gathered instances
// and writes them to the canonical issue_gen location.
type Generator struct {
	Mode        Mode
	LLMClient   Completer // required for ModeLLM
	TemplateDir string    // project-level template override dir, "" for built-ins only
	BugGenDir   string    // logs/bug_gen, required for ModePR
	Logf        Logf
}

// outPath is logs/issue_gen/<repo>__<exp>_n1.json — "n1" because this
// system always emits a single problem statement per instance (n_instructions=1
// in the original); the suffix is kept literal for layout compatibility.
func outPath(logsDir, repo, exp string) string {
	return filepath.Join(logsDir, "issue_gen", fmt.Sprintf("%s__%s_n1.json", repo, exp))
}

// GenerateAll produces a Record for every input and writes them as one JSON
// array to logs/issue_gen/<repo>__<exp>_n1.json. logsDir is the workspace's
// logs root. In skip mode every input is still recorded, with an empty
// ProblemStatement — the Dataset Assembler decides whether that's fatal.
// In pr mode an input with nothing cached falls back to the static template.
func (g *Generator) GenerateAll(ctx context.Context, logsDir, repo, exp string, inputs []Input) ([]Record, error) {
	records := make([]Record, 0, len(inputs))
	for _, in := range inputs {
		ps, err := g.generateOne(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("issuegen: %s: %w", in.Instance.InstanceID, err)
		}
		records = append(records, Record{InstanceID: in.Instance.InstanceID, ProblemStatement: ps})
		if g.Logf != nil {
			g.Logf("issuegen: %s mode produced problem statement for %s (%d chars)", g.Mode, in.Instance.InstanceID, len(ps))
		}
	}

	path := outPath(logsDir, repo, exp)
	if err := artifact.WriteJSON(path, records); err != nil {
		return nil, fmt.Errorf("issuegen: write %s: %w", path, err)
	}
	return records, nil
}

func (g *Generator) generateOne(ctx context.Context, in Input) (string, error) {
	switch g.Mode {
	case ModeSkip:
		return "", nil
	case ModeStatic:
		return GenerateStatic(in)
	case ModeTests:
		return GenerateTests(in)
	case ModePR:
		ps, err := GeneratePR(g.BugGenDir, repoName(in.Instance.Repo), in)
		if err == ErrNoPRSource {
			if g.Logf != nil {
				g.Logf("issuegen: %s: no cached PR source, falling back to static", in.Instance.InstanceID)
			}
			return GenerateStatic(in)
		}
		return ps, err
	case ModeLLM:
		if g.LLMClient == nil {
			return "", fmt.Errorf("llm mode requires a configured LLM client")
		}
		return GenerateLLM(ctx, g.LLMClient, g.TemplateDir, in)
	default:
		return "", fmt.Errorf("unknown issue-gen mode %q", g.Mode)
	}
}

// repoName strips the owner prefix off "owner/repo", matching the original
// system's `instance["repo"].split("/")[-1]` convention for log paths.
func repoName(repo string) string {
	for i := len(repo) - 1; i >= 0; i-- {
		if repo[i] == '/' {
			return repo[i+1:]
		}
	}
	return repo
}
