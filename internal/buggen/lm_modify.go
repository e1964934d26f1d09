package buggen

import (
	"context"
	"fmt"
	"strings"

	"github.com/swesmith-go/synthesis/internal/diffutil"
	"github.com/swesmith-go/synthesis/internal/lang"
	"github.com/swesmith-go/synthesis/internal/prompt"
)

const lmModifySystemPrompt = "You introduce subtle, realistic bugs into existing source code for a software engineering benchmark."

// LMModify asks the model to rewrite entity's existing body with one
// subtle defect, keeping everything else about the file unchanged. ok is
// false when the model's response fails the post-condition checks: it
// doesn't re-parse, it changes entity's signature, or it produces no
// observable diff (byte-identical or whitespace-only).
func LMModify(ctx context.Context, client Completer, workdir, language string, fileContent []byte, entity lang.Entity, strategyHint string) (candidate Candidate, ok bool, err error) {
	tmpl, err := prompt.LoadTemplate("lm-modify.md", workdir)
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: load lm-modify template: %w", err)
	}

	rendered, err := prompt.Render(tmpl, prompt.Vars{
		"file_path":     entity.File,
		"entity_name":   entity.Name,
		"signature":     entity.Signature,
		"language":      language,
		"source_code":   entity.Source,
		"strategy_hint": strategyHint,
	})
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: render lm-modify template: %w", err)
	}

	response, err := client.Complete(ctx, lmModifySystemPrompt, rendered)
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: lm-modify completion for %s: %w", entity.Name, err)
	}

	newEntitySource := stripFences(response)
	valid, err := validateRewrite(ctx, language, entity, newEntitySource)
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: validate lm-modify result for %s: %w", entity.Name, err)
	}
	if !valid {
		return Candidate{}, false, nil
	}

	mutated := make([]byte, 0, len(fileContent))
	mutated = append(mutated, fileContent[:entity.StartByte]...)
	mutated = append(mutated, []byte(newEntitySource)...)
	mutated = append(mutated, fileContent[entity.EndByte:]...)

	diff, err := diffutil.Generate(entity.File, string(fileContent), string(mutated))
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: diff lm-modify result for %s: %w", entity.Name, err)
	}
	if diff == "" {
		return Candidate{}, false, nil
	}

	return Candidate{
		Method:      MethodLMModify,
		Kind:        "lm_modify",
		Entity:      entity,
		Diff:        diff,
		RawResponse: response,
	}, true, nil
}

// stripFences removes a leading/trailing ``` fence the model sometimes
// adds despite being asked not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
