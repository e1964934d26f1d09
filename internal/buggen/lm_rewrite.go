package buggen

import (
	"context"
	"fmt"
	"strings"

	"github.com/swesmith-go/synthesis/internal/diffutil"
	"github.com/swesmith-go/synthesis/internal/lang"
	"github.com/swesmith-go/synthesis/internal/prompt"
)

const lmRewriteSystemPrompt = "You implement a function from its signature and docstring, introducing one subtle behavioral bug."

// LMRewrite blanks entity's body and asks the model to reimplement it from
// the signature and (if present) docstring alone, with one injected
// defect. contextEntities are sibling entities from the same file the
// model may legitimately reference. ok is false when the model's response
// fails the post-condition checks: it doesn't re-parse, it changes
// entity's signature, or it produces no observable diff (byte-identical or
// whitespace-only).
func LMRewrite(ctx context.Context, client Completer, workdir, language string, fileContent []byte, entity lang.Entity, docstring string, contextEntities []lang.Entity) (candidate Candidate, ok bool, err error) {
	tmpl, err := prompt.LoadTemplate("lm-rewrite.md", workdir)
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: load lm-rewrite template: %w", err)
	}

	var ctxBuilder strings.Builder
	for _, ce := range contextEntities {
		ctxBuilder.WriteString(ce.Signature)
		ctxBuilder.WriteString("\n")
	}

	rendered, err := prompt.Render(tmpl, prompt.Vars{
		"file_path":        entity.File,
		"entity_name":      entity.Name,
		"signature":        entity.Signature,
		"docstring":        docstring,
		"context_entities": ctxBuilder.String(),
	})
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: render lm-rewrite template: %w", err)
	}

	response, err := client.Complete(ctx, lmRewriteSystemPrompt, rendered)
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: lm-rewrite completion for %s: %w", entity.Name, err)
	}

	newEntitySource := stripFences(response)
	valid, err := validateRewrite(ctx, language, entity, newEntitySource)
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: validate lm-rewrite result for %s: %w", entity.Name, err)
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
		return Candidate{}, false, fmt.Errorf("buggen: diff lm-rewrite result for %s: %w", entity.Name, err)
	}
	if diff == "" {
		return Candidate{}, false, nil
	}

	return Candidate{
		Method:      MethodLMRewrite,
		Kind:        "lm_rewrite",
		Entity:      entity,
		Diff:        diff,
		RawResponse: response,
	}, true, nil
}
