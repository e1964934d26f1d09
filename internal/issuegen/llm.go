package issuegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/swesmith-go/synthesis/internal/prompt"
)

// issueGenSystemPrompt is the fixed system turn; the instance-specific
// content lives entirely in the user turn rendered from issue-gen.md.
const issueGenSystemPrompt = "You write realistic bug reports for a software engineering benchmark. You never reveal that an issue was synthetically generated."

// Completer is the subset of *llm.Client GenerateLLM calls. Interface for
// testing, same shape as internal/buggen's own Completer.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GenerateLLM asks client to write a problem statement for in, using the
// built-in issue-gen.md template (or a project override at templateDir, if
// non-empty) for the user turn. A returned response is rejected — and
// retried once with a sterner reminder — if it echoes the raw patch text,
// since that would reveal the fix.
func GenerateLLM(ctx context.Context, client Completer, templateDir string, in Input) (string, error) {
	tmplSrc, err := prompt.LoadTemplate("issue-gen.md", templateDir)
	if err != nil {
		return "", fmt.Errorf("issuegen: load template: %w", err)
	}

	vars := prompt.Vars{
		"repo":          in.Instance.Repo,
		"patch_diff":    in.Instance.Patch,
		"failing_tests": strings.Join(in.Instance.FailToPass, "\n"),
	}
	if in.TestOutput != "" {
		vars["test_src_code"] = in.TestOutput
	}

	userTurn, err := prompt.Render(tmplSrc, vars)
	if err != nil {
		return "", fmt.Errorf("issuegen: render template: %w", err)
	}

	reply, err := client.Complete(ctx, issueGenSystemPrompt, userTurn)
	if err != nil {
		return "", fmt.Errorf("issuegen: llm completion: %w", err)
	}

	if revealsPatch(reply, in.Instance.Patch) {
		reply, err = client.Complete(ctx, issueGenSystemPrompt, userTurn+"\n\nYour previous answer quoted the patch directly. Rewrite it without referencing the diff, patch, or any line of code from it.")
		if err != nil {
			return "", fmt.Errorf("issuegen: llm completion retry: %w", err)
		}
	}

	return formatIssueText(reply), nil
}

// revealsPatch is a conservative leak check: true if the reply contains,
// verbatim, any line of the patch that is at least 20 characters long once
// its diff marker and surrounding whitespace are stripped (file header
// lines are skipped), which would hand the fix to whoever reads the issue.
func revealsPatch(reply, patch string) bool {
	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}
		if line != "" && strings.ContainsRune("+- ", rune(line[0])) {
			line = line[1:]
		}
		line = strings.TrimSpace(line)
		if len(line) >= 20 && strings.Contains(reply, line) {
			return true
		}
	}
	return false
}

// formatIssueText normalizes the model's "TITLE: ...\nBODY: ..." response
// (per issue-gen.md's Output format) into a single problem statement; a
// response that doesn't follow the format is kept as-is.
func formatIssueText(reply string) string {
	reply = strings.TrimSpace(reply)
	const titlePrefix = "TITLE:"
	const bodyPrefix = "BODY:"

	titleIdx := strings.Index(reply, titlePrefix)
	bodyIdx := strings.Index(reply, bodyPrefix)
	if titleIdx == -1 || bodyIdx == -1 || bodyIdx < titleIdx {
		return reply
	}

	title := strings.TrimSpace(reply[titleIdx+len(titlePrefix) : bodyIdx])
	body := strings.TrimSpace(reply[bodyIdx+len(bodyPrefix):])
	return title + "\n\n" + body
}
