package buggen

import "context"

// Completer is the subset of *llm.Client the lm-modify/lm-rewrite
// generators call. Interface for testing — a real completion call is
// expensive and non-deterministic.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
