package buggen

import (
	"context"
	"fmt"
	"strings"

	"github.com/swesmith-go/synthesis/internal/lang"
)

// validateRewrite decides whether an lm_modify/lm_rewrite candidate body is
// acceptable: it must differ from the original by more than whitespace, and
// it must re-parse to an entity whose signature matches the original's.
// A model that drifts the parameter list, return type, or receiver, or that
// returns something that doesn't parse at all, is rejected here rather than
// surfaced as a candidate.
func validateRewrite(ctx context.Context, language string, original lang.Entity, newSource string) (bool, error) {
	if strings.TrimSpace(newSource) == "" {
		return false, nil
	}
	if normalizeWhitespace(newSource) == normalizeWhitespace(original.Source) {
		return false, nil
	}

	newSig, err := extractSignature(ctx, language, original, newSource)
	if err != nil {
		return false, err
	}
	if newSig == "" {
		return false, nil
	}

	return normalizeWhitespace(newSig) == normalizeWhitespace(original.Signature), nil
}

// extractSignature re-parses newSource with language's adapter and returns
// the signature of the first entity it finds, or "" if it fails to parse or
// yields no entity at all (a rejection, not a hard error).
func extractSignature(ctx context.Context, language string, original lang.Entity, newSource string) (string, error) {
	adapter, err := lang.For(language)
	if err != nil {
		return "", fmt.Errorf("buggen: resolve adapter for %q: %w", language, err)
	}

	wrapped := newSource
	if language == "go" {
		wrapped = "package p\n\n" + newSource
	}

	entities, err := adapter.EntitiesOf(ctx, []byte(wrapped), original.File)
	if err != nil || len(entities) == 0 {
		return "", nil
	}
	return entities[0].Signature, nil
}

// normalizeWhitespace collapses all runs of whitespace to a single space, so
// a purely cosmetic reformatting doesn't register as a semantic change.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
