// Package lang extracts function/method/class entities from source files,
// one adapter per language. Every adapter returns entities with a
// byte-exact span into the original content so a bug generator can rewrite
// exactly that span and nothing else.
package lang

import (
	"context"
	"fmt"
)

// Adapter is the single operation every language implementation exposes.
type Adapter interface {
	// Language is the canonical lowercase name this adapter handles.
	Language() string
	// EntitiesOf walks content and returns one Entity per function,
	// method, or class body it finds; a class's methods are entities of
	// their own.
	EntitiesOf(ctx context.Context, content []byte, filePath string) ([]Entity, error)
}

// For resolves a profile's declared language to its Adapter.
func For(language string) (Adapter, error) {
	switch language {
	case "go":
		return GoAdapter{}, nil
	case "python":
		return PythonAdapter{}, nil
	case "javascript", "typescript":
		return JSAdapter{}, nil
	default:
		return nil, fmt.Errorf("lang: no adapter for language %q", language)
	}
}
