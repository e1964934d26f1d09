package lang

import (
	"context"

	"github.com/smacker/go-tree-sitter/javascript"
)

// JSAdapter extracts entities via tree-sitter-javascript. TypeScript
// sources parse successfully against the same grammar for the declaration
// shapes this package cares about (function/class bodies); type-only
// syntax is simply skipped rather than mis-walked.
type JSAdapter struct{}

func (JSAdapter) Language() string { return "javascript" }

var jsSpecs = []nodeSpec{
	{nodeType: "function_declaration", kind: KindFunction, nameField: "name"},
	{nodeType: "method_definition", kind: KindMethod, nameField: "name"},
	{nodeType: "class_declaration", kind: KindClass, nameField: "name"},
	// const foo = () => {} / const foo = function() {}: the function value
	// itself is the entity, named after the variable it's bound to.
	{nodeType: "arrow_function", kind: KindFunction, parentType: "variable_declarator", parentNameField: "name"},
	{nodeType: "function", kind: KindFunction, parentType: "variable_declarator", parentNameField: "name"},
}

func (JSAdapter) EntitiesOf(ctx context.Context, content []byte, filePath string) ([]Entity, error) {
	return parseEntities(ctx, javascript.GetLanguage(), jsSpecs, content, filePath)
}
