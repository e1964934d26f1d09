package lang

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// nodeSpec maps one tree-sitter node type to the Entity kind it produces,
// along with the field name holding its declared name.
//
// A node type like "arrow_function" or "lambda" has no name of its own —
// it only counts as an entity when bound to a variable, in which case the
// name is read off the parent (parentType/parentNameField) instead of the
// matched node itself.
type nodeSpec struct {
	nodeType  string
	kind      EntityKind
	nameField string

	parentType      string
	parentNameField string
}

// parseEntities runs a tree-sitter grammar over content and walks the
// resulting tree, emitting one Entity per node whose type matches a spec.
// Shared by every non-Go adapter: only the grammar and node specs differ.
func parseEntities(ctx context.Context, language sitter.Language, specs []nodeSpec, content []byte, filePath string) ([]Entity, error) {
	p := sitter.NewParser()
	p.SetLanguage(language)

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("lang: tree-sitter parse %s: %w", filePath, err)
	}
	defer tree.Close()

	var entities []Entity
	walk(tree.RootNode(), nil, specs, content, filePath, &entities)
	return entities, nil
}

func walk(n, parent *sitter.Node, specs []nodeSpec, content []byte, filePath string, out *[]Entity) {
	if n == nil {
		return
	}
	for _, spec := range specs {
		if n.Type() != spec.nodeType {
			continue
		}
		if spec.parentType != "" && (parent == nil || parent.Type() != spec.parentType) {
			continue
		}

		name := "anonymous"
		switch {
		case spec.nameField != "":
			if nameNode := n.ChildByFieldName(spec.nameField); nameNode != nil {
				name = nameNode.Content(content)
			}
		case spec.parentNameField != "" && parent != nil:
			if nameNode := parent.ChildByFieldName(spec.parentNameField); nameNode != nil {
				name = nameNode.Content(content)
			}
		}

		bodyNode := n.ChildByFieldName("body")
		sigEnd := n.EndByte()
		if bodyNode != nil {
			sigEnd = bodyNode.StartByte()
		}
		*out = append(*out, Entity{
			Name:      name,
			Kind:      spec.kind,
			File:      filePath,
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
			StartLine: int(n.StartPoint().Row) + 1,
			EndLine:   int(n.EndPoint().Row) + 1,
			Signature: string(content[n.StartByte():sigEnd]),
			Source:    n.Content(content),
		})
		break
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), n, specs, content, filePath, out)
	}
}
