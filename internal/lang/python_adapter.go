package lang

import (
	"context"

	"github.com/smacker/go-tree-sitter/python"
)

// PythonAdapter extracts entities via tree-sitter-python, the same grammar
// the corpus's own multi-language AST layer loads for Python source.
type PythonAdapter struct{}

func (PythonAdapter) Language() string { return "python" }

var pythonSpecs = []nodeSpec{
	{nodeType: "function_definition", kind: KindFunction, nameField: "name"},
	{nodeType: "class_definition", kind: KindClass, nameField: "name"},
	// foo = lambda ...: ...: the lambda itself is the entity, named after
	// the variable it's assigned to.
	{nodeType: "lambda", kind: KindFunction, parentType: "assignment", parentNameField: "left"},
}

func (PythonAdapter) EntitiesOf(ctx context.Context, content []byte, filePath string) ([]Entity, error) {
	entities, err := parseEntities(ctx, python.GetLanguage(), pythonSpecs, content, filePath)
	if err != nil {
		return nil, err
	}
	return classifyPythonMethods(entities), nil
}

// classifyPythonMethods promotes a function entity to KindMethod when its
// span falls inside a class entity's span — tree-sitter-python's grammar
// doesn't distinguish a method from a module-level function by node type.
func classifyPythonMethods(entities []Entity) []Entity {
	for i := range entities {
		if entities[i].Kind != KindFunction {
			continue
		}
		for _, outer := range entities {
			if outer.Kind == KindClass && outer.StartByte < entities[i].StartByte && entities[i].EndByte <= outer.EndByte {
				entities[i].Kind = KindMethod
				break
			}
		}
	}
	return entities
}
