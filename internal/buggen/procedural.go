package buggen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"

	"github.com/swesmith-go/synthesis/internal/diffutil"
	"github.com/swesmith-go/synthesis/internal/lang"
)

// Mutator searches a function body for a node matching its predicate and
// rewrites the first match it finds. Each one introduces exactly one kind
// of subtle defect, mirroring the predicate-then-rewrite pairing the
// original procedural generators use per language.
type Mutator interface {
	Name() string
	// Mutate attempts one rewrite against fn, returning true if it found
	// something to change.
	Mutate(fn *ast.FuncDecl) bool
}

// ProceduralMutators is every registered Go mutator, in the fixed order
// they're tried against an entity.
var ProceduralMutators = []Mutator{
	negateBoolean{},
	invertBoundary{},
	offByOne{},
	dropConditional{},
	dropReturn{},
	swapSiblings{},
	shuffleBranches{},
}

// ApplyProcedural runs mutator against entity's Go source, returning the
// unified diff for the whole file with only that entity's span replaced.
// ok is false if the mutator found nothing to change in this entity.
func ApplyProcedural(mutator Mutator, fileContent []byte, entity lang.Entity) (candidate Candidate, ok bool, err error) {
	fset := token.NewFileSet()
	wrapped := "package p\n\n" + entity.Source
	file, err := parser.ParseFile(fset, entity.File, wrapped, 0)
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: re-parse entity %s: %w", entity.Name, err)
	}
	if len(file.Decls) != 1 {
		return Candidate{}, false, fmt.Errorf("buggen: entity %s did not parse to exactly one decl", entity.Name)
	}
	fn, isFunc := file.Decls[0].(*ast.FuncDecl)
	if !isFunc {
		return Candidate{}, false, fmt.Errorf("buggen: entity %s is not a function", entity.Name)
	}

	if !mutator.Mutate(fn) {
		return Candidate{}, false, nil
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, fn); err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: render mutated entity %s: %w", entity.Name, err)
	}

	mutated := make([]byte, 0, len(fileContent))
	mutated = append(mutated, fileContent[:entity.StartByte]...)
	mutated = append(mutated, buf.Bytes()...)
	mutated = append(mutated, fileContent[entity.EndByte:]...)

	diff, err := diffutil.Generate(entity.File, string(fileContent), string(mutated))
	if err != nil {
		return Candidate{}, false, fmt.Errorf("buggen: diff entity %s: %w", entity.Name, err)
	}
	if diff == "" {
		return Candidate{}, false, nil
	}

	return Candidate{
		Method: MethodProcedural,
		Kind:   mutator.Name(),
		Entity: entity,
		Diff:   diff,
	}, true, nil
}
