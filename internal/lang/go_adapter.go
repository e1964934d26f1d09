package lang

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
)

// GoAdapter extracts entities using the standard library's own parser —
// no third-party AST library parses Go better than go/ast itself, and
// shelling out to tree-sitter for Go would lose the compiler's own
// understanding of the language for no benefit.
type GoAdapter struct{}

func (GoAdapter) Language() string { return "go" }

func (GoAdapter) EntitiesOf(ctx context.Context, content []byte, filePath string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("lang: parse %s: %w", filePath, err)
	}

	tsFile := fset.File(file.Pos())

	var entities []Entity
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Body == nil {
				continue
			}
			kind := KindFunction
			if d.Recv != nil {
				kind = KindMethod
			}
			entities = append(entities, entityFromSpan(content, tsFile, filePath, d.Name.Name, kind, d.Pos(), d.End(), d.Body.Pos()))

		case *ast.GenDecl:
			// var foo = func(...) {...} at package scope: the literal itself
			// counts as an entity the same way a top-level func declaration
			// does, with the var's name standing in for the func name.
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for i, name := range vs.Names {
					if i >= len(vs.Values) {
						continue
					}
					lit, ok := vs.Values[i].(*ast.FuncLit)
					if !ok || lit.Body == nil {
						continue
					}
					entities = append(entities, entityFromSpan(content, tsFile, filePath, name.Name, KindFunction, lit.Pos(), lit.End(), lit.Body.Pos()))
				}
			}
		}
	}
	return entities, nil
}

// entityFromSpan builds an Entity from a [start,end) byte range and the
// byte offset where its body begins, shared by both *ast.FuncDecl and a
// var-bound *ast.FuncLit.
func entityFromSpan(content []byte, tsFile *token.File, filePath, name string, kind EntityKind, start, end, bodyStart token.Pos) Entity {
	startByte := uint32(tsFile.Offset(start))
	endByte := uint32(tsFile.Offset(end))
	sigEnd := uint32(tsFile.Offset(bodyStart))

	return Entity{
		Name:      name,
		Kind:      kind,
		File:      filePath,
		StartByte: startByte,
		EndByte:   endByte,
		StartLine: tsFile.Position(start).Line,
		EndLine:   tsFile.Position(end).Line,
		Signature: string(content[startByte:sigEnd]),
		Source:    string(content[startByte:endByte]),
	}
}
