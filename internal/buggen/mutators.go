package buggen

import (
	"go/ast"
	"go/token"
)

// negateBoolean flips the first comparison or logical operator it finds:
// == becomes !=, && becomes ||, and so on. This is the classic "wrong
// branch taken" defect.
type negateBoolean struct{}

func (negateBoolean) Name() string { return "negate-boolean" }

var negateOps = map[token.Token]token.Token{
	token.EQL:    token.NEQ,
	token.NEQ:    token.EQL,
	token.LAND:   token.LOR,
	token.LOR:    token.LAND,
}

func (negateBoolean) Mutate(fn *ast.FuncDecl) bool {
	var mutated bool
	ast.Inspect(fn, func(n ast.Node) bool {
		if mutated {
			return false
		}
		be, ok := n.(*ast.BinaryExpr)
		if !ok {
			return true
		}
		if neg, found := negateOps[be.Op]; found {
			be.Op = neg
			mutated = true
			return false
		}
		return true
	})
	return mutated
}

// invertBoundary flips a strict comparator to its non-strict counterpart
// (or vice versa): < becomes <=, >= becomes >. A classic off-by-one at the
// boundary of a loop or range check.
type invertBoundary struct{}

func (invertBoundary) Name() string { return "invert-boundary" }

var boundaryOps = map[token.Token]token.Token{
	token.LSS: token.LEQ,
	token.LEQ: token.LSS,
	token.GTR: token.GEQ,
	token.GEQ: token.GTR,
}

func (invertBoundary) Mutate(fn *ast.FuncDecl) bool {
	var mutated bool
	ast.Inspect(fn, func(n ast.Node) bool {
		if mutated {
			return false
		}
		be, ok := n.(*ast.BinaryExpr)
		if !ok {
			return true
		}
		if inv, found := boundaryOps[be.Op]; found {
			be.Op = inv
			mutated = true
			return false
		}
		return true
	})
	return mutated
}

// offByOne increments by one the first integer literal it finds as an
// operand of a comparison (<, <=, >, >=, ==), whichever direction that
// moves the bound; the literal is never decremented.
type offByOne struct{}

func (offByOne) Name() string { return "off-by-one" }

func (offByOne) Mutate(fn *ast.FuncDecl) bool {
	var mutated bool
	ast.Inspect(fn, func(n ast.Node) bool {
		if mutated {
			return false
		}
		be, ok := n.(*ast.BinaryExpr)
		if !ok {
			return true
		}
		switch be.Op {
		case token.LSS, token.LEQ, token.GTR, token.GEQ, token.EQL:
		default:
			return true
		}
		if lit, ok := be.Y.(*ast.BasicLit); ok && lit.Kind == token.INT {
			lit.Value = incrementIntLiteral(lit.Value)
			mutated = true
			return false
		}
		if lit, ok := be.X.(*ast.BasicLit); ok && lit.Kind == token.INT {
			lit.Value = incrementIntLiteral(lit.Value)
			mutated = true
			return false
		}
		return true
	})
	return mutated
}

func incrementIntLiteral(v string) string {
	n := 0
	for _, c := range v {
		n = n*10 + int(c-'0')
	}
	return itoa(n + 1)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// dropConditional deletes the first if-statement that has no else clause,
// replacing it with its body's statements unconditionally executed —
// the guard is simply gone.
type dropConditional struct{}

func (dropConditional) Name() string { return "drop-conditional" }

func (dropConditional) Mutate(fn *ast.FuncDecl) bool {
	return rewriteFirstBlock(fn.Body, func(list []ast.Stmt) ([]ast.Stmt, bool) {
		for i, stmt := range list {
			ifStmt, ok := stmt.(*ast.IfStmt)
			if !ok || ifStmt.Else != nil {
				continue
			}
			out := append([]ast.Stmt{}, list[:i]...)
			out = append(out, ifStmt.Body.List...)
			out = append(out, list[i+1:]...)
			return out, true
		}
		return list, false
	})
}

// dropReturn deletes the first return statement that is not the final
// statement of the function body, causing execution to fall through to
// whatever follows instead of returning early. A return that ends a nested
// block (such as an if body) qualifies; the function body's own final
// statement is never removed.
type dropReturn struct{}

func (dropReturn) Name() string { return "drop-return" }

func (dropReturn) Mutate(fn *ast.FuncDecl) bool {
	return rewriteFirstBlock(fn.Body, func(list []ast.Stmt) ([]ast.Stmt, bool) {
		topLevel := len(list) > 0 && len(fn.Body.List) > 0 && &list[0] == &fn.Body.List[0]
		for i, stmt := range list {
			if topLevel && i == len(list)-1 {
				continue
			}
			if _, ok := stmt.(*ast.ReturnStmt); !ok {
				continue
			}
			out := append([]ast.Stmt{}, list[:i]...)
			out = append(out, list[i+1:]...)
			return out, true
		}
		return list, false
	})
}

// swapSiblings exchanges the order of two adjacent simple statements
// (assignments or expression statements) within a block, a defect class
// that surfaces when execution order affects the result.
type swapSiblings struct{}

func (swapSiblings) Name() string { return "swap-siblings" }

func (swapSiblings) Mutate(fn *ast.FuncDecl) bool {
	return rewriteFirstBlock(fn.Body, func(list []ast.Stmt) ([]ast.Stmt, bool) {
		for i := 0; i < len(list)-1; i++ {
			if isSwappable(list[i]) && isSwappable(list[i+1]) {
				out := append([]ast.Stmt{}, list...)
				out[i], out[i+1] = out[i+1], out[i]
				return out, true
			}
		}
		return list, false
	})
}

func isSwappable(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.AssignStmt, *ast.ExprStmt:
		return true
	default:
		return false
	}
}

// shuffleBranches swaps the then-branch and else-branch of the first
// if/else it finds (where the else is a plain block, not another if).
type shuffleBranches struct{}

func (shuffleBranches) Name() string { return "shuffle-branches" }

func (shuffleBranches) Mutate(fn *ast.FuncDecl) bool {
	var mutated bool
	ast.Inspect(fn, func(n ast.Node) bool {
		if mutated {
			return false
		}
		ifStmt, ok := n.(*ast.IfStmt)
		if !ok {
			return true
		}
		elseBlock, ok := ifStmt.Else.(*ast.BlockStmt)
		if !ok {
			return true
		}
		ifStmt.Body, elseBlock = elseBlock, ifStmt.Body
		ifStmt.Else = elseBlock
		mutated = true
		return false
	})
	return mutated
}

// rewriteFirstBlock walks every nested *ast.BlockStmt inside body (body
// itself first) and applies rewrite to its statement list, stopping at the
// first block where rewrite reports a change.
func rewriteFirstBlock(body *ast.BlockStmt, rewrite func([]ast.Stmt) ([]ast.Stmt, bool)) bool {
	if body == nil {
		return false
	}

	if newList, ok := rewrite(body.List); ok {
		body.List = newList
		return true
	}

	var mutated bool
	for _, stmt := range body.List {
		if mutated {
			return true
		}
		ast.Inspect(stmt, func(n ast.Node) bool {
			if mutated {
				return false
			}
			block, ok := n.(*ast.BlockStmt)
			if !ok || block == body {
				return true
			}
			if newList, ok := rewrite(block.List); ok {
				block.List = newList
				mutated = true
				return false
			}
			return true
		})
	}
	return mutated
}
