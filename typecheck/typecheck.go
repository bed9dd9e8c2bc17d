// Package typecheck implements the post-order type-decoration pass: it
// fills in every AST node's decorated type, the last step before code
// generation. Many nodes already carry their type the moment the parser
// builds them (the parser must know an operand's type immediately to
// pick ADD vs PTR_ADD, or to resolve a struct member) — Infer returns
// that type without recomputing it, which is what makes running this
// pass a second time over an already-annotated tree a no-op, rather
// than a second independent derivation that happens to agree.
package typecheck

import (
	"fmt"

	"nanocc/ast"
	"nanocc/types"
)

// Infer decorates n (and, recursively, everything n contains) with its
// type and returns it. Nodes with no value of their own (blocks used as
// statements, control-flow nodes, NULL) return a nil type but are still
// fully walked so every expression they contain ends up decorated.
func Infer(n ast.Node) (types.Type, error) {
	if n == nil {
		return nil, nil
	}
	if _, err := n.Accept(&annotator{}); err != nil {
		return nil, err
	}
	return n.Type(), nil
}

// Annotate runs the type pass over every function body in prog. Globals
// carry no expressions to type.
func Annotate(prog *ast.Program) error {
	for _, fn := range prog.Funcs {
		for _, stmt := range fn.Body {
			if _, err := Infer(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

// annotator implements ast.Visitor. Each method recurses into its
// node's children first (post-order) before computing its own type, so
// a parent's type rule can rely on its children already being decorated.
type annotator struct{}

func (a *annotator) visit(n ast.Node) error {
	if n == nil {
		return nil
	}
	_, err := n.Accept(a)
	return err
}

func (a *annotator) VisitNum(n *ast.NumNode) (any, error) {
	return nil, nil // typed int at construction
}

func (a *annotator) VisitVar(n *ast.VarNode) (any, error) {
	return nil, nil // typed from the variable at construction
}

func (a *annotator) VisitBinary(n *ast.BinaryNode) (any, error) {
	if err := a.visit(n.LHS); err != nil {
		return nil, err
	}
	if err := a.visit(n.RHS); err != nil {
		return nil, err
	}
	if n.Type() != nil {
		return nil, nil
	}
	switch n.Op {
	case ast.PTR_DIFF, ast.EQ, ast.NE, ast.LT, ast.LE:
		n.SetType(types.IntType)
	case ast.COMMA:
		n.SetType(n.RHS.Type())
	default: // ADD, SUB, PTR_ADD, PTR_SUB, MUL, DIV, ASSIGN
		n.SetType(n.LHS.Type())
	}
	return nil, nil
}

func (a *annotator) VisitUnary(n *ast.UnaryNode) (any, error) {
	if err := a.visit(n.Operand); err != nil {
		return nil, err
	}
	if n.Type() != nil {
		return nil, nil
	}
	switch n.Op {
	case ast.DEREF:
		base, ok := types.Base(n.Operand.Type())
		if !ok {
			return nil, &TypeError{Token: n.Token(), Message: "not a pointer"}
		}
		n.SetType(base)
	case ast.ADDR:
		// ADDR of an array yields a pointer to the array's element, not
		// a pointer to the array itself.
		if base, ok := types.Base(n.Operand.Type()); ok {
			if _, isArray := n.Operand.Type().(*types.Array); isArray {
				n.SetType(types.PointerTo(base))
				return nil, nil
			}
		}
		n.SetType(types.PointerTo(n.Operand.Type()))
	}
	return nil, nil
}

func (a *annotator) VisitMember(n *ast.MemberNode) (any, error) {
	return nil, a.visit(n.Base) // n.Type() already set to the member's type at construction
}

func (a *annotator) VisitCast(n *ast.CastNode) (any, error) {
	return nil, a.visit(n.Operand) // n.Type() already carries the target type verbatim
}

func (a *annotator) VisitBlock(n *ast.BlockNode) (any, error) {
	for _, stmt := range n.Body {
		if err := a.visit(stmt); err != nil {
			return nil, err
		}
	}
	if n.Op == ast.STMT_EXPR && n.Type() == nil && len(n.Body) > 0 {
		last, ok := n.Body[len(n.Body)-1].(*ast.ExprStmtNode)
		if ok {
			n.SetType(last.Expr.Type())
		}
	}
	return nil, nil
}

func (a *annotator) VisitIf(n *ast.IfNode) (any, error) {
	if err := a.visit(n.Cond); err != nil {
		return nil, err
	}
	if err := a.visit(n.Then); err != nil {
		return nil, err
	}
	return nil, a.visit(n.Else)
}

func (a *annotator) VisitWhile(n *ast.WhileNode) (any, error) {
	if err := a.visit(n.Cond); err != nil {
		return nil, err
	}
	return nil, a.visit(n.Body)
}

func (a *annotator) VisitFor(n *ast.ForNode) (any, error) {
	if err := a.visit(n.Init); err != nil {
		return nil, err
	}
	if err := a.visit(n.Cond); err != nil {
		return nil, err
	}
	if err := a.visit(n.Inc); err != nil {
		return nil, err
	}
	return nil, a.visit(n.Body)
}

func (a *annotator) VisitReturn(n *ast.ReturnNode) (any, error) {
	return nil, a.visit(n.Value)
}

func (a *annotator) VisitFuncall(n *ast.FuncallNode) (any, error) {
	for _, arg := range n.Args {
		if err := a.visit(arg); err != nil {
			return nil, err
		}
	}
	return nil, nil // typed int (no return-type tracking of callees) at construction
}

func (a *annotator) VisitExprStmt(n *ast.ExprStmtNode) (any, error) {
	return nil, a.visit(n.Expr)
}

func (a *annotator) VisitNull(n *ast.NullNode) (any, error) {
	return nil, nil
}

func (a *annotator) VisitSizeof(n *ast.SizeofNode) (any, error) {
	if err := a.visit(n.Operand); err != nil {
		return nil, err
	}
	if n.Type() == nil {
		if n.Operand == nil || n.Operand.Type() == nil {
			return nil, fmt.Errorf("typecheck: sizeof has no operand type")
		}
		n.Val = int64(n.Operand.Type().Size())
		n.SetType(types.IntType)
	}
	return nil, nil
}
