package typecheck

import (
	"testing"

	"nanocc/ast"
	"nanocc/token"
	"nanocc/types"
)

func tok(s string) *token.Token { return &token.Token{Lexeme: s, File: "t.c", Line: 1, Column: 1} }

func TestArithmeticYieldsLHSType(t *testing.T) {
	lhs := ast.NewVar(tok("a"), &ast.Var{Type: types.LongType})
	rhs := ast.NewNum(tok("1"), 1)
	add := ast.NewBinary(ast.ADD, tok("+"), lhs, rhs)

	ty, err := Infer(add)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty != types.LongType {
		t.Errorf("ADD type = %v, want long (the LHS type)", ty)
	}
}

func TestComparisonYieldsInt(t *testing.T) {
	lt := ast.NewBinary(ast.LT, tok("<"), ast.NewNum(tok("1"), 1), ast.NewNum(tok("2"), 2))
	ty, err := Infer(lt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty != types.IntType {
		t.Errorf("LT type = %v, want int", ty)
	}
}

func TestPtrDiffYieldsInt(t *testing.T) {
	p1 := ast.NewVar(tok("p"), &ast.Var{Type: types.PointerTo(types.IntType)})
	p2 := ast.NewVar(tok("q"), &ast.Var{Type: types.PointerTo(types.IntType)})
	diff := ast.NewBinary(ast.PTR_DIFF, tok("-"), p1, p2)
	ty, err := Infer(diff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty != types.IntType {
		t.Errorf("PTR_DIFF type = %v, want int", ty)
	}
}

func TestCommaYieldsRHSType(t *testing.T) {
	comma := ast.NewBinary(ast.COMMA, tok(","), ast.NewNum(tok("1"), 1), ast.NewVar(tok("x"), &ast.Var{Type: types.CharType}))
	ty, err := Infer(comma)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty != types.CharType {
		t.Errorf("COMMA type = %v, want char (the RHS type)", ty)
	}
}

func TestDerefOfPointerUnwrapsBase(t *testing.T) {
	p := ast.NewVar(tok("p"), &ast.Var{Type: types.PointerTo(types.IntType)})
	deref := ast.NewUnary(ast.DEREF, tok("*"), p)
	ty, err := Infer(deref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty != types.IntType {
		t.Errorf("DEREF type = %v, want int", ty)
	}
}

func TestDerefOfNonPointerIsATypeError(t *testing.T) {
	x := ast.NewVar(tok("x"), &ast.Var{Type: types.IntType})
	deref := ast.NewUnary(ast.DEREF, tok("*"), x)
	_, err := Infer(deref)
	if err == nil {
		t.Fatalf("expected a type error")
	}
	if _, ok := err.(*TypeError); !ok {
		t.Fatalf("expected *TypeError, got %T", err)
	}
}

func TestAddrOfArrayYieldsPointerToElement(t *testing.T) {
	arr := ast.NewVar(tok("a"), &ast.Var{Type: &types.Array{Base: types.IntType, Len: 3}})
	addr := ast.NewUnary(ast.ADDR, tok("&"), arr)
	ty, err := Infer(addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ptr, ok := ty.(*types.Pointer)
	if !ok || ptr.Base != types.IntType {
		t.Errorf("ADDR of array type = %v, want *int", ty)
	}
}

func TestAddrOfScalarYieldsPointerToIt(t *testing.T) {
	x := ast.NewVar(tok("x"), &ast.Var{Type: types.CharType})
	addr := ast.NewUnary(ast.ADDR, tok("&"), x)
	ty, err := Infer(addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ptr, ok := ty.(*types.Pointer)
	if !ok || ptr.Base != types.CharType {
		t.Errorf("ADDR of char type = %v, want *char", ty)
	}
}

func TestSizeofComputesOperandSize(t *testing.T) {
	arr := ast.NewVar(tok("a"), &ast.Var{Type: &types.Array{Base: types.IntType, Len: 3}})
	sz := ast.NewSizeof(tok("sizeof"), arr)
	ty, err := Infer(sz)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty != types.IntType {
		t.Errorf("sizeof type = %v, want int", ty)
	}
	if sz.Val != 12 {
		t.Errorf("sizeof value = %d, want 12", sz.Val)
	}
}

func TestStatementExpressionTakesLastExprStmtType(t *testing.T) {
	first := ast.NewExprStmt(tok(";"), ast.NewNum(tok("1"), 1))
	last := ast.NewExprStmt(tok(";"), ast.NewVar(tok("x"), &ast.Var{Type: types.LongType}))
	block := ast.NewBlock(ast.STMT_EXPR, tok("("), []ast.Node{first, last})

	ty, err := Infer(block)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty != types.LongType {
		t.Errorf("statement expression type = %v, want long", ty)
	}
}

func TestInferIsIdempotent(t *testing.T) {
	lhs := ast.NewVar(tok("a"), &ast.Var{Type: types.LongType})
	rhs := ast.NewNum(tok("1"), 1)
	add := ast.NewBinary(ast.ADD, tok("+"), lhs, rhs)

	first, err := Infer(add)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Infer(add)
	if err != nil {
		t.Fatalf("unexpected error on second pass: %v", err)
	}
	if first != second {
		t.Errorf("Infer was not idempotent: %v != %v", first, second)
	}
}
