package parser

import (
	"testing"

	"nanocc/ast"
	"nanocc/lexer"
	"nanocc/types"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New("t.c", []byte(src)).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := New().Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func parseSourceErr(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.New("t.c", []byte(src)).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, err = New().Parse(toks)
	return err
}

func TestParsesSimpleFunction(t *testing.T) {
	prog := parseSource(t, "int main() { return 42; }")
	if len(prog.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Name != "main" {
		t.Errorf("function name = %q, want main", fn.Name)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.ReturnNode)
	if !ok {
		t.Fatalf("expected a ReturnNode, got %T", fn.Body[0])
	}
	num, ok := ret.Value.(*ast.NumNode)
	if !ok || num.Val != 42 {
		t.Errorf("return value = %#v, want NumNode(42)", ret.Value)
	}
}

func TestFunctionParametersBecomeLocals(t *testing.T) {
	prog := parseSource(t, "int add(int a, int b) { return a + b; }")
	fn := prog.Funcs[0]
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Errorf("param names = %q, %q, want a, b", fn.Params[0].Name, fn.Params[1].Name)
	}
	found := 0
	for _, l := range fn.Locals {
		if l == fn.Params[0] || l == fn.Params[1] {
			found++
		}
	}
	if found != 2 {
		t.Errorf("expected both params present in Locals, found %d", found)
	}
}

func TestTypedefResolvesToUnderlyingType(t *testing.T) {
	prog := parseSource(t, "typedef int myint; myint g;")
	if len(prog.Globals) != 1 {
		t.Fatalf("expected 1 global, got %d", len(prog.Globals))
	}
	if prog.Globals[0].Type != types.IntType {
		t.Errorf("global type = %v, want int (through the typedef)", prog.Globals[0].Type)
	}
}

func TestLocalTypedefDeclaresATypedefNotAVariable(t *testing.T) {
	prog := parseSource(t, "int f(){ typedef int T; T x = 1; return x; }")
	fn := prog.Funcs[0]
	if len(fn.Locals) != 1 {
		t.Fatalf("expected 1 local (x, not T), got %d: %v", len(fn.Locals), fn.Locals)
	}
	if fn.Locals[0].Name != "x" || fn.Locals[0].Type != types.IntType {
		t.Errorf("local = %+v, want x: int", fn.Locals[0])
	}
}

func TestStructMemberAccessResolvesOffset(t *testing.T) {
	prog := parseSource(t, `
		struct point { int x; int y; };
		int f() {
			struct point p;
			return p.y;
		}
	`)
	fn := prog.Funcs[0]
	ret, ok := fn.Body[1].(*ast.ReturnNode)
	if !ok {
		t.Fatalf("expected statement 1 to be a ReturnNode, got %T", fn.Body[1])
	}
	member, ok := ret.Value.(*ast.MemberNode)
	if !ok {
		t.Fatalf("expected a MemberNode, got %T", ret.Value)
	}
	if member.Member.Name.Lexeme != "y" {
		t.Errorf("member name = %q, want y", member.Member.Name.Lexeme)
	}
	if member.Member.Offset != 4 {
		t.Errorf("member offset = %d, want 4 (after one int)", member.Member.Offset)
	}
}

func TestPointerAdditionDispatchesToPtrAdd(t *testing.T) {
	prog := parseSource(t, "int f(int *p) { return p + 1; }")
	fn := prog.Funcs[0]
	ret := fn.Body[0].(*ast.ReturnNode)
	bin, ok := ret.Value.(*ast.BinaryNode)
	if !ok {
		t.Fatalf("expected a BinaryNode, got %T", ret.Value)
	}
	if bin.Op != ast.PTR_ADD {
		t.Errorf("op = %v, want PTR_ADD", bin.Op)
	}
}

func TestIntAdditionDispatchesToAdd(t *testing.T) {
	prog := parseSource(t, "int f(int a, int b) { return a + b; }")
	fn := prog.Funcs[0]
	ret := fn.Body[0].(*ast.ReturnNode)
	bin, ok := ret.Value.(*ast.BinaryNode)
	if !ok {
		t.Fatalf("expected a BinaryNode, got %T", ret.Value)
	}
	if bin.Op != ast.ADD {
		t.Errorf("op = %v, want ADD", bin.Op)
	}
}

func TestPointerDifferenceDispatchesToPtrDiff(t *testing.T) {
	prog := parseSource(t, "int f(int *p, int *q) { return p - q; }")
	fn := prog.Funcs[0]
	ret := fn.Body[0].(*ast.ReturnNode)
	bin, ok := ret.Value.(*ast.BinaryNode)
	if !ok {
		t.Fatalf("expected a BinaryNode, got %T", ret.Value)
	}
	if bin.Op != ast.PTR_DIFF {
		t.Errorf("op = %v, want PTR_DIFF", bin.Op)
	}
}

func TestFuncallLinearizesArgsIntoCommaChain(t *testing.T) {
	prog := parseSource(t, "int f() { return add(1, 2); }")
	fn := prog.Funcs[0]
	ret := fn.Body[0].(*ast.ReturnNode)
	outer, ok := ret.Value.(*ast.BinaryNode)
	if !ok || outer.Op != ast.COMMA {
		t.Fatalf("expected the top of a funcall to be a COMMA, got %#v", ret.Value)
	}
	call, ok := outer.RHS.(*ast.FuncallNode)
	if !ok {
		t.Fatalf("expected the COMMA's RHS to be a FuncallNode, got %T", outer.RHS)
	}
	if call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("call = %+v, want add with 2 args", call)
	}
	for _, arg := range call.Args {
		if _, ok := arg.(*ast.VarNode); !ok {
			t.Errorf("expected funcall argument to reference a temporary, got %T", arg)
		}
	}
}

func TestNestedBlockScopeDoesNotLeakLocals(t *testing.T) {
	err := parseSourceErr(t, `
		int f() {
			{
				int x;
				x = 1;
			}
			return x;
		}
	`)
	if err == nil {
		t.Fatalf("expected an undefined-variable error once the inner block's scope ends")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Message != "undefined variable" {
		t.Errorf("message = %q, want %q", pe.Message, "undefined variable")
	}
}

func TestUndeclaredVariableIsAParseError(t *testing.T) {
	err := parseSourceErr(t, "int f() { return x; }")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestGlobalArrayDeclaration(t *testing.T) {
	prog := parseSource(t, "int buf[10];")
	if len(prog.Globals) != 1 {
		t.Fatalf("expected 1 global, got %d", len(prog.Globals))
	}
	arr, ok := prog.Globals[0].Type.(*types.Array)
	if !ok || arr.Len != 10 || arr.Base != types.IntType {
		t.Errorf("global type = %v, want int[10]", prog.Globals[0].Type)
	}
}

func TestForLoopWithOmittedConditionDefaultsToTrue(t *testing.T) {
	prog := parseSource(t, "int f() { for (;;) { return 1; } return 0; }")
	fn := prog.Funcs[0]
	forNode, ok := fn.Body[0].(*ast.ForNode)
	if !ok {
		t.Fatalf("expected a ForNode, got %T", fn.Body[0])
	}
	num, ok := forNode.Cond.(*ast.NumNode)
	if !ok || num.Val != 1 {
		t.Errorf("default for-loop condition = %#v, want NumNode(1)", forNode.Cond)
	}
}

func TestStatementExpressionTakesLastExprStmtValue(t *testing.T) {
	prog := parseSource(t, "int f() { return ({ 1; 2; }); }")
	fn := prog.Funcs[0]
	ret := fn.Body[0].(*ast.ReturnNode)
	block, ok := ret.Value.(*ast.BlockNode)
	if !ok || block.Op != ast.STMT_EXPR {
		t.Fatalf("expected a STMT_EXPR BlockNode, got %#v", ret.Value)
	}
	if len(block.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Body))
	}
}
