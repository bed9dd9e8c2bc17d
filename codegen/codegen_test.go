package codegen

import (
	"bytes"
	"strings"
	"testing"

	"nanocc/lexer"
	"nanocc/parser"
	"nanocc/typecheck"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.New("t.c", []byte(src)).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New().Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := typecheck.Annotate(prog); err != nil {
		t.Fatalf("typecheck error: %v", err)
	}
	var buf bytes.Buffer
	if err := Generate(prog, &buf); err != nil {
		t.Fatalf("codegen error: %v", err)
	}
	return buf.String()
}

func TestReturnConstantEmitsMovAndRet(t *testing.T) {
	out := compile(t, "int main() { return 42; }")
	if !strings.Contains(out, "mov $42, %rax") {
		t.Errorf("expected the literal to be loaded into %%rax, got:\n%s", out)
	}
	if !strings.Contains(out, "ret") {
		t.Errorf("expected a ret instruction, got:\n%s", out)
	}
	if !strings.Contains(out, "main:") {
		t.Errorf("expected a main: label, got:\n%s", out)
	}
}

func TestArithmeticEmitsAddAndMul(t *testing.T) {
	out := compile(t, "int main() { return 1 + 2 * 3; }")
	if !strings.Contains(out, "imul") {
		t.Errorf("expected imul in the listing, got:\n%s", out)
	}
	if !strings.Contains(out, "add") {
		t.Errorf("expected add in the listing, got:\n%s", out)
	}
}

func TestPointerArithmeticScalesByElementSize(t *testing.T) {
	out := compile(t, "int main() { int a[3]; int *p; p = a; return *(p + 2); }")
	if !strings.Contains(out, "imul $4, %rax") {
		t.Errorf("expected the offset to be scaled by sizeof(int)=4, got:\n%s", out)
	}
}

func TestIfEmitsElseAndEndLabels(t *testing.T) {
	out := compile(t, "int main() { if (1) return 1; else return 0; }")
	if !strings.Contains(out, ".L.else.") || !strings.Contains(out, ".L.end.") {
		t.Errorf("expected else/end labels, got:\n%s", out)
	}
}

func TestForEmitsBeginAndEndLabels(t *testing.T) {
	out := compile(t, "int main() { int i; for (i = 0; i < 10; i = i + 1) {} return 0; }")
	if !strings.Contains(out, ".L.begin.") || !strings.Contains(out, ".L.end.") {
		t.Errorf("expected begin/end labels, got:\n%s", out)
	}
}

func TestFuncallMovesArgsIntoRegisters(t *testing.T) {
	out := compile(t, "int f() { return add(1, 2); }")
	if !strings.Contains(out, "call add") {
		t.Errorf("expected a call to add, got:\n%s", out)
	}
	if !strings.Contains(out, "%rdi") || !strings.Contains(out, "%rsi") {
		t.Errorf("expected args in %%rdi/%%rsi, got:\n%s", out)
	}
}

func TestGlobalStringLiteralEmitsDataSection(t *testing.T) {
	out := compile(t, `int main() { char *s; s = "hi"; return 0; }`)
	if !strings.Contains(out, ".data") {
		t.Errorf("expected a .data section, got:\n%s", out)
	}
	if !strings.Contains(out, ".byte 104") || !strings.Contains(out, ".byte 105") {
		t.Errorf("expected the byte values of 'h' and 'i', got:\n%s", out)
	}
}

func TestNestedCallPadsStackAlignmentWhenDepthIsOdd(t *testing.T) {
	out := compile(t, "int fib(int n){ return fib(n-1)+fib(n-2); }")
	if !strings.Contains(out, "sub $8, %rsp") || !strings.Contains(out, "add $8, %rsp") {
		t.Errorf("expected a pad word around the call nested under an outstanding push, got:\n%s", out)
	}
}

func TestReturningThroughGotoLabelIsUniquePerFunction(t *testing.T) {
	out := compile(t, "int f() { return 1; } int g() { return 2; }")
	if !strings.Contains(out, ".L.return.f:") || !strings.Contains(out, ".L.return.g:") {
		t.Errorf("expected per-function return labels, got:\n%s", out)
	}
}
