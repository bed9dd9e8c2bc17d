// Package codegen lowers a type-annotated Program into x86-64 AT&T
// syntax assembly targeting the System V AMD64 calling convention.
// Every expression node, once visited, leaves its value in %rax (or,
// for genAddr, its address); statement nodes emit control flow and
// leave nothing. The two concerns share one Generator implementing
// ast.Visitor, the same pattern the type annotator uses, so a reader
// who already knows typecheck's shape recognizes this one immediately.
package codegen

import (
	"bufio"
	"fmt"
	"io"

	"nanocc/ast"
	"nanocc/types"
)

var argReg8 = [...]string{"%dil", "%sil", "%dl", "%cl", "%r8b", "%r9b"}
var argReg16 = [...]string{"%di", "%si", "%dx", "%cx", "%r8w", "%r9w"}
var argReg32 = [...]string{"%edi", "%esi", "%edx", "%ecx", "%r8d", "%r9d"}
var argReg64 = [...]string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// Generator walks one Program and emits its assembly listing.
// depth mirrors the teacher's vm.Stack push/pop bookkeeping: a simple
// counter incremented by push and decremented by pop, checked against
// zero at the end of every function body as a debug invariant — the
// generated code for a complete statement must leave nothing pushed.
type Generator struct {
	w        *bufio.Writer
	curFn    *ast.Function
	labelSeq int
	depth    int
}

// Generate emits prog's assembly listing to out.
func Generate(prog *ast.Program, out io.Writer) error {
	g := &Generator{w: bufio.NewWriter(out)}
	assignOffsets(prog)
	g.emitData(prog)
	if err := g.emitText(prog); err != nil {
		return err
	}
	return g.w.Flush()
}

// assignOffsets lays out every function's locals (including parameters,
// which are spilled to the stack in the prologue) below the frame base,
// rounding the frame itself up to a 16-byte boundary. Grounded on 9cc's
// assign_lvar_offsets.
func assignOffsets(prog *ast.Program) {
	for _, fn := range prog.Funcs {
		offset := 0
		for _, v := range fn.Locals {
			offset += v.Type.Size()
			offset = types.AlignTo(offset, v.Type.Align())
			v.Offset = -offset
		}
		fn.StackSize = types.AlignTo(offset, 16)
	}
}

func (g *Generator) printf(format string, args ...any) {
	fmt.Fprintf(g.w, format, args...)
}

func (g *Generator) count() int {
	g.labelSeq++
	return g.labelSeq
}

func (g *Generator) push() {
	g.printf("  push %%rax\n")
	g.depth++
}

func (g *Generator) pop(reg string) {
	g.printf("  pop %s\n", reg)
	g.depth--
}

// emitData writes every global's storage to the .data section: its
// initializer bytes verbatim if it has one (a string literal), or a
// zero-filled reservation of its size otherwise.
func (g *Generator) emitData(prog *ast.Program) {
	for _, v := range prog.Globals {
		g.printf("  .data\n")
		g.printf("  .globl %s\n", v.Name)
		g.printf("%s:\n", v.Name)
		if v.InitData == nil {
			g.printf("  .zero %d\n", v.Type.Size())
			continue
		}
		for _, b := range v.InitData {
			g.printf("  .byte %d\n", b)
		}
	}
}

func (g *Generator) emitText(prog *ast.Program) error {
	for _, fn := range prog.Funcs {
		g.printf("  .globl %s\n", fn.Name)
		g.printf("  .text\n")
		g.printf("%s:\n", fn.Name)
		g.curFn = fn

		g.printf("  push %%rbp\n")
		g.printf("  mov %%rsp, %%rbp\n")
		g.printf("  sub $%d, %%rsp\n", fn.StackSize)

		for i, param := range fn.Params {
			g.storeParam(param, i)
		}

		for _, stmt := range fn.Body {
			if _, err := stmt.Accept(g); err != nil {
				return err
			}
		}
		if g.depth != 0 {
			return fmt.Errorf("codegen: internal error: stack depth %d at end of %s, want 0", g.depth, fn.Name)
		}

		g.printf(".L.return.%s:\n", fn.Name)
		g.printf("  mov %%rbp, %%rsp\n")
		g.printf("  pop %%rbp\n")
		g.printf("  ret\n")
	}
	return nil
}

// storeParam spills the i-th incoming argument register to its local's
// stack slot, selecting the register width matching the parameter's
// declared size.
func (g *Generator) storeParam(param *ast.Var, i int) {
	switch param.Type.Size() {
	case 1:
		g.printf("  mov %s, %d(%%rbp)\n", argReg8[i], param.Offset)
	case 2:
		g.printf("  mov %s, %d(%%rbp)\n", argReg16[i], param.Offset)
	case 4:
		g.printf("  mov %s, %d(%%rbp)\n", argReg32[i], param.Offset)
	default:
		g.printf("  mov %s, %d(%%rbp)\n", argReg64[i], param.Offset)
	}
}

// genAddr computes n's address into %rax. Only a Var, a DEREF, a
// MEMBER, or the right side of a COMMA chain has one.
func (g *Generator) genAddr(n ast.Node) error {
	switch n := n.(type) {
	case *ast.VarNode:
		if n.Var.IsLocal {
			g.printf("  lea %d(%%rbp), %%rax\n", n.Var.Offset)
		} else {
			g.printf("  lea %s(%%rip), %%rax\n", n.Var.Name)
		}
		return nil
	case *ast.UnaryNode:
		if n.Op == ast.DEREF {
			_, err := n.Operand.Accept(g)
			return err
		}
	case *ast.MemberNode:
		if err := g.genAddr(n.Base); err != nil {
			return err
		}
		g.printf("  add $%d, %%rax\n", n.Member.Offset)
		return nil
	case *ast.BinaryNode:
		if n.Op == ast.COMMA {
			if _, err := n.LHS.Accept(g); err != nil {
				return err
			}
			return g.genAddr(n.RHS)
		}
	}
	return &CodegenError{Token: n.Token(), Message: "not an lvalue"}
}

// load reads ty-sized data from the address in %rax into %rax itself,
// sign-extending as needed. An array or aggregate's "value" is its
// address, already sitting in %rax, so loading one is a no-op.
func (g *Generator) load(ty types.Type) {
	switch ty.(type) {
	case *types.Array, *types.Struct:
		return
	}
	switch ty.Size() {
	case 1:
		g.printf("  movsbl (%%rax), %%eax\n")
	case 2:
		g.printf("  movswl (%%rax), %%eax\n")
	case 4:
		g.printf("  movslq (%%rax), %%rax\n")
	default:
		g.printf("  mov (%%rax), %%rax\n")
	}
}

// store writes %rax into the address just popped off the stack (the
// address genAddr left there before the value was computed), leaving
// the stored value in %rax.
func (g *Generator) store(ty types.Type) {
	g.pop("%rdi")
	if st, ok := ty.(*types.Struct); ok {
		for i := 0; i < st.Size(); i++ {
			g.printf("  mov %d(%%rax), %%r8b\n", i)
			g.printf("  mov %%r8b, %d(%%rdi)\n", i)
		}
		return
	}
	switch ty.Size() {
	case 1:
		g.printf("  mov %%al, (%%rdi)\n")
	case 2:
		g.printf("  mov %%ax, (%%rdi)\n")
	case 4:
		g.printf("  mov %%eax, (%%rdi)\n")
	default:
		g.printf("  mov %%rax, (%%rdi)\n")
	}
}

// cast sign-extends %rax from "from" to "to" when an integer narrower
// than 8 bytes is widened to 8 bytes. Every other cast, including a
// narrowing one, emits nothing and leaves %rax as it is.
func (g *Generator) cast(from, to types.Type) {
	if _, ok := to.(types.Void); ok {
		return
	}
	if to.Size() == 8 && from.Size() < 8 && types.IsInteger(from) {
		switch from.Size() {
		case 1:
			g.printf("  movsbq %%al, %%rax\n")
		case 2:
			g.printf("  movswq %%ax, %%rax\n")
		case 4:
			g.printf("  movslq %%eax, %%rax\n")
		}
	}
}

func sizedRegs(ty types.Type) (ax, di string) {
	if ty.Size() == 8 {
		return "%rax", "%rdi"
	}
	return "%eax", "%edi"
}

func (g *Generator) VisitNum(n *ast.NumNode) (any, error) {
	g.printf("  mov $%d, %%rax\n", n.Val)
	return nil, nil
}

func (g *Generator) VisitVar(n *ast.VarNode) (any, error) {
	if err := g.genAddr(n); err != nil {
		return nil, err
	}
	g.load(n.Type())
	return nil, nil
}

func (g *Generator) VisitBinary(n *ast.BinaryNode) (any, error) {
	switch n.Op {
	case ast.ASSIGN:
		if err := g.genAddr(n.LHS); err != nil {
			return nil, err
		}
		g.push()
		if _, err := n.RHS.Accept(g); err != nil {
			return nil, err
		}
		g.store(n.Type())
		return nil, nil

	case ast.COMMA:
		if _, err := n.LHS.Accept(g); err != nil {
			return nil, err
		}
		return n.RHS.Accept(g)

	case ast.PTR_ADD, ast.PTR_SUB:
		base, _ := types.Base(n.LHS.Type())
		if _, err := n.RHS.Accept(g); err != nil {
			return nil, err
		}
		g.printf("  imul $%d, %%rax\n", base.Size())
		g.push()
		if _, err := n.LHS.Accept(g); err != nil {
			return nil, err
		}
		g.pop("%rdi")
		if n.Op == ast.PTR_ADD {
			g.printf("  add %%rdi, %%rax\n")
		} else {
			g.printf("  sub %%rdi, %%rax\n")
		}
		return nil, nil
	}

	if n.Op == ast.PTR_DIFF {
		if _, err := n.RHS.Accept(g); err != nil {
			return nil, err
		}
		g.push()
		if _, err := n.LHS.Accept(g); err != nil {
			return nil, err
		}
		g.pop("%rdi")
		g.printf("  sub %%rdi, %%rax\n")
		base, _ := types.Base(n.LHS.Type())
		g.printf("  mov $%d, %%rdi\n", base.Size())
		g.printf("  cqo\n")
		g.printf("  idiv %%rdi\n")
		return nil, nil
	}

	if _, err := n.RHS.Accept(g); err != nil {
		return nil, err
	}
	g.push()
	if _, err := n.LHS.Accept(g); err != nil {
		return nil, err
	}
	g.pop("%rdi")

	ax, di := sizedRegs(n.LHS.Type())

	switch n.Op {
	case ast.ADD:
		g.printf("  add %s, %s\n", di, ax)
	case ast.SUB:
		g.printf("  sub %s, %s\n", di, ax)
	case ast.MUL:
		g.printf("  imul %s, %s\n", di, ax)
	case ast.DIV:
		if n.LHS.Type().Size() == 8 {
			g.printf("  cqo\n")
		} else {
			g.printf("  cdq\n")
		}
		g.printf("  idiv %s\n", di)
	case ast.EQ, ast.NE, ast.LT, ast.LE:
		g.printf("  cmp %s, %s\n", di, ax)
		switch n.Op {
		case ast.EQ:
			g.printf("  sete %%al\n")
		case ast.NE:
			g.printf("  setne %%al\n")
		case ast.LT:
			g.printf("  setl %%al\n")
		case ast.LE:
			g.printf("  setle %%al\n")
		}
		g.printf("  movzbq %%al, %%rax\n")
	}
	return nil, nil
}

func (g *Generator) VisitUnary(n *ast.UnaryNode) (any, error) {
	switch n.Op {
	case ast.DEREF:
		if _, err := n.Operand.Accept(g); err != nil {
			return nil, err
		}
		g.load(n.Type())
		return nil, nil
	case ast.ADDR:
		return nil, g.genAddr(n.Operand)
	}
	return nil, &CodegenError{Token: n.Token(), Message: "not an lvalue"}
}

func (g *Generator) VisitMember(n *ast.MemberNode) (any, error) {
	if err := g.genAddr(n); err != nil {
		return nil, err
	}
	g.load(n.Type())
	return nil, nil
}

func (g *Generator) VisitCast(n *ast.CastNode) (any, error) {
	if _, err := n.Operand.Accept(g); err != nil {
		return nil, err
	}
	g.cast(n.Operand.Type(), n.Type())
	return nil, nil
}

func (g *Generator) VisitBlock(n *ast.BlockNode) (any, error) {
	for _, stmt := range n.Body {
		if _, err := stmt.Accept(g); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (g *Generator) VisitIf(n *ast.IfNode) (any, error) {
	c := g.count()
	if _, err := n.Cond.Accept(g); err != nil {
		return nil, err
	}
	g.printf("  cmp $0, %%rax\n")
	g.printf("  je .L.else.%d\n", c)
	if _, err := n.Then.Accept(g); err != nil {
		return nil, err
	}
	g.printf("  jmp .L.end.%d\n", c)
	g.printf(".L.else.%d:\n", c)
	if n.Else != nil {
		if _, err := n.Else.Accept(g); err != nil {
			return nil, err
		}
	}
	g.printf(".L.end.%d:\n", c)
	return nil, nil
}

func (g *Generator) VisitWhile(n *ast.WhileNode) (any, error) {
	c := g.count()
	g.printf(".L.begin.%d:\n", c)
	if _, err := n.Cond.Accept(g); err != nil {
		return nil, err
	}
	g.printf("  cmp $0, %%rax\n")
	g.printf("  je .L.end.%d\n", c)
	if _, err := n.Body.Accept(g); err != nil {
		return nil, err
	}
	g.printf("  jmp .L.begin.%d\n", c)
	g.printf(".L.end.%d:\n", c)
	return nil, nil
}

func (g *Generator) VisitFor(n *ast.ForNode) (any, error) {
	c := g.count()
	if n.Init != nil {
		if _, err := n.Init.Accept(g); err != nil {
			return nil, err
		}
	}
	g.printf(".L.begin.%d:\n", c)
	if n.Cond != nil {
		if _, err := n.Cond.Accept(g); err != nil {
			return nil, err
		}
		g.printf("  cmp $0, %%rax\n")
		g.printf("  je .L.end.%d\n", c)
	}
	if _, err := n.Body.Accept(g); err != nil {
		return nil, err
	}
	if n.Inc != nil {
		if _, err := n.Inc.Accept(g); err != nil {
			return nil, err
		}
	}
	g.printf("  jmp .L.begin.%d\n", c)
	g.printf(".L.end.%d:\n", c)
	return nil, nil
}

func (g *Generator) VisitReturn(n *ast.ReturnNode) (any, error) {
	if _, err := n.Value.Accept(g); err != nil {
		return nil, err
	}
	g.printf("  jmp .L.return.%s\n", g.curFn.Name)
	return nil, nil
}

func (g *Generator) VisitFuncall(n *ast.FuncallNode) (any, error) {
	if len(n.Args) > len(argReg64) {
		return nil, &CodegenError{Token: n.Token(), Message: "too many arguments"}
	}
	for _, arg := range n.Args {
		if _, err := arg.Accept(g); err != nil {
			return nil, err
		}
		g.push()
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		g.pop(argReg64[i])
	}

	// The call instruction pushes an 8-byte return address, so %rsp must
	// be 16-byte aligned right before it. The function prologue leaves
	// %rsp 16-aligned and every push() since then has shifted it by 8
	// bytes, so an odd g.depth here means it is currently misaligned by
	// one pad word.
	pad := g.depth%2 != 0
	if pad {
		g.printf("  sub $8, %%rsp\n")
	}
	g.printf("  mov $0, %%rax\n")
	g.printf("  call %s\n", n.Name)
	if pad {
		g.printf("  add $8, %%rsp\n")
	}
	return nil, nil
}

func (g *Generator) VisitExprStmt(n *ast.ExprStmtNode) (any, error) {
	return n.Expr.Accept(g)
}

func (g *Generator) VisitNull(n *ast.NullNode) (any, error) {
	return nil, nil
}

func (g *Generator) VisitSizeof(n *ast.SizeofNode) (any, error) {
	g.printf("  mov $%d, %%rax\n", n.Val)
	return nil, nil
}
