package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nanocc/ast"
	"nanocc/lexer"
	"nanocc/parser"
	"nanocc/preprocess"
	"nanocc/source"
	"nanocc/typecheck"
)

// astCmd stops the pipeline after type annotation and prints the typed
// AST as indented JSON, the other debugging subcommand every front end
// this shape ends up growing.
type astCmd struct{}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "Print the typed AST for a source file as JSON" }
func (*astCmd) Usage() string {
	return `ast <file.c>:
  Parse, type-annotate, and print the AST as JSON.
`
}
func (*astCmd) SetFlags(f *flag.FlagSet) {}

func (*astCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 no source file given\n")
		return subcommands.ExitUsageError
	}
	path := args[0]

	buf, err := source.Load(os.ReadFile, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	toks, err := lexer.New(buf.Name, buf.Text).Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	pp := preprocess.New(os.ReadFile)
	toks, err = pp.Process(toks, buf.Name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	prog, err := parser.New().Parse(toks)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := typecheck.Annotate(prog); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	out, err := json.MarshalIndent(dumpProgram(prog), "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}

func dumpProgram(prog *ast.Program) map[string]any {
	globals := make([]any, 0, len(prog.Globals))
	for _, v := range prog.Globals {
		globals = append(globals, dumpVar(v))
	}
	funcs := make([]any, 0, len(prog.Funcs))
	for _, fn := range prog.Funcs {
		funcs = append(funcs, dumpFunc(fn))
	}
	return map[string]any{"globals": globals, "functions": funcs}
}

func dumpVar(v *ast.Var) map[string]any {
	m := map[string]any{"name": v.Name, "type": v.Type.String(), "local": v.IsLocal}
	if v.IsLocal {
		m["offset"] = v.Offset
	}
	return m
}

func dumpFunc(fn *ast.Function) map[string]any {
	params := make([]any, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, dumpVar(p))
	}
	locals := make([]any, 0, len(fn.Locals))
	for _, l := range fn.Locals {
		locals = append(locals, dumpVar(l))
	}
	printer := &astDumper{}
	body := make([]any, 0, len(fn.Body))
	for _, n := range fn.Body {
		body = append(body, printer.dump(n))
	}
	return map[string]any{
		"name":      fn.Name,
		"params":    params,
		"locals":    locals,
		"stackSize": fn.StackSize,
		"body":      body,
	}
}

// astDumper walks a single node with ast.Visitor, turning it into a
// plain map a json.Marshal call can render. Unlike the type annotator
// and codegen, which read a node's Op field to select behavior, this
// visitor only needs each node's own fields, so the Kind name and the
// recursive calls carry all the information a reader needs.
type astDumper struct{}

func (d *astDumper) dump(n ast.Node) any {
	if n == nil {
		return nil
	}
	v, _ := n.Accept(d)
	return v
}

func (d *astDumper) annotate(n ast.Node, m map[string]any) map[string]any {
	m["kind"] = n.Kind().String()
	if ty := n.Type(); ty != nil {
		m["type"] = ty.String()
	}
	return m
}

func (d *astDumper) VisitNum(n *ast.NumNode) (any, error) {
	return d.annotate(n, map[string]any{"val": n.Val}), nil
}

func (d *astDumper) VisitVar(n *ast.VarNode) (any, error) {
	return d.annotate(n, map[string]any{"name": n.Var.Name}), nil
}

func (d *astDumper) VisitBinary(n *ast.BinaryNode) (any, error) {
	return d.annotate(n, map[string]any{"lhs": d.dump(n.LHS), "rhs": d.dump(n.RHS)}), nil
}

func (d *astDumper) VisitUnary(n *ast.UnaryNode) (any, error) {
	return d.annotate(n, map[string]any{"operand": d.dump(n.Operand)}), nil
}

func (d *astDumper) VisitMember(n *ast.MemberNode) (any, error) {
	return d.annotate(n, map[string]any{"base": d.dump(n.Base), "member": n.Member.Name.Lexeme}), nil
}

func (d *astDumper) VisitCast(n *ast.CastNode) (any, error) {
	return d.annotate(n, map[string]any{"operand": d.dump(n.Operand)}), nil
}

func (d *astDumper) VisitBlock(n *ast.BlockNode) (any, error) {
	body := make([]any, 0, len(n.Body))
	for _, s := range n.Body {
		body = append(body, d.dump(s))
	}
	return d.annotate(n, map[string]any{"body": body}), nil
}

func (d *astDumper) VisitIf(n *ast.IfNode) (any, error) {
	m := map[string]any{"cond": d.dump(n.Cond), "then": d.dump(n.Then)}
	if n.Else != nil {
		m["else"] = d.dump(n.Else)
	}
	return d.annotate(n, m), nil
}

func (d *astDumper) VisitWhile(n *ast.WhileNode) (any, error) {
	return d.annotate(n, map[string]any{"cond": d.dump(n.Cond), "body": d.dump(n.Body)}), nil
}

func (d *astDumper) VisitFor(n *ast.ForNode) (any, error) {
	return d.annotate(n, map[string]any{
		"init": d.dump(n.Init), "cond": d.dump(n.Cond), "inc": d.dump(n.Inc), "body": d.dump(n.Body),
	}), nil
}

func (d *astDumper) VisitReturn(n *ast.ReturnNode) (any, error) {
	return d.annotate(n, map[string]any{"value": d.dump(n.Value)}), nil
}

func (d *astDumper) VisitFuncall(n *ast.FuncallNode) (any, error) {
	args := make([]any, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, d.dump(a))
	}
	return d.annotate(n, map[string]any{"name": n.Name, "args": args}), nil
}

func (d *astDumper) VisitExprStmt(n *ast.ExprStmtNode) (any, error) {
	return d.annotate(n, map[string]any{"expr": d.dump(n.Expr)}), nil
}

func (d *astDumper) VisitNull(n *ast.NullNode) (any, error) {
	return d.annotate(n, map[string]any{}), nil
}

func (d *astDumper) VisitSizeof(n *ast.SizeofNode) (any, error) {
	return d.annotate(n, map[string]any{"val": n.Val}), nil
}
