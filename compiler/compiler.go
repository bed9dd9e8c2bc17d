// Package compiler wires the pipeline stages — tokenizer, preprocessor,
// parser, type annotator, code generator — into the single entry point
// the CLI and tests call. It owns nothing of its own beyond threading
// one file's bytes through those stages; all the interesting state
// (macro table, scope stacks, label counter) lives in the stage that
// needs it.
package compiler

import (
	"io"

	"nanocc/codegen"
	"nanocc/lexer"
	"nanocc/parser"
	"nanocc/preprocess"
	"nanocc/source"
	"nanocc/typecheck"
)

// Result carries side information produced alongside the assembly
// written to Compile's out parameter.
type Result struct {
	// Warnings are non-fatal preprocessor diagnostics (e.g. extra
	// tokens after a directive) collected during this compilation.
	Warnings []string
}

// Compile reads the file at path through opener, runs it through every
// pipeline stage, and writes the resulting x86-64 assembly to out.
func Compile(path string, opener source.Opener, out io.Writer) (*Result, error) {
	buf, err := source.Load(opener, path)
	if err != nil {
		return nil, err
	}

	toks, err := lexer.New(buf.Name, buf.Text).Scan()
	if err != nil {
		return nil, err
	}

	pp := preprocess.New(opener)
	toks, err = pp.Process(toks, buf.Name)
	if err != nil {
		return nil, err
	}

	prog, err := parser.New().Parse(toks)
	if err != nil {
		return nil, err
	}

	if err := typecheck.Annotate(prog); err != nil {
		return nil, err
	}

	if err := codegen.Generate(prog, out); err != nil {
		return nil, err
	}

	return &Result{Warnings: pp.Warnings()}, nil
}
