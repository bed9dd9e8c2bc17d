package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"nanocc/lexer"
	"nanocc/parser"
	"nanocc/typecheck"
)

// replCmd reads one snippet at a time from an interactive prompt and
// prints its token stream and typed AST, without needing a file on
// disk. It does not generate assembly: a snippet like "int x;" has no
// function to hang code inside, so the REPL stops at the two earlier
// stages a developer actually wants quick feedback from.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Interactively tokenize and parse snippets" }
func (*replCmd) Usage() string {
	return `repl:
  Read snippets from stdin and print their tokens and AST.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("nanocc snippet REPL — type a declaration or function, Ctrl-D to quit")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if line == "" {
			continue
		}
		evalSnippet(line)
	}
}

func evalSnippet(line string) {
	toks, err := lexer.New("<repl>", []byte(line)).Scan()
	if err != nil {
		fmt.Println(err)
		return
	}
	for tok := toks; tok != nil; tok = tok.Next {
		fmt.Println(" ", tok)
		if tok.IsEOF() {
			break
		}
	}

	prog, err := parser.New().Parse(toks)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := typecheck.Annotate(prog); err != nil {
		fmt.Println(err)
		return
	}
	printer := &astDumper{}
	for _, fn := range prog.Funcs {
		fmt.Printf("function %s:\n", fn.Name)
		for _, n := range fn.Body {
			fmt.Printf("  %v\n", printer.dump(n))
		}
	}
	for _, v := range prog.Globals {
		fmt.Printf("global %s: %s\n", v.Name, v.Type.String())
	}
}
