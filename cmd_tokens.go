package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nanocc/lexer"
	"nanocc/preprocess"
	"nanocc/source"
)

// tokensCmd stops the pipeline right after preprocessing and prints the
// resulting token stream, one token per line. It exists for the same
// reason every real front end grows one: seeing what the tokenizer and
// macro expander actually produced is the fastest way to find out which
// stage introduced a bug.
type tokensCmd struct {
	raw bool
}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Print the token stream for a source file" }
func (*tokensCmd) Usage() string {
	return `tokens <file.c>:
  Print the token stream produced by the tokenizer and preprocessor.
`
}

func (cmd *tokensCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.raw, "raw", false, "skip preprocessing and print the tokenizer's raw output")
}

func (cmd *tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if !cmd.raw {
		pp := preprocess.New(os.ReadFile)
		toks, err = pp.Process(toks, buf.Name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		for _, w := range pp.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	for tok := toks; tok != nil; tok = tok.Next {
		fmt.Println(tok)
		if tok.IsEOF() {
			break
		}
	}
	return subcommands.ExitSuccess
}
