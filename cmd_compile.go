package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nanocc/compiler"
)

// compileCmd is the default end-to-end driver: a source path in, x86-64
// assembly on stdout, per the compiler's external interface contract.
type compileCmd struct{}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a source file to x86-64 assembly" }
func (*compileCmd) Usage() string {
	return `compile <file.c>:
  Compile file.c and write AT&T-syntax assembly to stdout.
`
}
func (*compileCmd) SetFlags(f *flag.FlagSet) {}

func (*compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 no source file given\n")
		return subcommands.ExitUsageError
	}

	result, err := compiler.Compile(args[0], os.ReadFile, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return subcommands.ExitSuccess
}
