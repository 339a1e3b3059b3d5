package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/journal/shell"
	"github.com/google/subcommands"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "start an interactive session on the journal" }
func (*shellCmd) Usage() string {
	return `jrnl shell [<input>...]

  Starts an interactive session to add, list, get, update and delete entries.
  This is also what jrnl does when called without a subcommand.
  Arguments are processed first, as if they had been typed.

Usage Examples:
$ jrnl shell list exit
`
}

func (*shellCmd) SetFlags(f *flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return RunShell(ctx, f.Args()...)
}

// RunShell runs an interactive session on the journal, on the standard input and output.
func RunShell(ctx context.Context, inputs ...string) subcommands.ExitStatus {
	store, err := OpenJournal()
	if err != nil {
		return failure(err)
	}
	sh := shell.New(store, os.Stdout, os.Stdin)
	sh.Currency = *displayCurrency
	sh.Render = renderMarkdown

	if err := sh.Run(ctx, inputs...); err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}
