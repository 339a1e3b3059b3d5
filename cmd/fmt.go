package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "rewrites the journal file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `jrnl fmt

  Reads the journal file and writes it back in a canonical JSONL format.
  Lines that cannot be read as an entry are dropped, numbers and dates are
  normalized. Deleted entries are kept.

Usage Examples:
$ jrnl -file entries.txt fmt
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (*fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenJournal()
	if err != nil {
		return failure(err)
	}
	if err := store.Save(); err != nil {
		return failure(err)
	}
	fmt.Fprintf(os.Stderr, "Journal file %q has been formatted (%d entries).\n", store.Path(), store.Len())
	return subcommands.ExitSuccess
}
