package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/journal"
	"github.com/etnz/journal/date"
	"github.com/etnz/journal/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// --- Add Command ---

type addCmd struct {
	date       string
	account    int
	debit      string
	credit     string
	reconciled bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a new entry to the journal" }
func (*addCmd) Usage() string {
	return `jrnl add [-d <date>] -a <account> [-debit <amount>] [-credit <amount>] [-r]

  Adds an entry to the journal. The account is required, the date defaults to
  today and amounts to 0. The ID is assigned by the journal and the total is
  computed as debit minus credit.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Journal date (YYYY-MM-DD)")
	f.IntVar(&c.account, "a", 0, "Account ID")
	f.StringVar(&c.debit, "debit", "0", "Debit amount")
	f.StringVar(&c.credit, "credit", "0", "Credit amount")
	f.BoolVar(&c.reconciled, "r", false, "Mark the entry as reconciled")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	accountSet := false
	f.Visit(func(fl *flag.Flag) { accountSet = accountSet || fl.Name == "a" })
	if f.NArg() != 0 || !accountSet || c.account < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	debit, err := decimal.NewFromString(c.debit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing debit: %v\n", err)
		return subcommands.ExitUsageError
	}
	credit, err := decimal.NewFromString(c.credit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing credit: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, err := OpenJournal()
	if err != nil {
		return failure(err)
	}
	e, err := store.Add(journal.NewEntry(day, c.account, debit, credit, c.reconciled))
	if err != nil {
		return failure(err)
	}
	fmt.Printf("Entry %d added to %s\n", e.ID, store.Path())
	return subcommands.ExitSuccess
}

// --- List Command ---

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list all entries of the journal" }
func (*listCmd) Usage() string {
	return `jrnl list

  Lists the entries that have not been deleted, in the order they were added.
`
}

func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (*listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenJournal()
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.Entries(store.List(), *displayCurrency))
	return subcommands.ExitSuccess
}

// --- Get Command ---

type getCmd struct{}

func (*getCmd) Name() string     { return "get" }
func (*getCmd) Synopsis() string { return "show a single entry" }
func (*getCmd) Usage() string {
	return `jrnl get <id>

  Shows the entry with this ID, unless it has been deleted.
`
}

func (*getCmd) SetFlags(f *flag.FlagSet) {}

func (*getCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseID(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	store, err := OpenJournal()
	if err != nil {
		return failure(err)
	}
	e, ok := store.Get(id)
	if !ok {
		return failure(fmt.Errorf("entry %d: %w", id, journal.ErrNotFound))
	}
	printMarkdown(renderer.Entry(e, *displayCurrency))
	return subcommands.ExitSuccess
}

// --- Update Command ---

type updateCmd struct {
	date       string
	account    int
	debit      string
	credit     string
	reconciled bool
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change the fields of an entry" }
func (*updateCmd) Usage() string {
	return `jrnl update [-d <date>] [-a <account>] [-debit <amount>] [-credit <amount>] [-r=<true|false>] <id>

  Updates the entry with this ID. Only the fields given as flags change, the
  total is computed again. Deleted entries cannot be updated.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Journal date (YYYY-MM-DD)")
	f.IntVar(&c.account, "a", 0, "Account ID")
	f.StringVar(&c.debit, "debit", "", "Debit amount")
	f.StringVar(&c.credit, "credit", "", "Credit amount")
	f.BoolVar(&c.reconciled, "r", false, "Reconciled flag")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseID(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	store, err := OpenJournal()
	if err != nil {
		return failure(err)
	}
	replacement, ok := store.Get(id)
	if !ok {
		return failure(fmt.Errorf("entry %d: %w", id, journal.ErrNotFound))
	}

	// Only flags explicitly set replace the current values.
	var errs error
	f.Visit(func(fl *flag.Flag) {
		var err error
		switch fl.Name {
		case "d":
			replacement.Date, err = date.Parse(c.date)
		case "a":
			if c.account < 0 {
				err = fmt.Errorf("invalid account %d", c.account)
			}
			replacement.AccountID = c.account
		case "debit":
			replacement.Debit, err = decimal.NewFromString(c.debit)
		case "credit":
			replacement.Credit, err = decimal.NewFromString(c.credit)
		case "r":
			replacement.Reconciled = c.reconciled
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("-%s: %w", fl.Name, err))
		}
	})
	if errs != nil {
		fmt.Fprintln(os.Stderr, errs)
		return subcommands.ExitUsageError
	}

	e, err := store.Update(id, replacement)
	if err != nil {
		return failure(err)
	}
	fmt.Printf("Entry %d updated, total %s\n", e.ID, renderer.Money(e.Total, *displayCurrency))
	return subcommands.ExitSuccess
}

// --- Delete Command ---

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete an entry" }
func (*deleteCmd) Usage() string {
	return `jrnl delete <id>

  Marks the entry with this ID as deleted. The entry stays in the journal file
  but is hidden from every other command. Its ID is never reused.
`
}

func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseID(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	store, err := OpenJournal()
	if err != nil {
		return failure(err)
	}
	if err := store.Delete(id); err != nil {
		return failure(err)
	}
	fmt.Printf("Entry %d deleted\n", id)
	return subcommands.ExitSuccess
}
