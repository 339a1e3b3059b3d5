// Package cmd implements the CLI application to manage a journal.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/journal"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// journalCommands act on the entries of the journal.
var journalCommands = []subcommands.Command{
	&addCmd{},
	&listCmd{},
	&getCmd{},
	&updateCmd{},
	&deleteCmd{},
	&shellCmd{},
}

// toolCommands maintain the journal file or document the application.
var toolCommands = []subcommands.Command{
	&fmtCmd{},
	&topicCmd{},
}

// Commands lists every jrnl subcommand.
var Commands = append(append([]subcommands.Command{}, journalCommands...), toolCommands...)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
	for _, cmd := range journalCommands {
		c.Register(cmd, "journal")
	}
	for _, cmd := range toolCommands {
		c.Register(cmd, "tools")
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var journalFile = flag.String("file", "entries.txt", "Path to the journal file (JSONL format)")
var displayCurrency = flag.String("currency", "EUR", "Currency used to display amounts, empty for raw values")
var plain = flag.Bool("plain", false, "Print raw markdown instead of styling it for the terminal")

// Verbose enables logging.
var Verbose = flag.Bool("v", false, "Verbose output")

// envFlags maps global flags to the environment variable that can set them.
var envFlags = map[string]string{
	"file":     EnvJournalFile,
	"currency": EnvCurrency,
	"v":        EnvVerbose,
}

// LoadConfig completes the parsed global flags with the environment.
//
// A .env file in the working directory is loaded first, without overriding
// variables already set. Flags set on the command line always win.
func LoadConfig(f *flag.FlagSet) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env file: %w", err)
	}

	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	for name, env := range envFlags {
		value, ok := os.LookupEnv(env)
		if !ok || set[name] || f.Lookup(name) == nil {
			continue
		}
		if err := f.Set(name, value); err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, env, err)
		}
	}

	if !*Verbose {
		log.SetOutput(io.Discard)
	}
	return nil
}

// OpenJournal opens the journal file selected by the global flags.
func OpenJournal() (*journal.Store, error) {
	s, err := journal.Open(*journalFile)
	if err != nil {
		return nil, fmt.Errorf("could not load journal: %w", err)
	}
	return s, nil
}

// renderMarkdown styles markdown for the terminal, unless plain output is requested.
func renderMarkdown(md string) string {
	if *plain {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		log.Printf("cannot create markdown renderer: %v", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		return md
	}
	return out
}

func printMarkdown(md string) { fmt.Print(renderMarkdown(md)) }

// failure reports err on stderr and returns the matching exit status.
func failure(err error) subcommands.ExitStatus {
	if journal.IsFatal(err) {
		fmt.Fprintf(os.Stderr, "Fatal: %v\nThe journal file may not reflect the last change.\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// parseID reads the entry ID given as the single positional argument.
func parseID(f *flag.FlagSet) (int, error) {
	if f.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one entry id, got %d arguments", f.NArg())
	}
	id, err := strconv.Atoi(f.Arg(0))
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid entry id %q", f.Arg(0))
	}
	return id, nil
}
