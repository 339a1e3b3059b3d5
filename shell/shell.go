// Package shell implements the interactive command loop of jrnl.
//
// The shell is a thin collaborator of journal.Store: it reads commands and
// their arguments line by line, calls the store and prints the outcome.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/journal"
	"github.com/etnz/journal/date"
	"github.com/etnz/journal/renderer"
	"github.com/shopspring/decimal"
)

const (
	prompt   = "jrnl> "
	welcome  = "Welcome to jrnl, the journal manager."
	commands = "Commands: add, list, update, delete, get, help, exit"
)

// Shell is an interactive session on a journal.
type Shell struct {
	store *journal.Store
	w     io.Writer
	r     *bufio.Reader
	// inputs are scripted lines, consumed before reading from r.
	inputs []string

	// Currency is the currency used to display amounts. Empty prints raw values.
	Currency string
	// Render turns markdown into its final form before printing. Nil prints markdown.
	Render func(markdown string) string
}

// New creates a Shell on store, writing to w and reading user input from r.
func New(store *journal.Store, w io.Writer, r io.Reader) *Shell {
	return &Shell{
		store: store,
		w:     w,
		r:     bufio.NewReader(r),
	}
}

// Run starts the interactive session.
//
// inputs are processed first, as if typed by the user. Run returns nil on
// "exit" or at the end of the input. Errors that leave the journal unusable
// (see journal.IsFatal) end the session and are returned.
func (s *Shell) Run(ctx context.Context, inputs ...string) error {
	s.inputs = inputs

	fmt.Fprintln(s.w, welcome)
	fmt.Fprintln(s.w)
	fmt.Fprintln(s.w, commands)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(s.w)
		cmd, err := s.ask(prompt)
		if err != nil {
			return ignoreEOF(err)
		}

		switch strings.ToLower(cmd) {
		case "":
			continue
		case "add":
			err = s.add()
		case "list":
			err = s.list()
		case "get":
			err = s.get()
		case "update":
			err = s.update()
		case "delete":
			err = s.delete()
		case "help":
		case "exit":
			fmt.Fprintln(s.w, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(s.w, "Unknown command.")
		}
		if err != nil {
			return ignoreEOF(err)
		}
		fmt.Fprintln(s.w)
		fmt.Fprintln(s.w, commands)
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil // Clean exit on Ctrl+D
	}
	return err
}

// ask prints label and returns the next trimmed input line.
func (s *Shell) ask(label string) (string, error) {
	fmt.Fprint(s.w, label)

	// Flush scripted inputs and then ask for the user.
	if len(s.inputs) > 0 {
		var input string
		input, s.inputs = s.inputs[0], s.inputs[1:]
		fmt.Fprintln(s.w, input)
		return strings.TrimSpace(input), nil
	}

	input, err := s.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *Shell) print(markdown string) {
	if s.Render != nil {
		markdown = s.Render(markdown)
	}
	fmt.Fprint(s.w, markdown)
}

// failed reports err to the user, unless it is fatal in which case it is returned.
func (s *Shell) failed(err error, message string) error {
	if journal.IsFatal(err) {
		return err
	}
	fmt.Fprintln(s.w, message)
	return nil
}

func (s *Shell) add() error {
	input, err := s.ask("journal_date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	day, err := date.Parse(input)
	if err != nil {
		fmt.Fprintln(s.w, "Invalid date format.")
		return nil
	}

	candidate := journal.Entry{Date: day}
	if candidate.AccountID, err = s.askID("account_id: ", 0); err != nil {
		return err
	}
	if candidate.Debit, err = s.askAmount("amount_debt: ", decimal.Zero); err != nil {
		return err
	}
	if candidate.Credit, err = s.askAmount("amount_credit: ", decimal.Zero); err != nil {
		return err
	}
	input, err = s.ask("reconciled (true/false): ")
	if err != nil {
		return err
	}
	candidate.Reconciled = input == "true"

	e, err := s.store.Add(candidate)
	if err != nil {
		return s.failed(err, "Add failed.")
	}
	fmt.Fprintf(s.w, "Entry %d added.\n", e.ID)
	return nil
}

func (s *Shell) list() error {
	fmt.Fprintln(s.w, "Current Entries:")
	s.print(renderer.Entries(s.store.List(), s.Currency))
	return nil
}

func (s *Shell) get() error {
	id, err := s.askID("id: ", 0)
	if err != nil {
		return err
	}
	e, ok := s.store.Get(id)
	if !ok {
		fmt.Fprintln(s.w, "Entry not found.")
		return nil
	}
	s.print(renderer.Entry(e, s.Currency))
	return nil
}

// update asks for every field, an empty answer keeps the current value.
func (s *Shell) update() error {
	id, err := s.askID("id: ", 0)
	if err != nil {
		return err
	}
	orig, ok := s.store.Get(id)
	if !ok {
		fmt.Fprintln(s.w, "Entry not found.")
		return nil
	}

	replacement := orig
	input, err := s.ask(fmt.Sprintf("journal_date (YYYY-MM-DD) [%s]: ", orig.Date))
	if err != nil {
		return err
	}
	if input != "" {
		if replacement.Date, err = date.Parse(input); err != nil {
			fmt.Fprintln(s.w, "Invalid date format.")
			return nil
		}
	}
	if replacement.AccountID, err = s.askID(fmt.Sprintf("account_id [%d]: ", orig.AccountID), orig.AccountID); err != nil {
		return err
	}
	if replacement.Debit, err = s.askAmount(fmt.Sprintf("amount_debt [%s]: ", orig.Debit), orig.Debit); err != nil {
		return err
	}
	if replacement.Credit, err = s.askAmount(fmt.Sprintf("amount_credit [%s]: ", orig.Credit), orig.Credit); err != nil {
		return err
	}
	input, err = s.ask(fmt.Sprintf("reconciled (true/false) [%t]: ", orig.Reconciled))
	if err != nil {
		return err
	}
	switch input {
	case "true":
		replacement.Reconciled = true
	case "false":
		replacement.Reconciled = false
	}

	if _, err := s.store.Update(id, replacement); err != nil {
		return s.failed(err, "Update failed.")
	}
	fmt.Fprintln(s.w, "Entry updated.")
	return nil
}

func (s *Shell) delete() error {
	id, err := s.askID("id: ", 0)
	if err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return s.failed(err, "Delete failed.")
	}
	fmt.Fprintln(s.w, "Entry deleted.")
	return nil
}

// askID reads a non negative integer, def is returned when the input is not one.
func (s *Shell) askID(label string, def int) (int, error) {
	input, err := s.ask(label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(input)
	if err != nil || v < 0 {
		return def, nil
	}
	return v, nil
}

// askAmount reads a decimal amount, def is returned when the input is not one.
func (s *Shell) askAmount(label string, def decimal.Decimal) (decimal.Decimal, error) {
	input, err := s.ask(label)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(input)
	if err != nil {
		return def, nil
	}
	return v, nil
}
