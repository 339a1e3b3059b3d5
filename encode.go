package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/etnz/journal/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// record is the wire form of an Entry. Pointers tell a missing field apart from a zero value.
type record struct {
	ID         *int             `json:"id"`
	Date       *date.Date       `json:"journal_date"`
	AccountID  *int             `json:"account_id"`
	Debit      *decimal.Decimal `json:"amount_debt"`
	Credit     *decimal.Decimal `json:"amount_credit"`
	Total      *decimal.Decimal `json:"total"`
	Reconciled *bool            `json:"reconciled"`
	Status     *Tombstone       `json:"isdeleted"`
}

// missing returns the name of the first field absent from the record, or "".
func (r record) missing() string {
	switch {
	case r.ID == nil:
		return "id"
	case r.Date == nil:
		return "journal_date"
	case r.AccountID == nil:
		return "account_id"
	case r.Debit == nil:
		return "amount_debt"
	case r.Credit == nil:
		return "amount_credit"
	case r.Total == nil:
		return "total"
	case r.Reconciled == nil:
		return "reconciled"
	case r.Status == nil:
		return "isdeleted"
	}
	return ""
}

// DecodeEntry decodes a single JSON record. Every field is required.
//
// The total is decoded as stored: recomputing it is the Store's job.
func DecodeEntry(line []byte) (Entry, error) {
	var r record
	if err := json.Unmarshal(line, &r); err != nil {
		return Entry{}, fmt.Errorf("invalid entry record: %w", err)
	}
	if field := r.missing(); field != "" {
		return Entry{}, fmt.Errorf("invalid entry record: missing field %q", field)
	}
	if *r.ID < 0 || int64(*r.ID) > MaxID {
		return Entry{}, fmt.Errorf("invalid entry record: id %d out of range [0, %d]", *r.ID, int64(MaxID))
	}
	return Entry{
		ID:         *r.ID,
		Date:       *r.Date,
		AccountID:  *r.AccountID,
		Debit:      *r.Debit,
		Credit:     *r.Credit,
		Total:      *r.Total,
		Reconciled: *r.Reconciled,
		Status:     *r.Status,
	}, nil
}

// DecodeEntries reads a JSONL stream of entries.
//
// Lines that cannot be decoded are dropped and counted in skipped, so that a
// truncated trailing write does not make the whole journal unreadable. Only a
// failure to read from r is reported as an error.
func DecodeEntries(r io.Reader) (entries []Entry, skipped int, err error) {
	// A bufio.Reader rather than a Scanner: records have no length limit.
	br := bufio.NewReader(r)
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, skipped, fmt.Errorf("error reading from input: %w", readErr)
		}

		if line = bytes.TrimSpace(line); len(line) > 0 {
			if e, err := DecodeEntry(line); err == nil {
				entries = append(entries, e)
			} else {
				skipped++
			}
		}

		if readErr != nil { // io.EOF
			return entries, skipped, nil
		}
	}
}

// EncodeEntry marshals a single entry to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeEntry(w io.Writer, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry %d: %w", e.ID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write entry %d: %w", e.ID, err)
	}
	return nil
}

// EncodeEntries writes all entries, in order, to w in JSONL format.
func EncodeEntries(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if err := EncodeEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}
