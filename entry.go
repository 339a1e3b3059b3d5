package journal

import (
	"fmt"
	"math"

	"github.com/etnz/journal/date"
	"github.com/shopspring/decimal"
)

// Tombstone is the two-valued deletion tag of an Entry.
//
// It is persisted as a plain string to stay compatible with existing journal
// files. Only Live makes an entry visible: any other value, including unknown
// ones found in a file, hides it.
type Tombstone string

const (
	Live    Tombstone = "no"
	Deleted Tombstone = "yes"
)

// MaxID is the largest entry ID a journal file may hold.
const MaxID = math.MaxUint32

// Entry is one line item of the journal.
type Entry struct {
	ID         int             `json:"id"`
	Date       date.Date       `json:"journal_date"`
	AccountID  int             `json:"account_id"`
	Debit      decimal.Decimal `json:"amount_debt"`
	Credit     decimal.Decimal `json:"amount_credit"`
	Total      decimal.Decimal `json:"total"`
	Reconciled bool            `json:"reconciled"`
	Status     Tombstone       `json:"isdeleted"`
}

// NewEntry returns a live entry without an ID, ready to be added to a Store.
func NewEntry(day date.Date, account int, debit, credit decimal.Decimal, reconciled bool) Entry {
	e := Entry{
		Date:       day,
		AccountID:  account,
		Debit:      debit,
		Credit:     credit,
		Reconciled: reconciled,
		Status:     Live,
	}
	e.Total = e.Balance()
	return e
}

// Balance returns the debit minus the credit of the entry.
func (e Entry) Balance() decimal.Decimal { return e.Debit.Sub(e.Credit) }

// validate checks that e would be decoded back as written.
func (e Entry) validate() error {
	if !e.Date.Valid() {
		return fmt.Errorf("%w: date %v is not a YYYY-MM-DD date", ErrInvalidEntry, e.Date)
	}
	return nil
}

// IsDeleted reports whether the entry has been logically deleted.
func (e Entry) IsDeleted() bool { return e.Status != Live }

// Equal reports whether both entries hold the same values.
//
// Decimals are compared by value, so 60 and 60.0 are equal.
func (e Entry) Equal(x Entry) bool {
	return e.ID == x.ID &&
		e.Date == x.Date &&
		e.AccountID == x.AccountID &&
		e.Debit.Equal(x.Debit) &&
		e.Credit.Equal(x.Credit) &&
		e.Total.Equal(x.Total) &&
		e.Reconciled == x.Reconciled &&
		e.Status == x.Status
}
