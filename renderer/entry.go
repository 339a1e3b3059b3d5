package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/etnz/journal"
	"github.com/shopspring/decimal"
)

// entryView is the template facing form of a journal.Entry: every field is already formatted.
type entryView struct {
	ID         int
	Date       string
	Account    int
	Debit      string
	Credit     string
	Total      string
	Reconciled string
}

func newEntryView(e journal.Entry, currency string) entryView {
	reconciled := ""
	if e.Reconciled {
		reconciled = "✓"
	}
	return entryView{
		ID:         e.ID,
		Date:       e.Date.String(),
		Account:    e.AccountID,
		Debit:      Money(e.Debit, currency),
		Credit:     Money(e.Credit, currency),
		Total:      Money(e.Total, currency),
		Reconciled: reconciled,
	}
}

// Money formats an amount in currency, rounded to the currency's minor unit.
//
// An empty currency prints the exact decimal value, an unknown one or an amount
// too large to be counted in minor units prints the exact value followed by the code.
func Money(v decimal.Decimal, currency string) string {
	if currency == "" {
		return v.String()
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return v.String() + " " + currency
	}
	minor := v.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		// Out of go-money's int64 range.
		return v.String() + " " + cur.Code
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}

