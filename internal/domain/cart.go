package domain

import (
	"github.com/shopspring/decimal"
)

// CartEntry is one distinct product in the cart, keyed by Name.
type CartEntry struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    string
}

// LineTotal is Price x Quantity.
func (e CartEntry) LineTotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

type Totals struct {
	Total decimal.Decimal
	Count int
}

// ComputeTotals sums line totals and quantities.
func ComputeTotals(entries []CartEntry) Totals {
	t := Totals{Total: decimal.Zero}
	for _, e := range entries {
		t.Total = t.Total.Add(e.LineTotal())
		t.Count += e.Quantity
	}
	return t
}

// Snapshot is a read-only copy of the cart handed to render targets and
// checkout.
type Snapshot struct {
	Entries []CartEntry
	Totals  Totals
}

func NewSnapshot(entries []CartEntry) Snapshot {
	return Snapshot{
		Entries: CloneEntries(entries),
		Totals:  ComputeTotals(entries),
	}
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Entries) == 0
}

func CloneEntries(entries []CartEntry) []CartEntry {
	out := make([]CartEntry, len(entries))
	copy(out, entries)
	return out
}
