package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	entries := []CartEntry{
		{Name: "Shirt", Price: decimal.NewFromInt(1000), Quantity: 2},
		{Name: "Hat", Price: decimal.RequireFromString("499.50"), Quantity: 1},
	}

	totals := ComputeTotals(entries)

	assert.Equal(t, "2499.5", totals.Total.String())
	assert.Equal(t, 3, totals.Count)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.Total.IsZero())
	assert.Equal(t, 0, totals.Count)
}

func TestNewSnapshot_IsIndependentCopy(t *testing.T) {
	entries := []CartEntry{{Name: "Shirt", Price: decimal.NewFromInt(1000), Quantity: 1}}

	snap := NewSnapshot(entries)
	snap.Entries[0].Quantity = 99

	assert.Equal(t, 1, entries[0].Quantity)
	assert.False(t, snap.IsEmpty())
}
