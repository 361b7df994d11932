// Package money formats naira amounts the way the storefront shows them.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const Symbol = "₦"

var (
	printer  = message.NewPrinter(language.English)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// Format renders d with grouped thousands and at most two decimals:
// 1500 -> "₦1,500", 1500.5 -> "₦1,500.5".
func Format(d decimal.Decimal) string {
	return Symbol + Plain(d)
}

// Plain is Format without the currency symbol. The amount never passes
// through a float.
func Plain(d decimal.Decimal) string {
	r := d.Round(2)
	neg := r.IsNegative()
	r = r.Abs()

	whole := r.Truncate(0)
	out := groupWhole(whole)
	if frac := r.Sub(whole); !frac.IsZero() {
		out += strings.TrimPrefix(frac.String(), "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

func groupWhole(whole decimal.Decimal) string {
	if whole.LessThanOrEqual(maxInt64) {
		return printer.Sprintf("%v", number.Decimal(whole.IntPart()))
	}

	digits := whole.String()
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
