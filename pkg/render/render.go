// Package render centralizes the client-facing formatting rules: calendar
// dates travel as dd.mm.yyyy strings and exact decimals become JSON floats.
// Every read endpoint goes through these helpers so the wire format cannot
// drift between handlers.
package render

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the fixed client-facing date layout (dd.mm.yyyy).
const DateFormat = "02.01.2006"

// Date formats a calendar date for the client.
func Date(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a client-supplied date string. The zone is irrelevant:
// only the calendar date is kept.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateFormat, value)
}

// Amount converts an exact decimal to its floating display value. The
// conversion happens here and only here; all arithmetic stays decimal.
func Amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// NullableAmount converts an optional decimal, preserving null.
func NullableAmount(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// Quantity converts an exact quantity to its floating display value.
func Quantity(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
