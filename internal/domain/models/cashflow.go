package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlow is a signed monetary amount tied to a calendar date.
//
// Negative amounts leave the investor (buys, the opening valuation of a period),
// positive amounts return to the investor (sells, dividends, the closing valuation).
type CashFlow struct {
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
	Date   time.Time       `json:"date" yaml:"date"`
}

// NewCashFlow builds a CashFlow with its date truncated to midnight UTC.
func NewCashFlow(amount decimal.Decimal, date time.Time) CashFlow {
	return CashFlow{Amount: amount, Date: DateOnly(date)}
}

// DateOnly drops the clock part of t and pins it to UTC so day arithmetic is exact.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from -> to.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
