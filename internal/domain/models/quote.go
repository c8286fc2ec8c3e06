package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the daily price record of a stock.
//
// Only Close takes part in valuations; Open, High and Low are kept because the
// daily quote files carry them.
type Quote struct {
	StockID string          `json:"stock_id" yaml:"stock_id"`
	Date    time.Time       `json:"date" yaml:"date"`
	Open    decimal.Decimal `json:"open" yaml:"open"`
	High    decimal.Decimal `json:"high" yaml:"high"`
	Low     decimal.Decimal `json:"low" yaml:"low"`
	Close   decimal.Decimal `json:"close" yaml:"close"`
}
