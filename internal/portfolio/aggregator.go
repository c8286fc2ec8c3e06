// Package portfolio turns transactions and quotes into sums and valuations.
package portfolio

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/query"
	"github.com/shopspring/decimal"
)

// TransactionExecutor runs a transaction query. The order of the result is not significant.
type TransactionExecutor interface {
	Execute(ctx context.Context, q query.Query) ([]models.Transaction, error)
}

// QuoteLookup returns the latest quote of a stock at or before date, or nil when there is none.
type QuoteLookup interface {
	LastQuoteBefore(ctx context.Context, stockID string, date time.Time) (*models.Quote, error)
}

// PriceSource tells where the valuation price of a position came from.
type PriceSource string

const (
	PriceFromQuote       PriceSource = "quote"
	PriceFromTransaction PriceSource = "transaction"
)

// Position is the valuation of one stock at a date.
type Position struct {
	Stock       models.Stock    `json:"stock"`
	Shares      decimal.Decimal `json:"shares"`
	Price       decimal.Decimal `json:"price"`
	PriceSource PriceSource     `json:"price_source"`
	Value       decimal.Decimal `json:"value"`
}

// Aggregator reads transactions and quotes; it holds no other state.
type Aggregator struct {
	transactions TransactionExecutor
	quotes       QuoteLookup
}

// NewAggregator returns an Aggregator over the given transaction and quote sources.
func NewAggregator(transactions TransactionExecutor, quotes QuoteLookup) *Aggregator {
	return &Aggregator{transactions: transactions, quotes: quotes}
}

// SumInpayments returns the money invested by the buyings matched by q, net of order costs.
func (a *Aggregator) SumInpayments(ctx context.Context, q query.Query) (decimal.Decimal, error) {
	txs, err := a.transactions.Execute(ctx, q)
	if err != nil {
		return decimal.Zero, fmt.Errorf("inpayments: %w", err)
	}
	return Inpayments(txs), nil
}

// SumDividends returns the dividends matched by q, net of order costs and taxes.
func (a *Aggregator) SumDividends(ctx context.Context, q query.Query) (decimal.Decimal, error) {
	txs, err := a.transactions.Execute(ctx, q)
	if err != nil {
		return decimal.Zero, fmt.Errorf("dividends: %w", err)
	}
	return Dividends(txs), nil
}

// SumCapital values every position held through the transactions matched by q at asOf.
func (a *Aggregator) SumCapital(ctx context.Context, q query.Query, asOf time.Time) (decimal.Decimal, error) {
	positions, err := a.OpenPositions(ctx, q, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, p := range positions {
		sum = sum.Add(p.Value)
	}
	return sum, nil
}

// OpenPositions returns one Position per stock that has a buying or a selling in q.
//
// The price is the close of the last quote at or before asOf; without a quote it
// falls back to the price per share of the stock's most recent transaction.
// Net shares are not floored: selling more than was bought yields a negative
// position that is still valued.
func (a *Aggregator) OpenPositions(ctx context.Context, q query.Query, asOf time.Time) ([]Position, error) {
	txs, err := a.transactions.Execute(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("capital: %w", err)
	}

	var positions []Position
	for _, stock := range tradedStocks(txs) {
		history := mostRecentFirst(txs, stock.ID)
		shares := NetShares(history)

		quote, err := a.quotes.LastQuoteBefore(ctx, stock.ID, asOf)
		if err != nil {
			return nil, fmt.Errorf("capital: quote for %s: %w", stock.ID, err)
		}

		p := Position{Stock: stock, Shares: shares}
		if quote != nil {
			p.Price, p.PriceSource = quote.Close, PriceFromQuote
		} else {
			p.Price, p.PriceSource = history[0].Details().PricePerShare, PriceFromTransaction
		}
		p.Value = p.Price.Mul(shares)
		positions = append(positions, p)
	}
	return positions, nil
}

// Inpayments sums PositionSize - OrderCosts over buyings.
func Inpayments(txs []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if b, ok := t.(*models.Buying); ok {
			sum = sum.Add(b.PositionSize.Sub(b.OrderCosts))
		}
	}
	return sum
}

// Dividends sums PositionSize - OrderCosts - Taxes over dividends.
func Dividends(txs []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if d, ok := t.(*models.Dividend); ok {
			sum = sum.Add(d.PositionSize.Sub(d.OrderCosts).Sub(d.Taxes))
		}
	}
	return sum
}

// NetShares is the signed share count: buyings add, sellings subtract, dividends are ignored.
func NetShares(txs []models.Transaction) decimal.Decimal {
	shares := decimal.Zero
	for _, t := range txs {
		switch tr := t.(type) {
		case *models.Buying:
			shares = shares.Add(tr.Shares)
		case *models.Selling:
			shares = shares.Sub(tr.Shares)
		case *models.Dividend:
		}
	}
	return shares
}

// tradedStocks lists the stocks of non-dividend transactions in first-seen order.
func tradedStocks(txs []models.Transaction) []models.Stock {
	seen := make(map[string]struct{})
	var stocks []models.Stock
	for _, t := range txs {
		if _, ok := t.(*models.Dividend); ok {
			continue
		}
		s := t.Details().Stock
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		stocks = append(stocks, s)
	}
	return stocks
}

// mostRecentFirst returns every transaction of stockID, dividends included,
// ordered by descending order date. Ties keep their input order.
func mostRecentFirst(txs []models.Transaction, stockID string) []models.Transaction {
	var out []models.Transaction
	for _, t := range txs {
		if t.Details().Stock.ID == stockID {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		return cmp.Compare(b.Details().OrderDate.Unix(), a.Details().OrderDate.Unix())
	})
	return out
}
