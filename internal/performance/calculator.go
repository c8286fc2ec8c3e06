// Package performance derives money-weighted return percentages from transactions.
package performance

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/guttosm/stockperf/internal/calendar"
	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/portfolio"
	"github.com/guttosm/stockperf/internal/query"
	"github.com/guttosm/stockperf/internal/xirr"
	"github.com/shopspring/decimal"
)

// ErrUnsupportedQuery is returned when a period calculation receives a query
// that cannot be narrowed by date.
var ErrUnsupportedQuery = errors.New("performance: query cannot be narrowed by date")

// RateSolver finds the rate that zeroes the present value of flows.
type RateSolver interface {
	Calculate(flows []models.CashFlow) (xirr.Outcome, error)
}

// CapitalSummer values the positions held through a query at a date.
type CapitalSummer interface {
	SumCapital(ctx context.Context, q query.Query, asOf time.Time) (decimal.Decimal, error)
}

// Calculator turns the flows of a query into an annualised return.
type Calculator struct {
	transactions portfolio.TransactionExecutor
	capital      CapitalSummer
	solver       RateSolver
	calendar     calendar.Calendar
}

// NewCalculator returns a Calculator. A nil cal falls back to the Gregorian calendar.
func NewCalculator(transactions portfolio.TransactionExecutor, capital CapitalSummer, solver RateSolver, cal calendar.Calendar) *Calculator {
	if cal == nil {
		cal = calendar.Gregorian{}
	}
	return &Calculator{
		transactions: transactions,
		capital:      capital,
		solver:       solver,
		calendar:     cal,
	}
}

// PerformancePercentageOverPeriod returns the annualised return in percent of the
// transactions of q between start and end.
//
// The portfolio held at the end of the year before start enters as an outflow
// valued at that date; the portfolio held at end enters as an inflow.
func (c *Calculator) PerformancePercentageOverPeriod(ctx context.Context, q query.Query, start, end time.Time) (decimal.Decimal, error) {
	base, ok := q.(*query.Transactions)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: got %T", ErrUnsupportedQuery, q)
	}

	priorYearEnd := calendar.EndOfPreviousYear(c.calendar, start)

	period := base.From(start).Until(end)
	untilEnd := base.Until(end)
	untilPriorYearEnd := base.Until(priorYearEnd)

	endCapital, err := c.capital.SumCapital(ctx, untilEnd, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("capital at %s: %w", end.Format(time.DateOnly), err)
	}
	beginCapital, err := c.capital.SumCapital(ctx, untilPriorYearEnd, priorYearEnd)
	if err != nil {
		return decimal.Zero, fmt.Errorf("capital at %s: %w", priorYearEnd.Format(time.DateOnly), err)
	}

	begin := models.NewCashFlow(beginCapital.Neg(), priorYearEnd)
	return c.PerformancePercentageIRR(ctx, period, &begin, models.NewCashFlow(endCapital, end))
}

// PerformancePercentageIRR returns the rate in percent, rounded to two places,
// of begin (optional), the transactions of q and end.
func (c *Calculator) PerformancePercentageIRR(ctx context.Context, q query.Query, begin *models.CashFlow, end models.CashFlow) (decimal.Decimal, error) {
	txs, err := c.transactions.Execute(ctx, q)
	if err != nil {
		return decimal.Zero, fmt.Errorf("transactions: %w", err)
	}

	outcome, err := c.solver.Calculate(CashFlows(txs, begin, end))
	if err != nil {
		return decimal.Zero, fmt.Errorf("irr: %w", err)
	}
	return Percentage(outcome.Rate), nil
}

// Percentage converts a rate to percent with banker's rounding to two places.
func Percentage(rate float64) decimal.Decimal {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).RoundBank(2)
}

// CashFlows builds the solver input: begin when given, one flow per transaction
// in ascending order date, then end.
func CashFlows(txs []models.Transaction, begin *models.CashFlow, end models.CashFlow) []models.CashFlow {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b models.Transaction) int {
		return cmp.Compare(a.Details().OrderDate.Unix(), b.Details().OrderDate.Unix())
	})

	flows := make([]models.CashFlow, 0, len(sorted)+2)
	if begin != nil {
		flows = append(flows, *begin)
	}
	for _, t := range sorted {
		flows = append(flows, models.NewCashFlow(flowAmount(t), t.Details().OrderDate))
	}
	return append(flows, end)
}

func flowAmount(t models.Transaction) decimal.Decimal {
	switch tr := t.(type) {
	case *models.Buying:
		return tr.PositionSize.Add(tr.OrderCosts).Neg()
	case *models.Selling:
		return tr.PositionSize.Sub(tr.OrderCosts).Sub(tr.Taxes)
	case *models.Dividend:
		return tr.PositionSize.Sub(tr.OrderCosts).Sub(tr.Taxes)
	}
	return decimal.Zero
}
