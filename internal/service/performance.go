package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/stockperf/internal/calendar"
	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/logger"
	"github.com/guttosm/stockperf/internal/performance"
	"github.com/guttosm/stockperf/internal/portfolio"
	"github.com/guttosm/stockperf/internal/query"
	"github.com/guttosm/stockperf/internal/xirr"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxTagWorkers bounds how many tags are summarised concurrently.
const maxTagWorkers = 4

// ErrInvalidPeriod is returned when a period ends before it starts.
var ErrInvalidPeriod = errors.New("end date is before start date")

// Filter narrows the transactions a calculation reads. Empty fields do not filter.
type Filter struct {
	StockIDs []string
	Tag      string
	Start    *time.Time
	End      *time.Time
}

func (f Filter) query() *query.Transactions {
	q := &query.Transactions{Tag: f.Tag}
	for _, id := range f.StockIDs {
		q.StockIDs = append(q.StockIDs, models.NormalizeStockID(id))
	}
	if f.Start != nil {
		q = q.From(*f.Start)
	}
	if f.End != nil {
		q = q.Until(*f.End)
	}
	return q
}

// TransactionSource executes transaction queries and lists the tags in use.
type TransactionSource interface {
	portfolio.TransactionExecutor
	Tags(ctx context.Context) ([]string, error)
}

// TagSummary holds the figures of the transactions sharing one tag.
type TagSummary struct {
	Tag         string
	Inpayments  decimal.Decimal
	Dividends   decimal.Decimal
	Capital     decimal.Decimal
	Performance decimal.Decimal
}

// PerformanceService defines the portfolio calculations exposed to the outer layers.
// This decouples HTTP handlers and the CLI from the data source.
type PerformanceService interface {
	Performance(ctx context.Context, f Filter, start, end time.Time) (decimal.Decimal, error)
	Capital(ctx context.Context, f Filter, asOf time.Time) (decimal.Decimal, error)
	Positions(ctx context.Context, f Filter, asOf time.Time) ([]portfolio.Position, error)
	Inpayments(ctx context.Context, f Filter) (decimal.Decimal, error)
	Dividends(ctx context.Context, f Filter) (decimal.Decimal, error)
	Solve(ctx context.Context, flows []models.CashFlow) (xirr.Outcome, error)
	Tags(ctx context.Context) ([]string, error)
	TagSummaries(ctx context.Context, start, end time.Time) ([]TagSummary, error)
}

type performanceService struct {
	transactions TransactionSource
	aggregator   *portfolio.Aggregator
	calculator   *performance.Calculator
	solver       *xirr.Solver
}

// NewPerformanceService wires the aggregator, the calculator and the solver on
// top of the given collaborators.
func NewPerformanceService(transactions TransactionSource, quotes portfolio.QuoteLookup) PerformanceService {
	agg := portfolio.NewAggregator(transactions, quotes)
	solver := xirr.NewSolver()
	return &performanceService{
		transactions: transactions,
		aggregator:   agg,
		calculator:   performance.NewCalculator(transactions, agg, solver, calendar.Gregorian{}),
		solver:       solver,
	}
}

func (s *performanceService) Performance(ctx context.Context, f Filter, start, end time.Time) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, ErrInvalidPeriod
	}
	// the period bounds come from start and end
	f.Start, f.End = nil, nil

	pct, err := s.calculator.PerformancePercentageOverPeriod(ctx, f.query(), start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("performance: %w", err)
	}
	logger.L().Debug().
		Str("start", start.Format(time.DateOnly)).
		Str("end", end.Format(time.DateOnly)).
		Str("tag", f.Tag).
		Strs("stock_ids", f.StockIDs).
		Str("percentage", pct.String()).
		Msg("performance calculated")
	return pct, nil
}

func (s *performanceService) Capital(ctx context.Context, f Filter, asOf time.Time) (decimal.Decimal, error) {
	f.Start, f.End = nil, &asOf
	return s.aggregator.SumCapital(ctx, f.query(), asOf)
}

func (s *performanceService) Positions(ctx context.Context, f Filter, asOf time.Time) ([]portfolio.Position, error) {
	f.Start, f.End = nil, &asOf
	return s.aggregator.OpenPositions(ctx, f.query(), asOf)
}

func (s *performanceService) Inpayments(ctx context.Context, f Filter) (decimal.Decimal, error) {
	if err := f.validate(); err != nil {
		return decimal.Zero, err
	}
	return s.aggregator.SumInpayments(ctx, f.query())
}

func (s *performanceService) Dividends(ctx context.Context, f Filter) (decimal.Decimal, error) {
	if err := f.validate(); err != nil {
		return decimal.Zero, err
	}
	return s.aggregator.SumDividends(ctx, f.query())
}

func (s *performanceService) Solve(_ context.Context, flows []models.CashFlow) (xirr.Outcome, error) {
	out, err := s.solver.Calculate(flows)
	if err != nil {
		return xirr.Outcome{}, fmt.Errorf("solve: %w", err)
	}
	logger.L().Debug().Int("flows", len(flows)).Str("kind", out.Kind.String()).Float64("rate", out.Rate).Msg("xirr solved")
	return out, nil
}

func (s *performanceService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.transactions.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	return tags, nil
}

// TagSummaries returns one summary per tag, in tag order. Sums and capital
// cover every transaction up to end; performance covers start to end.
func (s *performanceService) TagSummaries(ctx context.Context, start, end time.Time) ([]TagSummary, error) {
	if end.Before(start) {
		return nil, ErrInvalidPeriod
	}
	tags, err := s.Tags(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TagSummary, len(tags))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxTagWorkers)
	for i, tag := range tags {
		g.Go(func() error {
			sum, err := s.summarizeTag(gctx, tag, start, end)
			if err != nil {
				return fmt.Errorf("tag %q: %w", tag, err)
			}
			out[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.L().Debug().Int("tags", len(out)).Msg("tag summaries calculated")
	return out, nil
}

func (s *performanceService) summarizeTag(ctx context.Context, tag string, start, end time.Time) (TagSummary, error) {
	upToEnd := Filter{Tag: tag, End: &end}.query()
	sum := TagSummary{Tag: tag}

	var err error
	if sum.Inpayments, err = s.aggregator.SumInpayments(ctx, upToEnd); err != nil {
		return sum, err
	}
	if sum.Dividends, err = s.aggregator.SumDividends(ctx, upToEnd); err != nil {
		return sum, err
	}
	if sum.Capital, err = s.aggregator.SumCapital(ctx, upToEnd, end); err != nil {
		return sum, err
	}
	if sum.Performance, err = s.calculator.PerformancePercentageOverPeriod(ctx, Filter{Tag: tag}.query(), start, end); err != nil {
		return sum, err
	}
	return sum, nil
}

func (f Filter) validate() error {
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return ErrInvalidPeriod
	}
	return nil
}
