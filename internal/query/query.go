// Package query describes which transactions a calculation reads.
package query

import (
	"slices"
	"time"

	"github.com/guttosm/stockperf/internal/domain/models"
)

// Query selects transactions. Implementations are *Transactions and ByIDs.
type Query interface {
	isQuery()
}

// Transactions is the filterable query: every non-empty filter narrows the result.
//
// Start and End are inclusive order-date bounds; nil means unbounded.
type Transactions struct {
	StockIDs []string
	Tag      string
	Start    *time.Time
	End      *time.Time
}

// ByIDs selects transactions by identifier. It cannot be narrowed by date.
type ByIDs []string

func (*Transactions) isQuery() {}
func (ByIDs) isQuery()         {}

// All returns a query without filters.
func All() *Transactions { return &Transactions{} }

// Clone copies the filters of q into a new query.
func (q *Transactions) Clone() *Transactions {
	c := &Transactions{Tag: q.Tag, StockIDs: slices.Clone(q.StockIDs)}
	if q.Start != nil {
		s := *q.Start
		c.Start = &s
	}
	if q.End != nil {
		e := *q.End
		c.End = &e
	}
	return c
}

// From returns a copy of q bounded below by start.
func (q *Transactions) From(start time.Time) *Transactions {
	c := q.Clone()
	s := models.DateOnly(start)
	c.Start = &s
	return c
}

// Until returns a copy of q bounded above by end.
func (q *Transactions) Until(end time.Time) *Transactions {
	c := q.Clone()
	e := models.DateOnly(end)
	c.End = &e
	return c
}

// Match reports whether t passes every filter of q.
func (q *Transactions) Match(t models.Transaction) bool {
	o := t.Details()
	if q.Tag != "" && o.Tag != q.Tag {
		return false
	}
	if len(q.StockIDs) > 0 && !slices.Contains(q.StockIDs, o.Stock.ID) {
		return false
	}
	d := models.DateOnly(o.OrderDate)
	if q.Start != nil && d.Before(models.DateOnly(*q.Start)) {
		return false
	}
	if q.End != nil && d.After(models.DateOnly(*q.End)) {
		return false
	}
	return true
}

// Match reports whether t is one of the selected identifiers.
func (q ByIDs) Match(t models.Transaction) bool {
	return slices.Contains(q, t.Details().ID)
}
