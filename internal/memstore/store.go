// Package memstore keeps transactions and quotes in memory. It backs the
// offline portfolio file mode and serves as a test double for the SQL stores.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/query"
)

// Store is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	quotes       map[string][]models.Quote // by stock, ascending by date
}

// New returns an empty Store.
func New() *Store {
	return &Store{quotes: make(map[string][]models.Quote)}
}

// AddTransactions normalizes the stock IDs of txs, validates and appends them.
func (s *Store) AddTransactions(txs ...models.Transaction) error {
	for _, t := range txs {
		o := t.Details()
		o.Stock.ID = models.NormalizeStockID(o.Stock.ID)
		if err := models.Validate(t); err != nil {
			return fmt.Errorf("transaction %q: %w", t.Details().ID, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, txs...)
	return nil
}

// AddQuotes stores quotes; a quote for an existing stock and day replaces it.
func (s *Store) AddQuotes(quotes ...models.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quotes {
		q.StockID = models.NormalizeStockID(q.StockID)
		q.Date = models.DateOnly(q.Date)
		list := s.quotes[q.StockID]
		i := sort.Search(len(list), func(i int) bool { return !list[i].Date.Before(q.Date) })
		switch {
		case i < len(list) && list[i].Date.Equal(q.Date):
			list[i] = q
		default:
			list = append(list, models.Quote{})
			copy(list[i+1:], list[i:])
			list[i] = q
		}
		s.quotes[q.StockID] = list
	}
}

// Execute returns the transactions matched by q.
func (s *Store) Execute(_ context.Context, q query.Query) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var match func(models.Transaction) bool
	switch tq := q.(type) {
	case *query.Transactions:
		match = tq.Match
	case query.ByIDs:
		match = tq.Match
	default:
		return nil, fmt.Errorf("memstore: unsupported query %T", q)
	}

	var out []models.Transaction
	for _, t := range s.transactions {
		if match(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// LastQuoteBefore returns the latest quote of stockID dated at or before date.
func (s *Store) LastQuoteBefore(_ context.Context, stockID string, date time.Time) (*models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.quotes[models.NormalizeStockID(stockID)]
	d := models.DateOnly(date)
	i := sort.Search(len(list), func(i int) bool { return list[i].Date.After(d) })
	if i == 0 {
		return nil, nil
	}
	q := list[i-1]
	return &q, nil
}

// Tags lists the distinct non-empty tags, sorted.
func (s *Store) Tags(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, t := range s.transactions {
		if tag := t.Details().Tag; tag != "" {
			set[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}
