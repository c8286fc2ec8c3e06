package query

import (
	"testing"
	"time"

	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func buying(id, stock, tag string, date time.Time) models.Transaction {
	return &models.Buying{Order: models.Order{ID: id, Stock: models.Stock{ID: stock}, Tag: tag, OrderDate: date}}
}

func TestTransactions_Match(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	tr := buying("1", "PETR4", "plan", jun)

	cases := []struct {
		name string
		q    *Transactions
		want bool
	}{
		{name: "no filters", q: All(), want: true},
		{name: "tag matches", q: &Transactions{Tag: "plan"}, want: true},
		{name: "tag differs", q: &Transactions{Tag: "other"}, want: false},
		{name: "stock listed", q: &Transactions{StockIDs: []string{"VALE3", "PETR4"}}, want: true},
		{name: "stock not listed", q: &Transactions{StockIDs: []string{"VALE3"}}, want: false},
		{name: "after start", q: All().From(jan), want: true},
		{name: "before start", q: All().From(jun.AddDate(0, 0, 1)), want: false},
		{name: "end is inclusive despite clock time", q: All().Until(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)), want: true},
		{name: "after end", q: All().Until(jan), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.q.Match(tr))
		})
	}
}

func TestTransactions_CloneIsIndependent(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	base := &Transactions{Tag: "plan", StockIDs: []string{"A"}, Start: &start}

	narrowed := base.Until(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	narrowed.StockIDs[0] = "B"
	*narrowed.Start = start.AddDate(1, 0, 0)

	assert.Nil(t, base.End)
	assert.Equal(t, "A", base.StockIDs[0])
	assert.Equal(t, start, *base.Start)
	assert.Equal(t, "plan", narrowed.Tag)
}

func TestByIDs_Match(t *testing.T) {
	q := ByIDs{"1", "2"}
	assert.True(t, q.Match(buying("2", "X", "", time.Now())))
	assert.False(t, q.Match(buying("3", "X", "", time.Now())))
}
