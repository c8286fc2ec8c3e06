package storage

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/shopspring/decimal"
)

func quote(stock string, d int, close string) models.Quote {
	c := decimal.RequireFromString(close)
	return models.Quote{StockID: stock, Date: day(2024, 9, d), Open: c, High: c, Low: c, Close: c}
}

func TestQuotesRepository_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewQuotesRepository(db, SQLite)
	ctx := context.Background()

	if err := repo.InsertQuotesBatch(ctx, []models.Quote{
		quote("PETR4", 9, "36.10"),
		quote("PETR4", 10, "36.45"),
		quote("PETR4", 12, "35.80"),
		quote("vale3", 10, "61.02"),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	cases := []struct {
		name  string
		stock string
		at    int
		want  string
	}{
		{name: "exact day", stock: "PETR4", at: 10, want: "36.45"},
		{name: "gap uses previous", stock: "PETR4", at: 11, want: "36.45"},
		{name: "after last", stock: "PETR4", at: 30, want: "35.8"},
		{name: "before first", stock: "PETR4", at: 2},
		{name: "stored upper-cased", stock: "VALE3", at: 10, want: "61.02"},
		{name: "lookup ignores case", stock: "Vale3", at: 10, want: "61.02"},
		{name: "unknown stock", stock: "ITUB4", at: 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := repo.LastQuoteBefore(ctx, tc.stock, day(2024, 9, tc.at))
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			if tc.want == "" {
				if q != nil {
					t.Fatalf("want nil, got %+v", q)
				}
				return
			}
			if q == nil || !q.Close.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("want close %s, got %+v", tc.want, q)
			}
		})
	}

	// ingestion bookkeeping and day replacement
	ok, err := repo.HasIngestionForDate(ctx, day(2024, 9, 10))
	if err != nil || ok {
		t.Fatalf("want no ingestion yet, got ok=%v err=%v", ok, err)
	}
	if err := repo.UpsertIngestionLog(ctx, day(2024, 9, 10), "10-09-2024_QUOTES.csv", 2); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertIngestionLog(ctx, day(2024, 9, 10), "10-09-2024_QUOTES.csv", 3); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	ok, err = repo.HasIngestionForDate(ctx, day(2024, 9, 10))
	if err != nil || !ok {
		t.Fatalf("want ingestion, got ok=%v err=%v", ok, err)
	}

	if err := repo.DeleteQuotesByDate(ctx, day(2024, 9, 10)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	q, err := repo.LastQuoteBefore(ctx, "PETR4", day(2024, 9, 11))
	if err != nil || q == nil || !q.Date.Equal(day(2024, 9, 9)) {
		t.Fatalf("want quote of the 9th after delete, got %+v err=%v", q, err)
	}
}

func TestQuotesRepository_LastQuoteBefore_SQLMock(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuotesRepository(db, Postgres)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE stock_id = $1 AND quote_date <= $2")).
		WithArgs("PETR4", "2024-09-10").
		WillReturnRows(sqlmock.NewRows([]string{"stock_id", "quote_date", "open", "high", "low", "close"}).
			AddRow("PETR4", day(2024, 9, 9), "36", "37", "35.5", "36.1"))

	q, err := repo.LastQuoteBefore(context.Background(), "PETR4", day(2024, 9, 10))
	if err != nil || q == nil {
		t.Fatalf("lookup: q=%v err=%v", q, err)
	}
	if !q.Close.Equal(decimal.RequireFromString("36.1")) || !q.Date.Equal(day(2024, 9, 9)) {
		t.Fatalf("unexpected quote %+v", q)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM quotes")).WillReturnError(dummyErr{})
	if _, err := repo.LastQuoteBefore(context.Background(), "PETR4", day(2024, 9, 10)); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIngestionLog_SQLMock(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuotesRepository(db, Postgres)
	ctx := context.Background()
	d := day(2025, 9, 11)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM ingestion_log WHERE file_date = $1")).
		WithArgs("2025-09-11").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	ok, err := repo.HasIngestionForDate(ctx, d)
	if err != nil || !ok {
		t.Fatalf("HasIngestionForDate: ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ingestion_log (file_date, filename, row_count)")).
		WithArgs("2025-09-11", "file.csv", 10).WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.UpsertIngestionLog(ctx, d, "file.csv", 10); err != nil {
		t.Fatalf("UpsertIngestionLog: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM quotes WHERE quote_date = $1")).
		WithArgs("2025-09-11").WillReturnResult(sqlmock.NewResult(0, 3))
	if err := repo.DeleteQuotesByDate(ctx, d); err != nil {
		t.Fatalf("DeleteQuotesByDate: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertQuotesBatch_Postgres_SQLMock(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuotesRepository(db, Postgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	// pq.CopyIn is driver specific; sqlmock only sees a prepared statement.
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.InsertQuotesBatch(context.Background(), []models.Quote{quote("PETR4", 9, "36.1")}); err != nil {
		t.Fatalf("InsertQuotesBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertQuotesBatch_ErrorOnBegin(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuotesRepository(db, Postgres)

	mock.ExpectBegin().WillReturnError(dummyErr{})
	if err := repo.InsertQuotesBatch(context.Background(), []models.Quote{quote("X", 9, "1")}); err == nil {
		t.Fatalf("expected error on begin")
	}
}

func TestInsertQuotesBatch_ErrorOnRowExec(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuotesRepository(db, Postgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnError(dummyErr{})
	mock.ExpectRollback()

	if err := repo.InsertQuotesBatch(context.Background(), []models.Quote{quote("X", 9, "1")}); err == nil {
		t.Fatalf("expected error on row exec")
	}
}

func TestInsertQuotesBatch_ErrorOnFinalExec(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuotesRepository(db, Postgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnError(dummyErr{})
	mock.ExpectRollback()

	if err := repo.InsertQuotesBatch(context.Background(), []models.Quote{quote("X", 9, "1")}); err == nil {
		t.Fatalf("expected error on final exec")
	}
}
