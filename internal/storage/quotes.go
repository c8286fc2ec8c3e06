package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/stockperf/internal/domain/models"
	pq "github.com/lib/pq"
)

// QuotesRepository defines the contract for quote persistence and the
// per-day ingestion bookkeeping.
type QuotesRepository interface {
	LastQuoteBefore(ctx context.Context, stockID string, date time.Time) (*models.Quote, error)
	InsertQuotesBatch(ctx context.Context, quotes []models.Quote) error
	HasIngestionForDate(ctx context.Context, date time.Time) (bool, error)
	UpsertIngestionLog(ctx context.Context, date time.Time, filename string, rowCount int) error
	DeleteQuotesByDate(ctx context.Context, date time.Time) error
}

type quotesRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewQuotesRepository(db *sql.DB, dialect Dialect) QuotesRepository {
	return &quotesRepository{db: db, dialect: dialect}
}

// LastQuoteBefore returns the latest quote of stockID at or before date.
// It returns nil, nil when the stock has no such quote.
func (r *quotesRepository) LastQuoteBefore(ctx context.Context, stockID string, date time.Time) (*models.Quote, error) {
	var (
		q models.Quote
		d dateValue
	)
	err := r.db.QueryRowContext(ctx, rebind(r.dialect, `
		SELECT stock_id, quote_date, open, high, low, close
		FROM quotes
		WHERE stock_id = ? AND quote_date <= ?
		ORDER BY quote_date DESC
		LIMIT 1`), models.NormalizeStockID(stockID), dateArg(date)).Scan(&q.StockID, &d, &q.Open, &q.High, &q.Low, &q.Close)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last quote of %s: %w", stockID, err)
	}
	q.Date = d.Time
	return &q, nil
}

// InsertQuotesBatch inserts quotes in a single transaction. PostgreSQL uses COPY.
func (r *quotesRepository) InsertQuotesBatch(ctx context.Context, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	if r.dialect == Postgres {
		return r.copyQuotes(ctx, quotes)
	}
	return r.insertQuotes(ctx, quotes)
}

func (r *quotesRepository) copyQuotes(ctx context.Context, quotes []models.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("quotes", "stock_id", "quote_date", "open", "high", "low", "close"))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, q := range quotes {
		if _, err := stmt.ExecContext(ctx, models.NormalizeStockID(q.StockID), dateArg(q.Date), q.Open, q.High, q.Low, q.Close); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *quotesRepository) insertQuotes(ctx context.Context, quotes []models.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, rebind(r.dialect, `
		INSERT INTO quotes (stock_id, quote_date, open, high, low, close)
		VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, q := range quotes {
		if _, err := stmt.ExecContext(ctx, models.NormalizeStockID(q.StockID), dateArg(q.Date), q.Open, q.High, q.Low, q.Close); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("insert quote %s %s: %w", q.StockID, dateArg(q.Date), err)
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// HasIngestionForDate checks if a quote file was already ingested for a business day.
func (r *quotesRepository) HasIngestionForDate(ctx context.Context, date time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, rebind(r.dialect,
		`SELECT COUNT(1) FROM ingestion_log WHERE file_date = ?`), dateArg(date)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for a given day.
func (r *quotesRepository) UpsertIngestionLog(ctx context.Context, date time.Time, filename string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, `
		INSERT INTO ingestion_log (file_date, filename, row_count)
		VALUES (?, ?, ?)
		ON CONFLICT (file_date)
		DO UPDATE SET filename = EXCLUDED.filename,
		              row_count = EXCLUDED.row_count,
		              ingested_at = CURRENT_TIMESTAMP`), dateArg(date), filename, rowCount)
	return err
}

// DeleteQuotesByDate removes all quotes of a given day.
func (r *quotesRepository) DeleteQuotesByDate(ctx context.Context, date time.Time) error {
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, `DELETE FROM quotes WHERE quote_date = ?`), dateArg(date))
	return err
}
