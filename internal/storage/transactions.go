package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/query"
	"github.com/shopspring/decimal"
)

// TransactionsRepository defines the contract for transaction persistence.
type TransactionsRepository interface {
	Execute(ctx context.Context, q query.Query) ([]models.Transaction, error)
	InsertTransactions(ctx context.Context, txs []models.Transaction) error
	Tags(ctx context.Context) ([]string, error)
}

type transactionsRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewTransactionsRepository(db *sql.DB, dialect Dialect) TransactionsRepository {
	return &transactionsRepository{db: db, dialect: dialect}
}

const selectTransactions = `
	SELECT id, kind, stock_id, stock_name, order_date, shares, price_per_share,
	       position_size, order_costs, taxes, tag
	FROM transactions`

// Execute translates q into a WHERE clause and loads the matching transactions
// ordered by order date.
func (r *transactionsRepository) Execute(ctx context.Context, q query.Query) ([]models.Transaction, error) {
	if ids, ok := q.(query.ByIDs); ok && len(ids) == 0 {
		return nil, nil
	}
	where, args, err := whereClause(q)
	if err != nil {
		return nil, err
	}

	stmt := selectTransactions
	if where != "" {
		stmt += " WHERE " + where
	}
	stmt += " ORDER BY order_date, id"

	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, stmt), args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func whereClause(q query.Query) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	switch tq := q.(type) {
	case *query.Transactions:
		if tq.Tag != "" {
			conds = append(conds, "tag = ?")
			args = append(args, tq.Tag)
		}
		if len(tq.StockIDs) > 0 {
			conds = append(conds, "stock_id IN ("+placeholders(len(tq.StockIDs))+")")
			for _, id := range tq.StockIDs {
				args = append(args, models.NormalizeStockID(id))
			}
		}
		if tq.Start != nil {
			conds = append(conds, "order_date >= ?")
			args = append(args, dateArg(*tq.Start))
		}
		if tq.End != nil {
			conds = append(conds, "order_date <= ?")
			args = append(args, dateArg(*tq.End))
		}
	case query.ByIDs:
		conds = append(conds, "id IN ("+placeholders(len(tq))+")")
		for _, id := range tq {
			args = append(args, id)
		}
	default:
		return "", nil, fmt.Errorf("unsupported query %T", q)
	}
	return strings.Join(conds, " AND "), args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		o     models.Order
		kind  string
		date  dateValue
		taxes decimal.Decimal
	)
	if err := row.Scan(
		&o.ID, &kind, &o.Stock.ID, &o.Stock.Name, &date,
		&o.Shares, &o.PricePerShare, &o.PositionSize, &o.OrderCosts, &taxes, &o.Tag,
	); err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	o.OrderDate = date.Time

	k, err := models.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", o.ID, err)
	}
	return models.NewTransaction(k, o, taxes)
}

// InsertTransactions stores txs in a single database transaction.
func (r *transactionsRepository) InsertTransactions(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, rebind(r.dialect, `
		INSERT INTO transactions (
			id, kind, stock_id, stock_name, order_date, shares, price_per_share,
			position_size, order_costs, taxes, tag
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, t := range txs {
		o := t.Details()
		if _, err := stmt.ExecContext(ctx,
			o.ID, string(t.Kind()), models.NormalizeStockID(o.Stock.ID), o.Stock.Name, dateArg(o.OrderDate),
			o.Shares, o.PricePerShare, o.PositionSize, o.OrderCosts, models.TaxesOf(t), o.Tag,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("insert transaction %s: %w", o.ID, err)
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Tags lists the distinct non-empty tags.
func (r *transactionsRepository) Tags(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT tag FROM transactions WHERE tag <> '' ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
