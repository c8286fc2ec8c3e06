package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/guttosm/stockperf/internal/logger"
	"github.com/shopspring/decimal"
)

var expectedTransactionHeaders = []string{
	"Id",
	"Kind",
	"StockId",
	"StockName",
	"OrderDate",
	"Shares",
	"PricePerShare",
	"PositionSize",
	"OrderCosts",
	"Taxes",
	"Tag",
}

// TransactionStore persists imported transactions.
type TransactionStore interface {
	InsertTransactions(ctx context.Context, txs []models.Transaction) error
}

// transactionRecord carries the textual fields of one transaction, whatever the source format.
type transactionRecord struct {
	ID            string `yaml:"id"`
	Kind          string `yaml:"kind"`
	StockID       string `yaml:"stock_id"`
	StockName     string `yaml:"stock_name"`
	OrderDate     string `yaml:"order_date"`
	Shares        string `yaml:"shares"`
	PricePerShare string `yaml:"price_per_share"`
	PositionSize  string `yaml:"position_size"`
	OrderCosts    string `yaml:"order_costs"`
	Taxes         string `yaml:"taxes"`
	Tag           string `yaml:"tag"`
}

// ImportTransactionsFile reads a ';' separated transactions file and stores
// every row in one insert. Any invalid row fails the whole import.
func ImportTransactionsFile(ctx context.Context, path string, repo TransactionStore) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	txs, err := ParseTransactions(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := repo.InsertTransactions(ctx, txs); err != nil {
		return 0, fmt.Errorf("%s: insert: %w", path, err)
	}
	log := logger.Component("ingestion")
	log.Info().Str("file", path).Int("rows", len(txs)).Msg("transactions imported")
	return len(txs), nil
}

// ParseTransactions decodes a transactions file. Rows without an Id get a new UUID.
func ParseTransactions(r io.Reader) ([]models.Transaction, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, expectedTransactionHeaders); err != nil {
		return nil, err
	}

	var txs []models.Transaction
	lineNumber := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedTransactionHeaders) {
			return nil, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedTransactionHeaders), len(rec))
		}
		t, err := transactionRecord{
			ID: rec[0], Kind: rec[1], StockID: rec[2], StockName: rec[3], OrderDate: rec[4],
			Shares: rec[5], PricePerShare: rec[6], PositionSize: rec[7], OrderCosts: rec[8],
			Taxes: rec[9], Tag: rec[10],
		}.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// toTransaction converts and validates the record. An empty PositionSize is
// derived from Shares * PricePerShare.
func (rec transactionRecord) toTransaction() (models.Transaction, error) {
	kind, err := models.ParseKind(strings.ToLower(strings.TrimSpace(rec.Kind)))
	if err != nil {
		return nil, err
	}

	date, err := parseDate(strings.TrimSpace(rec.OrderDate))
	if err != nil {
		return nil, fmt.Errorf("invalid OrderDate: %w", err)
	}

	o := models.Order{
		ID:        strings.TrimSpace(rec.ID),
		Stock:     models.Stock{ID: models.NormalizeStockID(rec.StockID), Name: strings.TrimSpace(rec.StockName)},
		OrderDate: date,
		Tag:       strings.TrimSpace(rec.Tag),
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	var taxes decimal.Decimal
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"Shares", rec.Shares, &o.Shares},
		{"PricePerShare", rec.PricePerShare, &o.PricePerShare},
		{"PositionSize", rec.PositionSize, &o.PositionSize},
		{"OrderCosts", rec.OrderCosts, &o.OrderCosts},
		{"Taxes", rec.Taxes, &taxes},
	}
	var hasPosition bool
	for _, fd := range fields {
		v, ok, err := parseDecimal(fd.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", fd.name, err)
		}
		if fd.name == "PositionSize" {
			hasPosition = ok
		}
		*fd.dst = v
	}
	if !hasPosition {
		o.PositionSize = o.Shares.Mul(o.PricePerShare)
	}

	t, err := models.NewTransaction(kind, o, taxes)
	if err != nil {
		return nil, err
	}
	if err := models.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
