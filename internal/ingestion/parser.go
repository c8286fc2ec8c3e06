package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/shopspring/decimal"
)

// expectedQuoteHeaders enforces strict column ordering for daily quote files.
var expectedQuoteHeaders = []string{"StockId", "Date", "Open", "High", "Low", "Close"}

// newReader returns a ';' separated reader that leaves column checks to the caller.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// checkHeader fails unless header matches want exactly (order and count).
func checkHeader(header, want []string) error {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if len(header) != len(want) {
		return fmt.Errorf("invalid header length: expected %d, got %d", len(want), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != want[i] {
			return fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, want[i], h)
		}
	}
	return nil
}

// parseAndPersistQuotes streams one quote file into repo in batches of batch rows.
// Rows without a date take fileDate.
func parseAndPersistQuotes(ctx context.Context, path string, fileDate time.Time, repo QuoteStore, batch int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := newReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, expectedQuoteHeaders); err != nil {
		return 0, err
	}

	buf := make([]models.Quote, 0, batch)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertQuotesBatch(ctx, buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	total := 0
	lineNumber := 1
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedQuoteHeaders) {
			return 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedQuoteHeaders), len(rec))
		}
		q, err := recordToQuote(rec, fileDate)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNumber, err)
		}

		buf = append(buf, q)
		total++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, fmt.Errorf("flush batch ending line %d: %w", lineNumber, err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}
	return total, nil
}

// recordToQuote converts one validated record. Close is required; empty
// Open/High/Low fall back to Close.
func recordToQuote(rec []string, fileDate time.Time) (models.Quote, error) {
	q := models.Quote{StockID: models.NormalizeStockID(rec[0]), Date: models.DateOnly(fileDate)}
	if q.StockID == "" {
		return q, errors.New("missing StockId")
	}

	if s := strings.TrimSpace(rec[1]); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return q, fmt.Errorf("invalid Date: %w", err)
		}
		q.Date = d
	}

	closePrice, ok, err := parseDecimal(rec[5])
	if err != nil {
		return q, fmt.Errorf("invalid Close: %w", err)
	}
	if !ok {
		return q, errors.New("missing Close")
	}
	q.Close = closePrice

	for i, dst := range []*decimal.Decimal{&q.Open, &q.High, &q.Low} {
		v, ok, err := parseDecimal(rec[2+i])
		if err != nil {
			return q, fmt.Errorf("invalid %s: %w", expectedQuoteHeaders[2+i], err)
		}
		if !ok {
			v = closePrice
		}
		*dst = v
	}
	return q, nil
}

// parseDecimal accepts "1234.56" and the Brazilian "1.234,56". ok is false for an empty cell.
func parseDecimal(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

var dateLayouts = []string{time.DateOnly, "02/01/2006"}

// parseDate accepts ISO dates and DD/MM/YYYY.
func parseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
