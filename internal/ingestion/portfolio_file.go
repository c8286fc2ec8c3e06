package ingestion

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guttosm/stockperf/internal/memstore"
)

// portfolioFile is the YAML layout of an offline portfolio:
//
//	transactions:
//	  - {id: t1, kind: buying, stock_id: PETR4, order_date: 2024-01-10, shares: 100, price_per_share: 36.5}
//	quotes:
//	  - {stock_id: PETR4, date: 2024-12-30, close: 38.2}
type portfolioFile struct {
	Transactions []transactionRecord `yaml:"transactions"`
	Quotes       []quoteRecord       `yaml:"quotes"`
}

type quoteRecord struct {
	StockID string `yaml:"stock_id"`
	Date    string `yaml:"date"`
	Open    string `yaml:"open"`
	High    string `yaml:"high"`
	Low     string `yaml:"low"`
	Close   string `yaml:"close"`
}

// LoadPortfolioFile reads a YAML portfolio into an in-memory store.
func LoadPortfolioFile(path string) (*memstore.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio file: %w", err)
	}
	return ParsePortfolio(data)
}

// ParsePortfolio decodes YAML portfolio data into an in-memory store.
func ParsePortfolio(data []byte) (*memstore.Store, error) {
	var pf portfolioFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse portfolio file: %w", err)
	}

	store := memstore.New()
	for i, rec := range pf.Transactions {
		t, err := rec.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		if err := store.AddTransactions(t); err != nil {
			return nil, err
		}
	}

	for i, rec := range pf.Quotes {
		if strings.TrimSpace(rec.Date) == "" {
			return nil, fmt.Errorf("quote %d: missing date", i+1)
		}
		day, err := parseDate(strings.TrimSpace(rec.Date))
		if err != nil {
			return nil, fmt.Errorf("quote %d: invalid date: %w", i+1, err)
		}
		q, err := recordToQuote([]string{rec.StockID, "", rec.Open, rec.High, rec.Low, rec.Close}, day)
		if err != nil {
			return nil, fmt.Errorf("quote %d: %w", i+1, err)
		}
		store.AddQuotes(q)
	}
	return store, nil
}
