package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind names a transaction variant as stored and imported.
type Kind string

const (
	KindBuying   Kind = "buying"
	KindSelling  Kind = "selling"
	KindDividend Kind = "dividend"
)

// ParseKind maps the textual kind to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBuying, KindSelling, KindDividend:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// Stock identifies a security. Transactions are grouped by ID.
type Stock struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// NormalizeStockID trims id and upper-cases it. Stores keep stock IDs in this
// form and filters are matched against it.
func NormalizeStockID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Order holds the fields every transaction carries.
//
// Fields:
//   - PositionSize: gross monetary value of the order (shares * price).
//   - OrderCosts: broker fee, never negative.
//   - Shares: number of shares moved by the order.
//   - PricePerShare: execution price, used to value a position without a quote.
//   - Tag: free label used to group transactions (e.g. a savings plan).
type Order struct {
	ID            string          `json:"id"`
	Stock         Stock           `json:"stock"`
	OrderDate     time.Time       `json:"order_date"`
	PositionSize  decimal.Decimal `json:"position_size"`
	OrderCosts    decimal.Decimal `json:"order_costs"`
	Shares        decimal.Decimal `json:"shares"`
	PricePerShare decimal.Decimal `json:"price_per_share"`
	Tag           string          `json:"tag,omitempty"`
}

// Details returns the common order fields.
func (o *Order) Details() *Order { return o }

// Transaction is the closed set {*Buying, *Selling, *Dividend}.
// Code branching on the variant uses a type switch with all three cases.
type Transaction interface {
	Details() *Order
	Kind() Kind
	sealed()
}

// Buying consumes capital.
type Buying struct {
	Order
}

// Selling returns capital net of costs and taxes.
type Selling struct {
	Order
	Taxes decimal.Decimal `json:"taxes"`
}

// Dividend returns capital net of costs and taxes; it does not move shares.
type Dividend struct {
	Order
	Taxes decimal.Decimal `json:"taxes"`
}

func (*Buying) Kind() Kind   { return KindBuying }
func (*Selling) Kind() Kind  { return KindSelling }
func (*Dividend) Kind() Kind { return KindDividend }

func (*Buying) sealed()   {}
func (*Selling) sealed()  {}
func (*Dividend) sealed() {}

// NewTransaction builds the variant named by kind. taxes is ignored for buyings.
func NewTransaction(kind Kind, order Order, taxes decimal.Decimal) (Transaction, error) {
	switch kind {
	case KindBuying:
		return &Buying{Order: order}, nil
	case KindSelling:
		return &Selling{Order: order, Taxes: taxes}, nil
	case KindDividend:
		return &Dividend{Order: order, Taxes: taxes}, nil
	}
	return nil, fmt.Errorf("unknown transaction kind %q", kind)
}

// TaxesOf returns the taxes of t, zero for buyings.
func TaxesOf(t Transaction) decimal.Decimal {
	switch tr := t.(type) {
	case *Selling:
		return tr.Taxes
	case *Dividend:
		return tr.Taxes
	default:
		return decimal.Zero
	}
}

var (
	ErrMissingStock     = errors.New("transaction has no stock id")
	ErrMissingOrderDate = errors.New("transaction has no order date")
	ErrNegativeCosts    = errors.New("order costs must not be negative")
	ErrNegativeTaxes    = errors.New("taxes must not be negative")
)

// Validate checks the invariants shared by all variants.
func Validate(t Transaction) error {
	o := t.Details()
	if o.Stock.ID == "" {
		return ErrMissingStock
	}
	if o.OrderDate.IsZero() {
		return ErrMissingOrderDate
	}
	if o.OrderCosts.IsNegative() {
		return ErrNegativeCosts
	}
	if TaxesOf(t).IsNegative() {
		return ErrNegativeTaxes
	}
	return nil
}
