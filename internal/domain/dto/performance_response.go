package dto

import (
	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/shopspring/decimal"
)

// PerformanceResponse is returned by GET /api/v1/performance.
type PerformanceResponse struct {
	Start      string          `json:"start" example:"2024-01-01"`
	End        string          `json:"end" example:"2024-12-31"`
	Tag        string          `json:"tag,omitempty" example:"dividends"`
	StockIDs   []string        `json:"stock_ids,omitempty"`
	Percentage decimal.Decimal `json:"percentage" swaggertype:"string" example:"12.35"`
}

// PositionResponse is one valued position of a capital response.
type PositionResponse struct {
	Stock       models.Stock    `json:"stock"`
	Shares      decimal.Decimal `json:"shares" swaggertype:"string" example:"100"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"36.45"`
	PriceSource string          `json:"price_source" example:"quote"`
	Value       decimal.Decimal `json:"value" swaggertype:"string" example:"3645"`
}

// CapitalResponse is returned by GET /api/v1/capital.
type CapitalResponse struct {
	Date      string             `json:"date" example:"2024-12-31"`
	Capital   decimal.Decimal    `json:"capital" swaggertype:"string" example:"12500.40"`
	Positions []PositionResponse `json:"positions"`
}

// SumResponse is returned by the inpayments and dividends endpoints.
type SumResponse struct {
	Sum decimal.Decimal `json:"sum" swaggertype:"string" example:"3200.00"`
}

// TagSummaryResponse holds the figures of the transactions sharing one tag.
type TagSummaryResponse struct {
	Tag         string          `json:"tag" example:"savings-plan"`
	Inpayments  decimal.Decimal `json:"inpayments" swaggertype:"string" example:"6000"`
	Dividends   decimal.Decimal `json:"dividends" swaggertype:"string" example:"140.25"`
	Capital     decimal.Decimal `json:"capital" swaggertype:"string" example:"6480.10"`
	Performance decimal.Decimal `json:"performance" swaggertype:"string" example:"7.42"`
}

// TagsResponse is returned by GET /api/v1/tags.
type TagsResponse struct {
	Start string               `json:"start" example:"2024-01-01"`
	End   string               `json:"end" example:"2024-12-31"`
	Tags  []TagSummaryResponse `json:"tags"`
}

// CashFlowRequest is one dated amount of an XIRR request.
type CashFlowRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"-1000"`
	Date   string          `json:"date" binding:"required" example:"2024-01-01"`
}

// XIRRRequest is the body of POST /api/v1/xirr.
type XIRRRequest struct {
	CashFlows []CashFlowRequest `json:"cash_flows" binding:"required,min=1,dive"`
}

// XIRRResponse reports the solver outcome. Percentage is the rate in percent
// rounded to two places.
type XIRRResponse struct {
	Kind       string          `json:"kind" example:"approximate"`
	Rate       float64         `json:"rate" example:"0.1234567"`
	Percentage decimal.Decimal `json:"percentage" swaggertype:"string" example:"12.35"`
}
