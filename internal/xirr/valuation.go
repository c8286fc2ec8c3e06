package xirr

import (
	"math"

	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/shopspring/decimal"
)

// ValuationFunc returns the present value of flows discounted at rate r.
type ValuationFunc func(flows []models.CashFlow, r float64) decimal.Decimal

// ClampRate maps rates at or below -100% to MinRate; (1+r) must stay positive
// because it is raised to a fractional power.
func ClampRate(r float64) float64 {
	if r <= -1 {
		return MinRate
	}
	return r
}

// PresentValue discounts every flow to the earliest date of the sequence using
// actual days / 365 and sums the results (XNPV).
func PresentValue(flows []models.CashFlow, r float64) decimal.Decimal {
	if len(flows) == 0 {
		return decimal.Zero
	}
	r = ClampRate(r)

	origin := flows[0].Date
	for _, cf := range flows[1:] {
		if cf.Date.Before(origin) {
			origin = cf.Date
		}
	}

	sum := decimal.Zero
	for _, cf := range flows {
		years := float64(models.DaysBetween(origin, cf.Date)) / daysPerYear
		sum = sum.Add(cf.Amount.Div(discountFactor(1+r, years)))
	}
	return sum
}

// discountFactor is base^years kept finite and non-zero so the decimal division
// below never sees Inf, NaN or a zero divisor.
func discountFactor(base, years float64) decimal.Decimal {
	f := math.Pow(base, years)
	switch {
	case math.IsInf(f, 1) || f > math.MaxFloat64:
		f = math.MaxFloat64
	case f == 0:
		f = math.SmallestNonzeroFloat64
	}
	return decimal.NewFromFloat(f)
}
