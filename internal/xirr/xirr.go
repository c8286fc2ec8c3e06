// Package xirr finds the internal rate of return of dated cash flows.
//
// The solver brackets the root by widening a symmetric interval around a
// guess, then bisects. It trades convergence speed for robustness: no
// derivative is needed and every search is bounded by fixed iteration caps.
package xirr

import (
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/stockperf/internal/domain/models"
	"github.com/shopspring/decimal"
)

const (
	Guess          = 0.10
	BracketStep    = 0.50
	MaxBracketIter = 100
	Tolerance      = 1e-8
	MaxIterations  = 50000
	MinRate        = -0.99999999

	daysPerYear = 365.0
)

var (
	// ErrNotBracketed means the bisection was handed endpoints whose values share a sign.
	ErrNotBracketed = errors.New("xirr: endpoints do not bracket a root")
	// ErrUnreachable means bisection ended without matching any termination rule.
	ErrUnreachable = errors.New("xirr: bisection terminated in an unknown state")
)

// Solver is the root-finding engine. The zero value is ready to use.
type Solver struct{}

// NewSolver returns a Solver.
func NewSolver() *Solver { return &Solver{} }

// Calculate returns the annual rate at which the present value of flows is zero.
//
// Non-convergence is reported through Outcome.Kind; the error is reserved for
// broken internal contracts (ErrNotBracketed, ErrUnreachable).
func (s *Solver) Calculate(flows []models.CashFlow) (Outcome, error) {
	return CalculateWith(flows, Tolerance, MaxIterations)
}

// CalculateWith is Calculate with an explicit tolerance and bisection cap.
func CalculateWith(flows []models.CashFlow, tolerance float64, maxIters int) (Outcome, error) {
	if !HasSignChange(flows) {
		return Outcome{Kind: NoSolutionWithinTolerance, Rate: 0}, nil
	}

	low, high := FindBracket(PresentValue, flows)
	if math.Abs(low-high) < tolerance {
		return Outcome{Kind: NoSolutionWithinTolerance, Rate: low}, nil
	}

	pv := func(r float64) decimal.Decimal { return PresentValue(flows, r) }
	return Bisection(pv, low, high, tolerance, maxIters)
}

// HasSignChange reports whether flows hold at least one negative and one positive amount.
func HasSignChange(flows []models.CashFlow) bool {
	var neg, pos bool
	for _, cf := range flows {
		switch cf.Amount.Sign() {
		case -1:
			neg = true
		case 1:
			pos = true
		}
	}
	return neg && pos
}

// FindBracket widens (Guess-BracketStep, Guess+BracketStep) by BracketStep on
// both sides until fn changes sign across it. When MaxBracketIter widenings are
// spent it returns the (0, 0) sentinel, which callers must read as "no bracket".
func FindBracket(fn ValuationFunc, flows []models.CashFlow) (float64, float64) {
	low := Guess - BracketStep
	high := Guess + BracketStep

	iter := 0
	for sameSign(fn(flows, low), fn(flows, high)) && iter < MaxBracketIter {
		iter++
		low -= BracketStep
		high += BracketStep
	}

	if iter >= MaxBracketIter {
		return 0, 0
	}
	return low, high
}

// Bisection halves [x1, x2] keeping the half where fn changes sign, until the
// half-width drops below tolerance, fn hits zero, or maxIters is reached.
func Bisection(fn func(r float64) decimal.Decimal, x1, x2, tolerance float64, maxIters int) (Outcome, error) {
	iter := 1
	var x3 float64
	f3 := decimal.Zero

	for {
		f1 := fn(x1)
		f2 := fn(x2)

		if f1.IsZero() && f2.IsZero() {
			return Outcome{Kind: NoSolutionWithinTolerance, Rate: x1}, nil
		}
		if sameSign(f1, f2) {
			return Outcome{}, fmt.Errorf("%w: f(%g)=%s f(%g)=%s", ErrNotBracketed, x1, f1, x2, f2)
		}

		x3 = (x1 + x2) / 2
		f3 = fn(x3)

		if f3.Sign()*f1.Sign() < 0 {
			x2 = x3
		} else {
			x1 = x3
		}
		iter++

		if math.Abs(x1-x2)/2 < tolerance || f3.IsZero() || iter >= maxIters {
			break
		}
	}

	switch {
	case f3.IsZero():
		return Outcome{Kind: ExactSolution, Rate: x3}, nil
	case math.Abs(x1-x2)/2 < tolerance:
		return Outcome{Kind: ApproximateSolution, Rate: x3}, nil
	case iter >= maxIters:
		return Outcome{Kind: NoSolutionWithinTolerance, Rate: x3}, nil
	}
	return Outcome{}, fmt.Errorf("%w: x1=%g x2=%g iterations=%d", ErrUnreachable, x1, x2, iter)
}

// sameSign is the a*b > 0 test done on signs so large values cannot overflow.
func sameSign(a, b decimal.Decimal) bool {
	return a.Sign()*b.Sign() > 0
}
