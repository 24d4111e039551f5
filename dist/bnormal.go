package dist

import (
	"math"

	"github.com/uneda-cda/UNEDA-sub000/core"
)

// Iteration budgets of the bounded quantile search. The bound is a
// load-bearing safety property: on exhaustion the unskewed inverse is
// returned as an approximation instead of failing the call.
const (
	quantileMaxIter = 100
	quantileTol     = 1e-7
	quantileSpan    = 10.0
)

// CDF evaluates the fitted distribution's CDF at v. For a degenerate
// fit the mass sits entirely at Loc: 0 below, 0.5 at, 1 above. The
// result is clamped to [0,1] with boundary snapping.
func CDF(v float64, f Fit) float64 {
	if f.Degenerate() {
		switch {
		case core.ApproxEqual(v, f.Loc, core.ValueEps):
			return 0.5
		case v < f.Loc:
			return 0
		default:
			return 1
		}
	}
	z := (v - f.Loc) / f.Sigma()
	return core.Clamp01(NormalCDF(z) - 2*OwensT(z, f.Alpha))
}

// Quantile inverts the fitted CDF at probability p. The symmetric case
// uses the closed-form inverse normal; a skewed fit runs an outer
// Newton-style loop that averages successive inverse-normal estimates
// inside a bisection bracket, both bounded to quantileMaxIter, and
// falls back to the unskewed inverse when the budget is exhausted.
func Quantile(p float64, f Fit) float64 {
	if f.Degenerate() {
		return f.Loc
	}
	sigma := f.Sigma()
	if f.Alpha == 0 {
		return f.Loc + sigma*InverseNormalCDF(p)
	}
	if p <= 0 {
		return f.Loc - quantileSpan*sigma
	}
	if p >= 1 {
		return f.Loc + quantileSpan*sigma
	}

	lo, hi := -quantileSpan, quantileSpan
	z := InverseNormalCDF(p)
	for i := 0; i < quantileMaxIter; i++ {
		c := stdSkewCDF(z, f.Alpha)
		if math.Abs(c-p) < quantileTol {
			return f.Loc + sigma*z
		}
		if c < p {
			lo = z
		} else {
			hi = z
		}
		// Newton-flavored estimate: shift the normal quantile by the
		// residual, kept inside (0,1) by halving toward the bracket
		// midpoint when it escapes.
		q := NormalCDF(z) + (p - c)
		var next float64
		if q > 0 && q < 1 {
			next = (z + InverseNormalCDF(q)) / 2
		} else {
			next = (lo + hi) / 2
		}
		if next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		z = next
	}
	// No convergence within budget: approximate with the unskewed
	// inverse rather than failing.
	return f.Loc + sigma*InverseNormalCDF(p)
}

// stdSkewCDF is the standardized skewed CDF without clamping, used by
// the quantile search so the bracket sees the raw monotone function.
func stdSkewCDF(z, alpha float64) float64 {
	return NormalCDF(z) - 2*OwensT(z, alpha)
}
