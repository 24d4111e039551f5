package core

import "math"

// One epsilon per semantic category. Round-off guards throughout the
// engine go through these helpers instead of ad hoc constants; the
// values match prior validated behavior and changing any of them is a
// behavioral change.
const (
	// ProbEps is the tolerance on the probability scale: CDF clamping,
	// mass-sum checks, boundary snapping.
	ProbEps = 1e-6

	// ValueEps is the tolerance on the outcome value scale: point-mass
	// comparisons, range nudges, round-trip checks.
	ValueEps = 1e-5

	// RankEps is the tie horizon for ranking comparators.
	RankEps = 1e-5

	// DegenerateEps is the variance (and squared-range) floor below
	// which a slot collapses to a point mass.
	DegenerateEps = 1e-10
)

// ApproxEqual reports |a-b| <= eps.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// ApproxLess reports a < b by more than eps.
func ApproxLess(a, b, eps float64) bool {
	return a < b-eps
}

// ApproxGreater reports a > b by more than eps.
func ApproxGreater(a, b, eps float64) bool {
	return a > b+eps
}

// Clamp01 clamps p to [0,1], snapping values within ProbEps of a
// boundary onto the boundary.
func Clamp01(p float64) float64 {
	if p <= ProbEps {
		return 0
	}
	if p >= 1-ProbEps {
		return 1
	}
	return p
}
