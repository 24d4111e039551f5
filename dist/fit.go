package dist

import (
	"math"

	"github.com/uneda-cda/UNEDA-sub000/core"
)

// Fit is a fitted bounded skew-normal ("B-normal") approximation of an
// aggregated outcome: location, squared scale and skew shape. A zero
// Scale2 marks the degenerate point-mass case.
type Fit struct {
	Loc    float64
	Scale2 float64
	Alpha  float64
}

// Degenerate reports whether the fit collapsed to a point mass at Loc.
func (f Fit) Degenerate() bool {
	return f.Scale2 < core.DegenerateEps
}

// Sigma returns the scale (standard deviation analogue) of the fit.
func (f Fit) Sigma() float64 {
	return math.Sqrt(f.Scale2)
}

// Skewness moderation breakpoints. Absolute skewness below the knee
// passes through; values up to the clamp are compressed linearly into
// [0.9, 0.955]; anything beyond is pinned at 0.955 so the shape
// parameter cannot diverge.
const (
	skewKnee  = 0.9
	skewClamp = 2.0
	skewCeil  = 0.955
)

// moderation constant K = 2*((4-pi)/2)^(2/3) of the delta formula.
var skewK = 2 * math.Pow((4-math.Pi)/2, 2.0/3.0)

// FromMoments fits a B-normal to a raw moment triple by the method of
// moments. A variance below the degenerate floor yields a point mass at
// the mean. Zero skewness reduces exactly to the symmetric normal fit:
// alpha = 0, Scale2 = variance, Loc = mean.
func FromMoments(m core.Moments) Fit {
	if m.Var < core.DegenerateEps {
		return Fit{Loc: m.Mean}
	}
	skew := m.Third / math.Pow(m.Var, 1.5)
	b := moderateSkew(math.Abs(skew))
	if b == 0 {
		return Fit{Loc: m.Mean, Scale2: m.Var}
	}
	tau := math.Pow(b, 2.0/3.0)
	delta := math.Sqrt(math.Pi * tau / (2*tau + skewK))
	if skew < 0 {
		delta = -delta
	}
	alpha := delta / math.Sqrt(1-delta*delta)
	scale2 := m.Var / (1 - 2*delta*delta/math.Pi)
	loc := m.Mean - math.Sqrt(scale2)*delta*math.Sqrt(2/math.Pi)
	return Fit{Loc: loc, Scale2: scale2, Alpha: alpha}
}

func moderateSkew(b float64) float64 {
	switch {
	case b < skewKnee:
		return b
	case b <= skewClamp:
		return skewKnee + (b-skewKnee)*(skewCeil-skewKnee)/(skewClamp-skewKnee)
	default:
		return skewCeil
	}
}
