package belief

import (
	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/dist"
	"github.com/uneda-cda/UNEDA-sub000/evalcache"
)

// refSpan anchors the truncated [min,max] result scale onto the fitted
// distribution's own CDF scale. The kernel hull only covers the
// consistent scenarios; the fit's support usually extends past it, so
// every query converts through these two affine helpers.
type refSpan struct {
	lo float64 // fitted CDF at hull min
	hi float64 // fitted CDF at hull max
}

func newRefSpan(e *evalcache.Entry) refSpan {
	return refSpan{
		lo: dist.CDF(e.Result.Min, e.Fit),
		hi: dist.CDF(e.Result.Max, e.Fit),
	}
}

// width is the share of total probability the fit places inside the
// hull. Anything under the weak-mass cutoff means the fit represents a
// heavily truncated shape poorly.
func (s refSpan) width() float64 {
	return s.hi - s.lo
}

// fracToCDF maps a truncated-range mass fraction (0 = min, 1 = max)
// onto the fitted CDF scale.
func (s refSpan) fracToCDF(f float64) float64 {
	return s.lo + f*(s.hi-s.lo)
}

// cdfToFrac maps a raw fitted CDF value back to a truncated-range mass
// fraction, clamped to [0,1].
func (s refSpan) cdfToFrac(p float64) float64 {
	if s.width() < core.ProbEps {
		return 0.5
	}
	f := (p - s.lo) / s.width()
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
