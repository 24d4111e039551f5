package belief

import (
	"fmt"
	"math"

	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/dist"
	"github.com/uneda-cda/UNEDA-sub000/evalcache"
)

// Anchor selects how a support interval sits inside the hull.
type Anchor int

const (
	// AnchorCentered places the requested mass symmetrically around
	// the median.
	AnchorCentered Anchor = iota
	// AnchorLower pins the interval's lower end to the hull minimum.
	AnchorLower
	// AnchorUpper pins the interval's upper end to the hull maximum.
	AnchorUpper
)

func (a Anchor) String() string {
	switch a {
	case AnchorCentered:
		return "centered"
	case AnchorLower:
		return "lower"
	case AnchorUpper:
		return "upper"
	}
	return "unknown"
}

// SupportInterval returns the value interval [lo,hi] that holds the
// given belief level (e.g. 0.9 for the central 90% interval). Endpoints
// are located by a bounded step-halving search on the value axis.
func (s session) SupportInterval(slot int, level float64, anchor Anchor) (float64, float64, []core.Note, error) {
	if level < 0 || level > 1 {
		err := fmt.Errorf("%w: belief level %v outside [0,1]", core.ErrWrongRule, level)
		s.recordQuery("support_interval", err)
		return 0, 0, nil, err
	}
	entry, err := s.e.cache.Get(slot)
	if err != nil {
		s.recordQuery("support_interval", err)
		return 0, 0, nil, err
	}
	notes := s.classify(entry)
	s.recordQuery("support_interval", nil)
	if entry.Result.Degenerate() {
		return entry.Result.Mid, entry.Result.Mid, notes, nil
	}

	span := newRefSpan(entry)
	var lo, hi float64
	switch anchor {
	case AnchorLower:
		lo = entry.Result.Min
		hi = s.searchValue(entry, span, level)
	case AnchorUpper:
		lo = s.searchValue(entry, span, 1-level)
		hi = entry.Result.Max
	default:
		lo = s.searchValue(entry, span, (1-level)/2)
		hi = s.searchValue(entry, span, (1+level)/2)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, notes, nil
}

// searchValue locates the value whose rescaled CDF equals the target
// truncated-range fraction. Step-halving from the hull midpoint,
// bounded by the configured iteration budget and tolerance. On
// exhaustion the current estimate is returned, never an error.
func (s session) searchValue(entry *evalcache.Entry, span refSpan, frac float64) float64 {
	target := span.fracToCDF(frac)
	v := (entry.Result.Min + entry.Result.Max) / 2
	step := (entry.Result.Max - entry.Result.Min) / 4
	for i := 0; i < s.e.cfg.SupportIterations; i++ {
		p := dist.CDF(v, entry.Fit)
		if math.Abs(p-target) < s.e.cfg.SupportTolerance {
			break
		}
		if p < target {
			v += step
		} else {
			v -= step
		}
		step /= 2
	}
	return v
}

// AversionValue maps a risk-aversion parameter to an outcome value: the
// parameter picks a support level via 1-2^(-|r|) and the matching
// interval endpoint, upper for risk-averse (positive) and lower for
// risk-seeking (negative). Small magnitudes interpolate linearly toward
// the central value instead of querying an unstable near-zero level.
func (s session) AversionValue(slot int, aversion float64) (float64, []core.Note, error) {
	entry, err := s.e.cache.Get(slot)
	if err != nil {
		s.recordQuery("aversion_value", err)
		return 0, nil, err
	}
	notes := s.classify(entry)
	s.recordQuery("aversion_value", nil)
	if entry.Result.Degenerate() {
		return entry.Result.Mid, notes, nil
	}

	mag := math.Abs(aversion)
	if mag > s.e.cfg.MaxAversion {
		mag = s.e.cfg.MaxAversion
	}
	span := newRefSpan(entry)
	if mag < s.e.cfg.MinAversion {
		edge := s.aversionEndpoint(entry, span, s.e.cfg.MinAversion, aversion)
		w := mag / s.e.cfg.MinAversion
		return entry.Result.Mid + w*(edge-entry.Result.Mid), notes, nil
	}
	return s.aversionEndpoint(entry, span, mag, aversion), notes, nil
}

func (s session) aversionEndpoint(entry *evalcache.Entry, span refSpan, mag, aversion float64) float64 {
	level := 1 - math.Exp2(-mag)
	if aversion >= 0 {
		return s.searchValue(entry, span, (1+level)/2)
	}
	return s.searchValue(entry, span, (1-level)/2)
}
