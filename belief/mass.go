package belief

import (
	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/dist"
	"github.com/uneda-cda/UNEDA-sub000/evalcache"
)

// MassAbove returns the belief mass above level on the slot's result
// scale. At a point mass the level sitting exactly on the point splits
// the mass 0.5/0.5 instead of dumping it all on one side; that keeps
// above+below continuous through the point.
func (s session) MassAbove(slot int, level float64) (float64, []core.Note, error) {
	entry, err := s.e.cache.Get(slot)
	if err != nil {
		s.recordQuery("mass_above", err)
		return 0, nil, err
	}
	notes := s.classify(entry)
	s.recordQuery("mass_above", nil)
	return s.massAbove(entry, level), notes, nil
}

// MassBelow is the complement of MassAbove, sharing its point-mass rule.
func (s session) MassBelow(slot int, level float64) (float64, []core.Note, error) {
	entry, err := s.e.cache.Get(slot)
	if err != nil {
		s.recordQuery("mass_below", err)
		return 0, nil, err
	}
	notes := s.classify(entry)
	s.recordQuery("mass_below", nil)
	return 1 - s.massAbove(entry, level), notes, nil
}

// MassRange returns the belief mass inside [lo,hi], computed as the
// difference of two above-queries nudged just outside the range.
func (s session) MassRange(slot int, lo, hi float64) (float64, []core.Note, error) {
	entry, err := s.e.cache.Get(slot)
	if err != nil {
		s.recordQuery("mass_range", err)
		return 0, nil, err
	}
	notes := s.classify(entry)
	s.recordQuery("mass_range", nil)
	m := s.massAbove(entry, lo-core.ValueEps) - s.massAbove(entry, hi+core.ValueEps)
	if m < 0 {
		m = 0
	}
	if m > 1 {
		m = 1
	}
	return m, notes, nil
}

// Density returns the belief density at level: a centered finite
// difference of the mass queries, snapped to zero below the numeric
// floor. An exact point mass reports the Dirac sentinel instead.
func (s session) Density(slot int, level float64) (float64, []core.Note, error) {
	entry, err := s.e.cache.Get(slot)
	if err != nil {
		s.recordQuery("density", err)
		return 0, nil, err
	}
	notes := s.classify(entry)
	s.recordQuery("density", nil)
	if entry.Result.Degenerate() {
		if core.ApproxEqual(level, entry.Result.Mid, core.ValueEps) {
			return s.e.cfg.DiracDensity, notes, nil
		}
		return 0, notes, nil
	}
	h := s.e.cfg.DensityStep
	d := (s.massAbove(entry, level-h) - s.massAbove(entry, level+h)) / (2 * h)
	if d < s.e.cfg.DensityFloor {
		d = 0
	}
	return d, notes, nil
}

// massAbove is the shared worker: evaluate the fitted CDF, clamp it
// against the reference CDF at the hull bounds, rescale to the
// truncated range and complement.
func (s session) massAbove(entry *evalcache.Entry, level float64) float64 {
	if entry.Result.Degenerate() {
		point := entry.Result.Mid
		switch {
		case core.ApproxEqual(level, point, core.ValueEps):
			return 0.5
		case level < point:
			return 1
		default:
			return 0
		}
	}
	span := newRefSpan(entry)
	p := dist.CDF(level, entry.Fit)
	if p < span.lo {
		p = span.lo
	}
	if p > span.hi {
		p = span.hi
	}
	return 1 - span.cdfToFrac(p)
}

func (s session) recordQuery(kind string, err error) {
	if s.e.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "rejected"
	}
	s.e.metrics.RecordQuery(kind, status)
}
