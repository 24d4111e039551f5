package belief

import (
	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/evalcache"
)

// classify runs the companion validity check after a query: a Dirac
// note when the hull has collapsed to a point, a weak-mass note when
// the fitted CDF covers less than the cutoff between the hull bounds.
// Both are informational; the query result still stands.
func (s session) classify(entry *evalcache.Entry) []core.Note {
	if entry.Result.Degenerate() {
		if s.e.metrics != nil {
			s.e.metrics.DiracTotal.Inc()
		}
		return []core.Note{core.NoteDiracMass}
	}
	if newRefSpan(entry).width() < s.e.cfg.WeakMassCutoff {
		if s.e.metrics != nil {
			s.e.metrics.WeakMassTotal.Inc()
		}
		return []core.Note{core.NoteWeakMass}
	}
	return nil
}
