package core

// Rule selects which moments the kernel aggregates for an evaluation.
type Rule int

const (
	// RulePsi evaluates one alternative directly.
	RulePsi Rule = iota
	// RuleDelta evaluates the pairwise difference altA - altB.
	RuleDelta
	// RuleGamma evaluates altA against the average of all other alternatives.
	RuleGamma
	// RuleDigamma evaluates altA against the average of a subset of
	// alternatives given as a bitmask in altB.
	RuleDigamma
)

func (r Rule) String() string {
	switch r {
	case RulePsi:
		return "psi"
	case RuleDelta:
		return "delta"
	case RuleGamma:
		return "gamma"
	case RuleDigamma:
		return "digamma"
	}
	return "unknown"
}

// Valid reports whether r is one of the four aggregation rules.
func (r Rule) Valid() bool {
	return r >= RulePsi && r <= RuleDigamma
}

// TotalSlot addresses the whole-problem (multi-criteria) aggregate.
// Positive slots address a single criterion; negative slots address an
// intermediate node of the criteria tree and are only meaningful against
// the most recent whole-problem evaluation.
const TotalSlot = 0

// Moments is the raw moment triple the kernel reports for an aggregated
// outcome: raw mean, central variance, central third moment.
type Moments struct {
	Mean  float64
	Var   float64
	Third float64
}

// ResultTriple is the truncated outcome hull of an evaluation: the
// bounds of all kernel-consistent scenarios and the central value.
type ResultTriple struct {
	Min float64
	Mid float64
	Max float64
}

// Degenerate reports whether the hull has collapsed to a point mass.
func (t ResultTriple) Degenerate() bool {
	return t.Max-t.Min < DegenerateEps
}

// Note is an informational, non-fatal condition reported alongside a
// result. Callers may act on notes or ignore them.
type Note int

const (
	// NoteWeakMass means the fitted distribution covers less than the
	// weak-mass cutoff between the hull bounds; the fit poorly
	// represents a heavily truncated shape.
	NoteWeakMass Note = iota + 1
	// NoteDiracMass means the hull collapsed to a point mass.
	NoteDiracMass
	// NoteDifferingRanks means the gamma ordering and the omega
	// ordering disagree position for position.
	NoteDifferingRanks
)

func (n Note) String() string {
	switch n {
	case NoteWeakMass:
		return "weak mass distribution"
	case NoteDiracMass:
		return "infinite/Dirac mass"
	case NoteDifferingRanks:
		return "differing ranks"
	}
	return "unknown note"
}

// HasNote reports whether notes contains n.
func HasNote(notes []Note, n Note) bool {
	for _, v := range notes {
		if v == n {
			return true
		}
	}
	return false
}
