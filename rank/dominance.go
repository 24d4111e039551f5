package rank

import (
	"context"
	"math"

	"github.com/uneda-cda/UNEDA-sub000/belief"
	"github.com/uneda-cda/UNEDA-sub000/core"
)

// Order is a stochastic dominance order between two alternatives.
type Order int

const (
	// OrderNone means no significant dominance either way.
	OrderNone Order = 0
	// OrderFirst means every sampled cone step favors one side.
	OrderFirst Order = 1
	// OrderSecond means steps point both ways but the aggregate is
	// still significant.
	OrderSecond Order = 2
)

// Verdict is a pairwise dominance result: the order plus the signed
// aggregate magnitude, positive when the first alternative is favored.
type Verdict struct {
	Order     Order
	Magnitude float64
}

// coneSign is the direction accumulator fed by the per-step cone
// differences. The finite transition set replaces bit flags: flat until
// a step clears the threshold, then plus or minus, and mixed once steps
// have pointed both ways. Mixed is absorbing.
type coneSign int

const (
	signFlat coneSign = iota
	signPlus
	signMinus
	signMixed
)

func (s coneSign) feed(d, threshold float64) coneSign {
	switch {
	case d > threshold:
		if s == signMinus || s == signMixed {
			return signMixed
		}
		return signPlus
	case d < -threshold:
		if s == signPlus || s == signMixed {
			return signMixed
		}
		return signMinus
	}
	return s
}

// Dominance compares two alternatives on one slot: both are evaluated
// under the direct rule, expanded into 21-level cones, and the signed
// per-step differences are accumulated into a direction and an
// aggregate magnitude.
func (r *Ranker) Dominance(ctx context.Context, slot, altA, altB int) (Verdict, error) {
	var v Verdict
	err := r.eng.Exclusive(func(q belief.Queries) error {
		var err error
		v, err = r.dominance(ctx, q, slot, altA, altB)
		return err
	})
	return v, err
}

func (r *Ranker) dominance(ctx context.Context, q belief.Queries, slot, altA, altB int) (Verdict, error) {
	ca, err := evaluateCone(ctx, q, slot, altA)
	if err != nil {
		return Verdict{}, err
	}
	cb, err := evaluateCone(ctx, q, slot, altB)
	if err != nil {
		return Verdict{}, err
	}

	sign := signFlat
	sum := 0.0
	for i := 0; i < coneLevels; i++ {
		dlo := ca.lo[i] - cb.lo[i]
		dhi := ca.hi[i] - cb.hi[i]
		sign = sign.feed(dlo, r.cfg.StepThreshold)
		sign = sign.feed(dhi, r.cfg.StepThreshold)
		sum += dlo + dhi
	}
	dmid := ca.mid - cb.mid
	sign = sign.feed(dmid, r.cfg.StepThreshold)
	sum += dmid

	v := Verdict{Magnitude: sum / (2*coneLevels + 1)}
	if math.Abs(v.Magnitude) <= r.cfg.Significance {
		return v, nil
	}
	switch sign {
	case signPlus, signMinus:
		v.Order = OrderFirst
	case signMixed:
		v.Order = OrderSecond
	}
	return v, nil
}

// Matrix is a pairwise dominance matrix over all alternatives, with the
// implied edges removed and layered ranks assigned.
type Matrix struct {
	// Order[i][j] is the dominance order of i over j; zero when i does
	// not dominate j.
	Order [][]Order
	// Magnitude[i][j] is the signed aggregate magnitude of the (i,j)
	// comparison.
	Magnitude [][]float64
	// Reduced[i][j] marks the edges that survive transitive reduction.
	Reduced [][]bool
	// Ranks are the layered dominance ranks per alternative.
	Ranks []int
}

// DominanceMatrix compares every pair on one slot, removes edges
// implied by chains of other edges, and peels undominated alternatives
// into rank layers. threshold overrides the configured significance
// when positive.
func (r *Ranker) DominanceMatrix(ctx context.Context, slot int, mode Mode, threshold float64) (*Matrix, error) {
	cfg := r.cfg
	if threshold > 0 {
		cfg.Significance = threshold
	}
	sub := &Ranker{eng: r.eng, cfg: cfg, log: r.log, metrics: r.metrics}

	n := r.eng.Kernel().AlternativeCount()
	m := &Matrix{
		Order:     makeOrders(n),
		Magnitude: makeFloats(n),
		Reduced:   makeBools(n),
	}

	err := r.eng.Exclusive(func(q belief.Queries) error {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < n; j++ {
				v, err := sub.dominance(ctx, q, slot, i, j)
				if err != nil {
					return err
				}
				m.Magnitude[i][j] = v.Magnitude
				m.Magnitude[j][i] = -v.Magnitude
				if v.Order == OrderNone {
					continue
				}
				if v.Magnitude > 0 {
					m.Order[i][j] = v.Order
				} else {
					m.Order[j][i] = v.Order
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reduceTransitive(m)
	ranks, err := layerRanks(m, mode)
	if err != nil {
		return nil, err
	}
	m.Ranks = ranks
	return m, nil
}

// reduceTransitive drops every edge already implied by a chain of two
// other edges.
func reduceTransitive(m *Matrix) {
	n := len(m.Order)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.Order[i][j] == OrderNone {
				continue
			}
			m.Reduced[i][j] = true
			for k := 0; k < n; k++ {
				if k == i || k == j {
					continue
				}
				if m.Order[i][k] != OrderNone && m.Order[k][j] != OrderNone {
					m.Reduced[i][j] = false
					break
				}
			}
		}
	}
}

// layerRanks peels currently-undominated alternatives off the dominance
// graph layer by layer, Kahn style. The loop is bounded by the
// alternative count; failing to empty the graph inside the bound is an
// internal error, never silently guessed around.
func layerRanks(m *Matrix, mode Mode) ([]int, error) {
	n := len(m.Order)
	ranks := make([]int, n)
	remaining := make([]bool, n)
	for i := range remaining {
		remaining[i] = true
	}

	assigned := 0
	layer := 0
	position := 0
	for iter := 0; iter < n && assigned < n; iter++ {
		var peel []int
		for i := 0; i < n; i++ {
			if !remaining[i] {
				continue
			}
			dominated := false
			for j := 0; j < n; j++ {
				if remaining[j] && m.Order[j][i] != OrderNone {
					dominated = true
					break
				}
			}
			if !dominated {
				peel = append(peel, i)
			}
		}
		if len(peel) == 0 {
			return nil, core.ErrLayering
		}
		layer++
		for _, i := range peel {
			switch mode {
			case ModeStrict:
				position++
				ranks[i] = position
			case ModeGrouped:
				ranks[i] = assigned + 1
			default: // olympic layers share, no gaps
				ranks[i] = layer
			}
			remaining[i] = false
		}
		assigned += len(peel)
	}
	if assigned < n {
		return nil, core.ErrLayering
	}
	return ranks, nil
}

func makeOrders(n int) [][]Order {
	m := make([][]Order, n)
	for i := range m {
		m[i] = make([]Order, n)
	}
	return m
}

func makeFloats(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func makeBools(n int) [][]bool {
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}
	return m
}
