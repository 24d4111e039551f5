package rank

import (
	"context"

	"github.com/uneda-cda/UNEDA-sub000/belief"
)

// AbsoluteMode selects how per-criterion dominance verdicts combine
// into one verdict per alternative pair.
type AbsoluteMode int

const (
	// AbsDom requires every criterion to agree.
	AbsDom AbsoluteMode = iota
	// AbsSum lets any single criterion decide.
	AbsSum
)

func (m AbsoluteMode) String() string {
	switch m {
	case AbsDom:
		return "abs_dom"
	case AbsSum:
		return "abs_sum"
	}
	return "unknown"
}

// The two combination machines, written out as their full transition
// tables: absStep[mode][old state][input] = new state. States and
// inputs are dominance orders: 0 none, 1 first-order, 2 second-order.
//
// All-criteria-must-agree: second-order is kept unless a first-order
// input arrives; none and first-order take the input unless the input
// is none and the state already holds something.
var absDomTable = [3][3]Order{
	{OrderNone, OrderFirst, OrderSecond},
	{OrderFirst, OrderFirst, OrderSecond},
	{OrderSecond, OrderFirst, OrderSecond},
}

// Any-criterion-decides: first-order is absorbing; second-order is kept
// on a none input but upgraded by a first-order input; none takes the
// input.
var absSumTable = [3][3]Order{
	{OrderNone, OrderFirst, OrderSecond},
	{OrderFirst, OrderFirst, OrderFirst},
	{OrderSecond, OrderFirst, OrderSecond},
}

// absStep advances one combination machine.
func absStep(mode AbsoluteMode, state, input Order) Order {
	if mode == AbsSum {
		return absSumTable[state][input]
	}
	return absDomTable[state][input]
}

// AbsoluteMatrix holds criterion-independent dominance: one combined
// verdict per ordered pair plus the short-circuit summary flags.
type AbsoluteMatrix struct {
	// Verdict[i][j] is the combined order of i dominating j.
	Verdict [][]Order
	// Dominated[i] is true once any dominator of i is found.
	Dominated []bool
	// Dominates[i] is true once i dominates any other alternative.
	Dominates []bool
}

// AbsoluteDominance classifies every ordered pair on every criterion
// with the stochastic dominance test, then folds the per-criterion
// verdicts through the selected machine. threshold overrides the
// configured significance when positive.
func (r *Ranker) AbsoluteDominance(ctx context.Context, mode AbsoluteMode, threshold float64) (*AbsoluteMatrix, error) {
	cfg := r.cfg
	if threshold > 0 {
		cfg.Significance = threshold
	}
	sub := &Ranker{eng: r.eng, cfg: cfg, log: r.log, metrics: r.metrics}

	n := r.eng.Kernel().AlternativeCount()
	criteria := r.eng.Kernel().CriterionCount()
	out := &AbsoluteMatrix{
		Verdict:   makeOrders(n),
		Dominated: make([]bool, n),
		Dominates: make([]bool, n),
	}

	err := r.eng.Exclusive(func(q belief.Queries) error {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				state := OrderNone
				for crit := 1; crit <= criteria; crit++ {
					v, err := sub.dominance(ctx, q, crit, i, j)
					if err != nil {
						return err
					}
					input := OrderNone
					if v.Magnitude > 0 {
						input = v.Order
					}
					state = absStep(mode, state, input)
				}
				out.Verdict[i][j] = state
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		out.Dominated[i] = rowDominated(out.Verdict, i)
		out.Dominates[i] = columnDominates(out.Verdict, i)
	}
	return out, nil
}

// rowDominated reports whether any dominator of alt exists,
// short-circuiting on the first hit.
func rowDominated(verdict [][]Order, alt int) bool {
	for i := range verdict {
		if i != alt && verdict[i][alt] != OrderNone {
			return true
		}
	}
	return false
}

// columnDominates reports whether alt dominates any other alternative,
// short-circuiting on the first hit.
func columnDominates(verdict [][]Order, alt int) bool {
	for j := range verdict[alt] {
		if j != alt && verdict[alt][j] != OrderNone {
			return true
		}
	}
	return false
}
