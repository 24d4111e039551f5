package rank

import (
	"context"

	"github.com/uneda-cda/UNEDA-sub000/belief"
	"github.com/uneda-cda/UNEDA-sub000/core"
)

// coneLevels is the number of belief levels a cone is sampled at:
// 0% to 100% in 5% steps.
const coneLevels = 21

// cone is an expanded evaluation: a centered support interval per
// belief level plus the evaluation midpoint. Cones are recomputed per
// use and never cached; only the underlying evaluation is.
type cone struct {
	lo  [coneLevels]float64
	hi  [coneLevels]float64
	mid float64
}

// expandCone samples the current cached evaluation of slot into a cone
// by repeated support-interval queries.
func expandCone(q belief.Queries, slot int) (cone, error) {
	var c cone
	res, err := q.Result(slot)
	if err != nil {
		return c, err
	}
	c.mid = res.Mid
	for i := 0; i < coneLevels; i++ {
		level := float64(i) / float64(coneLevels-1)
		lo, hi, _, err := q.SupportInterval(slot, level, belief.AnchorCentered)
		if err != nil {
			return c, err
		}
		c.lo[i] = lo
		c.hi[i] = hi
	}
	return c, nil
}

// evaluateCone evaluates one alternative under the direct rule and
// expands it.
func evaluateCone(ctx context.Context, q belief.Queries, slot, alt int) (cone, error) {
	if _, _, err := q.Evaluate(ctx, slot, core.RulePsi, alt, 0); err != nil {
		return cone{}, err
	}
	return expandCone(q, slot)
}
