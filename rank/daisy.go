package rank

import (
	"context"
	"sort"

	"github.com/uneda-cda/UNEDA-sub000/belief"
	"github.com/uneda-cda/UNEDA-sub000/core"
)

// DaisyMode selects the chaining direction of the presentational
// allocations.
type DaisyMode int

const (
	// DaisyStandard chains from the top-ranked alternative downward.
	DaisyStandard DaisyMode = iota
	// DaisyCosy chains from the bottom upward, kept for compatibility
	// with older presentations.
	DaisyCosy
)

// DaisyChain builds a per-alternative allocation by chaining
// adjacent-in-rank pairwise belief-mass comparisons, decaying
// geometrically from the anchor alternative with moderated strengths.
// Purely presentational; never used for ranking decisions.
func (r *Ranker) DaisyChain(ctx context.Context, slot int, mode DaisyMode) ([]float64, error) {
	weights, _, err := r.daisy(ctx, slot, mode)
	return weights, err
}

// PieChart is the daisy chain normalized into proportional shares.
func (r *Ranker) PieChart(ctx context.Context, slot int, mode DaisyMode) ([]float64, error) {
	weights, total, err := r.daisy(ctx, slot, mode)
	if err != nil {
		return nil, err
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights, nil
}

func (r *Ranker) daisy(ctx context.Context, slot int, mode DaisyMode) ([]float64, float64, error) {
	n := r.eng.Kernel().AlternativeCount()
	omega := make([]float64, n)
	weights := make([]float64, n)

	err := r.eng.Exclusive(func(q belief.Queries) error {
		for alt := 0; alt < n; alt++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			hull, _, err := q.Evaluate(ctx, slot, core.RulePsi, alt, 0)
			if err != nil {
				return err
			}
			omega[alt] = hull.Mid
		}

		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return omega[order[a]] > omega[order[b]]
		})

		// Only adjacent-in-rank pairs are compared, not all pairs.
		strength := make([]float64, 0, n)
		for k := 0; k+1 < n; k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			leader, follower := order[k], order[k+1]
			if _, _, err := q.Evaluate(ctx, slot, core.RulePsi, leader, 0); err != nil {
				return err
			}
			s, _, err := q.MassAbove(slot, omega[follower])
			if err != nil {
				return err
			}
			strength = append(strength, r.moderate(s))
		}

		if mode == DaisyCosy {
			w := 1.0
			weights[order[n-1]] = w
			for k := n - 2; k >= 0; k-- {
				w *= 1 - strength[k]
				weights[order[k]] = w
			}
		} else {
			w := 1.0
			weights[order[0]] = w
			for k := 0; k+1 < n; k++ {
				w *= 1 - strength[k]
				weights[order[k+1]] = w
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	return weights, total, nil
}

// moderate clamps a raw pairwise strength into the configured band so
// one overwhelming comparison cannot zero out the rest of the chain.
func (r *Ranker) moderate(s float64) float64 {
	if s < r.cfg.DaisyFloor {
		return r.cfg.DaisyFloor
	}
	if s > r.cfg.DaisyCeil {
		return r.cfg.DaisyCeil
	}
	return s
}
