// Package rank orders and compares alternatives by repeatedly
// evaluating them through the belief engine: EV/CDF ranking with
// tolerance bands, stochastic dominance over sampled cones, dominance
// matrices with transitive reduction and layered ranks, absolute
// dominance across criteria, and the presentational daisy-chain and
// pie-chart allocations.
package rank

import (
	"context"
	"log/slog"
	"sort"

	"github.com/uneda-cda/UNEDA-sub000/belief"
	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/pkg/metrics"
)

// Mode is the rank-assignment discipline for near-ties.
type Mode int

const (
	// ModeOlympic lets ties share a rank with no gaps after them.
	ModeOlympic Mode = iota
	// ModeStrict forces distinct positions, optionally nudging ties
	// apart by a tiny variance-based tie-break.
	ModeStrict
	// ModeGrouped collapses ties but advances following ranks by the
	// group size.
	ModeGrouped
)

func (m Mode) String() string {
	switch m {
	case ModeOlympic:
		return "olympic"
	case ModeStrict:
		return "strict"
	case ModeGrouped:
		return "grouped"
	}
	return "unknown"
}

// Config holds the empirical thresholds of the subsystem. Defaults
// match prior validated behavior.
type Config struct {
	// TieTolerance is the value horizon inside which two alternatives
	// count as tied.
	TieTolerance float64 `yaml:"tie_tolerance"`

	// StepThreshold is the per-step magnitude a cone difference must
	// exceed to set a direction flag.
	StepThreshold float64 `yaml:"step_threshold"`

	// Significance is the aggregate magnitude a dominance verdict must
	// exceed to count at all.
	Significance float64 `yaml:"significance"`

	// VarianceTieBreak enables the strict-mode nudge that orders tied
	// alternatives by ascending variance.
	VarianceTieBreak bool `yaml:"variance_tie_break"`

	// DaisyFloor and DaisyCeil moderate the adjacent-pair strengths
	// that drive the daisy-chain decay.
	DaisyFloor float64 `yaml:"daisy_floor"`
	DaisyCeil  float64 `yaml:"daisy_ceil"`
}

// DefaultConfig returns the validated thresholds.
func DefaultConfig() Config {
	return Config{
		TieTolerance:     core.RankEps,
		StepThreshold:    1e-4,
		Significance:     0.01,
		VarianceTieBreak: true,
		DaisyFloor:       0.1,
		DaisyCeil:        0.9,
	}
}

// Ranker runs the ranking and dominance operations on top of a belief
// engine. Each public method is one top-level entry under the engine's
// reentrancy guard; abort is polled through ctx between alternatives.
type Ranker struct {
	eng     *belief.Engine
	cfg     Config
	log     *slog.Logger
	metrics *metrics.PrometheusMetrics
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Ranker) { r.log = l }
}

// WithMetrics sets the Prometheus metric set.
func WithMetrics(m *metrics.PrometheusMetrics) Option {
	return func(r *Ranker) { r.metrics = m }
}

// WithConfig overrides the thresholds.
func WithConfig(cfg Config) Option {
	return func(r *Ranker) { r.cfg = cfg }
}

// NewRanker creates a ranker over the engine.
func NewRanker(eng *belief.Engine, opts ...Option) *Ranker {
	r := &Ranker{
		eng: eng,
		cfg: DefaultConfig(),
		log: slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Ranking is the result of a ranking pass: per-alternative values and
// ranks for both orderings, plus any informational notes.
type Ranking struct {
	Omega     []float64 // direct (psi) values
	Gamma     []float64 // vs-group-average values
	OmegaRank []int
	GammaRank []int
	Notes     []core.Note
}

// Rank evaluates every alternative under the direct rule for omega
// values and under the group-average rule for gamma values, then
// assigns ranks per the chosen discipline. A position-for-position
// disagreement between the two orderings is reported as a note, not an
// error.
func (r *Ranker) Rank(ctx context.Context, slot int, mode Mode) (*Ranking, error) {
	n := r.eng.Kernel().AlternativeCount()
	out := &Ranking{
		Omega: make([]float64, n),
		Gamma: make([]float64, n),
	}
	variance := make([]float64, n)

	err := r.eng.Exclusive(func(q belief.Queries) error {
		for alt := 0; alt < n; alt++ {
			// Abort is honored at alternative-boundary granularity only.
			if err := ctx.Err(); err != nil {
				return err
			}
			hull, _, err := q.Evaluate(ctx, slot, core.RulePsi, alt, 0)
			if err != nil {
				return err
			}
			out.Omega[alt] = hull.Mid
			fit, err := q.Fit(slot)
			if err != nil {
				return err
			}
			variance[alt] = fit.Scale2
			if n > 1 {
				hull, _, err = q.Evaluate(ctx, slot, core.RuleGamma, alt, 0)
				if err != nil {
					return err
				}
				out.Gamma[alt] = hull.Mid
			} else {
				out.Gamma[alt] = out.Omega[alt]
			}
		}
		return nil
	})
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordRanking(mode.String(), "failed")
		}
		return nil, err
	}

	omegaOrder := r.order(out.Omega, variance, mode)
	gammaOrder := r.order(out.Gamma, variance, mode)
	out.OmegaRank = r.assign(out.Omega, omegaOrder, mode)
	out.GammaRank = r.assign(out.Gamma, gammaOrder, mode)

	for i := range omegaOrder {
		if omegaOrder[i] != gammaOrder[i] {
			out.Notes = append(out.Notes, core.NoteDifferingRanks)
			if r.metrics != nil {
				r.metrics.DifferingRanksTotal.Inc()
			}
			break
		}
	}

	if r.metrics != nil {
		r.metrics.RecordRanking(mode.String(), "ok")
	}
	r.log.InfoContext(ctx, "ranking completed",
		"slot", slot, "mode", mode.String(), "alternatives", n,
		"differing", core.HasNote(out.Notes, core.NoteDifferingRanks))
	return out, nil
}

// order returns alternative indices sorted by descending value, stable
// under the tie tolerance. In strict mode with the tie-break enabled,
// tied alternatives are nudged apart by ascending variance.
func (r *Ranker) order(values, variance []float64, mode Mode) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := values[idx[a]], values[idx[b]]
		if core.ApproxEqual(va, vb, r.cfg.TieTolerance) {
			if mode == ModeStrict && r.cfg.VarianceTieBreak {
				return variance[idx[a]] < variance[idx[b]]
			}
			return false
		}
		return va > vb
	})
	return idx
}

// assign converts a sorted order into per-alternative rank numbers
// under the discipline.
func (r *Ranker) assign(values []float64, order []int, mode Mode) []int {
	ranks := make([]int, len(order))
	group := 1
	for pos, alt := range order {
		if pos == 0 {
			ranks[alt] = 1
			continue
		}
		prev := order[pos-1]
		tied := core.ApproxEqual(values[alt], values[prev], r.cfg.TieTolerance)
		switch mode {
		case ModeStrict:
			ranks[alt] = pos + 1
		case ModeGrouped:
			if tied {
				ranks[alt] = ranks[prev]
			} else {
				ranks[alt] = pos + 1
			}
		default: // olympic: ties share, no gaps
			if tied {
				ranks[alt] = ranks[prev]
			} else {
				group++
				ranks[alt] = group
			}
		}
	}
	return ranks
}
