// Package belief turns the kernel's raw moments into a continuous
// belief distribution per slot and answers probabilistic queries
// against it. All queries read the evaluation cache and fail with
// core.ErrNotReady until the slot has been evaluated.
package belief

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/dist"
	"github.com/uneda-cda/UNEDA-sub000/evalcache"
	"github.com/uneda-cda/UNEDA-sub000/pkg/metrics"
)

// Queries is the unguarded operation set handed to a composite
// subsystem inside Exclusive. Everything here assumes the caller
// already holds the engine guard.
type Queries interface {
	Evaluate(ctx context.Context, slot int, rule core.Rule, altA, altB int) (core.ResultTriple, []core.Note, error)
	Result(slot int) (core.ResultTriple, error)
	Fit(slot int) (dist.Fit, error)
	MassAbove(slot int, level float64) (float64, []core.Note, error)
	MassBelow(slot int, level float64) (float64, []core.Note, error)
	MassRange(slot int, lo, hi float64) (float64, []core.Note, error)
	Density(slot int, level float64) (float64, []core.Note, error)
	SupportInterval(slot int, level float64, anchor Anchor) (lo, hi float64, notes []core.Note, err error)
	AversionValue(slot int, aversion float64) (float64, []core.Note, error)
}

// Engine owns the evaluation cache and the query layer. It is strictly
// single-threaded: a process-wide reentrancy guard rejects any
// overlapping top-level call with core.ErrBusy instead of queueing it.
type Engine struct {
	kernel  core.Kernel
	cache   *evalcache.Cache
	cfg     Config
	log     *slog.Logger
	metrics *metrics.PrometheusMetrics
	busy    atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the Prometheus metric set.
func WithMetrics(m *metrics.PrometheusMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithConfig overrides the tuning constants.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// New creates an engine over the given kernel.
func New(kernel core.Kernel, opts ...Option) *Engine {
	e := &Engine{
		kernel: kernel,
		cfg:    DefaultConfig(),
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	cacheOpts := []evalcache.Option{evalcache.WithLogger(e.log)}
	if e.metrics != nil {
		cacheOpts = append(cacheOpts, evalcache.WithMetrics(e.metrics))
	}
	e.cache = evalcache.New(cacheOpts...)
	return e
}

// Kernel returns the kernel the engine evaluates against.
func (e *Engine) Kernel() core.Kernel {
	return e.kernel
}

// Invalidate clears every cached evaluation. Wire this to every
// upstream mutation: statement or midpoint changes, box assignments,
// frame lifecycle events, criteria-tree changes.
func (e *Engine) Invalidate() {
	e.cache.Invalidate()
}

// Exclusive acquires the reentrancy guard, runs fn against the
// unguarded query set, and releases the guard. A nested or overlapping
// call fails immediately with core.ErrBusy.
func (e *Engine) Exclusive(fn func(Queries) error) error {
	if !e.busy.CompareAndSwap(false, true) {
		return core.ErrBusy
	}
	defer e.busy.Store(false)
	return fn(session{e})
}

// session implements Queries against the engine state.
type session struct {
	e *Engine
}

// Evaluate fetches moments and hull from the kernel for one
// alternative (or pair) under an aggregation rule, fits the belief
// distribution, and stores both in the slot's cache entry.
func (s session) Evaluate(ctx context.Context, slot int, rule core.Rule, altA, altB int) (core.ResultTriple, []core.Note, error) {
	e := s.e
	start := time.Now()
	if err := s.checkCall(slot, rule, altA, altB); err != nil {
		if e.metrics != nil {
			e.metrics.RecordEvaluation(rule.String(), "rejected", time.Since(start))
		}
		return core.ResultTriple{}, nil, err
	}

	moments, err := e.kernel.Moments(slot, rule, altA, altB)
	if err != nil {
		return core.ResultTriple{}, nil, fmt.Errorf("kernel moments: %w", err)
	}
	hull, err := e.kernel.Hull(slot, rule, altA, altB)
	if err != nil {
		return core.ResultTriple{}, nil, fmt.Errorf("kernel hull: %w", err)
	}

	fit := dist.FromMoments(moments)
	e.cache.Put(slot, fit, hull, rule, altA, altB)

	entry, err := e.cache.Get(slot)
	if err != nil {
		return core.ResultTriple{}, nil, err
	}
	notes := s.classify(entry)

	if e.metrics != nil {
		e.metrics.RecordEvaluation(rule.String(), "ok", time.Since(start))
	}
	e.log.DebugContext(ctx, "evaluation completed",
		"slot", slot, "rule", rule.String(), "alt_a", altA, "alt_b", altB,
		"min", hull.Min, "mid", hull.Mid, "max", hull.Max)
	return hull, notes, nil
}

// Result returns the cached result triple for slot.
func (s session) Result(slot int) (core.ResultTriple, error) {
	entry, err := s.e.cache.Get(slot)
	if err != nil {
		return core.ResultTriple{}, err
	}
	return entry.Result, nil
}

// Fit returns the cached fitted distribution for slot.
func (s session) Fit(slot int) (dist.Fit, error) {
	entry, err := s.e.cache.Get(slot)
	if err != nil {
		return dist.Fit{}, err
	}
	return entry.Fit, nil
}

// checkCall rejects structurally impossible calls before any
// computation: unknown slots or alternatives, a rule that does not fit
// the arguments, a partial slot with no whole-problem evaluation.
func (s session) checkCall(slot int, rule core.Rule, altA, altB int) error {
	e := s.e
	if !rule.Valid() {
		return core.ErrWrongRule
	}
	n := e.kernel.AlternativeCount()
	if altA < 0 || altA >= n {
		return core.ErrUnknownAlternative
	}
	switch rule {
	case core.RuleDelta:
		if altB < 0 || altB >= n || altB == altA {
			return core.ErrWrongRule
		}
	case core.RuleDigamma:
		if altB <= 0 || altB >= 1<<uint(n) {
			return core.ErrWrongRule
		}
	}
	switch {
	case slot == core.TotalSlot:
	case slot > 0:
		if slot > e.kernel.CriterionCount() {
			return core.ErrUnknownCriterion
		}
	default:
		if -slot > e.kernel.CriterionCount() {
			return core.ErrUnknownCriterion
		}
		if len(e.kernel.ChildCriteria(-slot)) == 0 {
			return core.ErrUnknownCriterion
		}
		// A partial aggregate only makes sense against the latest
		// whole-problem evaluation.
		if !e.cache.Valid(core.TotalSlot) {
			return core.ErrNotReady
		}
	}
	return nil
}

// Guarded convenience wrappers around the session operations. Each one
// is a top-level entry point subject to the reentrancy guard.

// Evaluate runs one evaluation; see Queries.Evaluate.
func (e *Engine) Evaluate(ctx context.Context, slot int, rule core.Rule, altA, altB int) (core.ResultTriple, []core.Note, error) {
	var (
		t     core.ResultTriple
		notes []core.Note
	)
	err := e.Exclusive(func(q Queries) error {
		var err error
		t, notes, err = q.Evaluate(ctx, slot, rule, altA, altB)
		return err
	})
	return t, notes, err
}

// MassAbove returns the belief mass strictly favoring outcomes above level.
func (e *Engine) MassAbove(slot int, level float64) (float64, []core.Note, error) {
	return e.massQuery(func(q Queries) (float64, []core.Note, error) {
		return q.MassAbove(slot, level)
	})
}

// MassBelow returns the belief mass below level.
func (e *Engine) MassBelow(slot int, level float64) (float64, []core.Note, error) {
	return e.massQuery(func(q Queries) (float64, []core.Note, error) {
		return q.MassBelow(slot, level)
	})
}

// MassRange returns the belief mass inside [lo,hi].
func (e *Engine) MassRange(slot int, lo, hi float64) (float64, []core.Note, error) {
	return e.massQuery(func(q Queries) (float64, []core.Note, error) {
		return q.MassRange(slot, lo, hi)
	})
}

// Density returns the belief density at level.
func (e *Engine) Density(slot int, level float64) (float64, []core.Note, error) {
	return e.massQuery(func(q Queries) (float64, []core.Note, error) {
		return q.Density(slot, level)
	})
}

// SupportInterval returns the [lo,hi] interval holding the given belief
// level, anchored per mode.
func (e *Engine) SupportInterval(slot int, level float64, anchor Anchor) (float64, float64, []core.Note, error) {
	var (
		lo, hi float64
		notes  []core.Note
	)
	err := e.Exclusive(func(q Queries) error {
		var err error
		lo, hi, notes, err = q.SupportInterval(slot, level, anchor)
		return err
	})
	return lo, hi, notes, err
}

// AversionValue maps a risk-aversion parameter to an outcome value.
func (e *Engine) AversionValue(slot int, aversion float64) (float64, []core.Note, error) {
	return e.massQuery(func(q Queries) (float64, []core.Note, error) {
		return q.AversionValue(slot, aversion)
	})
}

func (e *Engine) massQuery(fn func(Queries) (float64, []core.Note, error)) (float64, []core.Note, error) {
	var (
		v     float64
		notes []core.Note
	)
	err := e.Exclusive(func(q Queries) error {
		var err error
		v, notes, err = fn(q)
		return err
	})
	return v, notes, err
}
