// Package evalcache stores the fitted distribution and raw result
// triple of the most recent evaluation per slot. Entries move from
// invalid to valid only through a successful evaluation and back to
// invalid only through the single clear-all invalidation; there is no
// partial invalidation on purpose. Precision about which slot an
// upstream mutation touched is traded for safety against missed
// invalidations.
package evalcache

import (
	"log/slog"

	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/dist"
	"github.com/uneda-cda/UNEDA-sub000/pkg/metrics"
)

// Entry is one slot's cached evaluation: the fitted distribution, the
// truncated result triple, and the call that produced them. Entries are
// never freed, only marked invalid.
type Entry struct {
	Valid  bool
	Fit    dist.Fit
	Result core.ResultTriple
	Rule   core.Rule
	AltA   int
	AltB   int

	// stamp ties a partial (negative) slot to the whole-problem
	// evaluation it was computed under.
	stamp uint64
}

// Cache is the per-slot evaluation store. It is the only mutable shared
// resource of the engine and follows a strict evaluate-then-query
// lifecycle. Not safe for concurrent use; the engine is single-threaded.
type Cache struct {
	entries    map[int]*Entry
	totalStamp uint64
	log        *slog.Logger
	metrics    *metrics.PrometheusMetrics
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithMetrics sets the Prometheus metric set.
func WithMetrics(m *metrics.PrometheusMetrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[int]*Entry),
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Put records a successful evaluation for slot, marking it valid.
// A whole-problem evaluation advances the generation stamp; a partial
// slot is stamped with the current generation and goes stale as soon as
// a newer whole-problem evaluation lands.
func (c *Cache) Put(slot int, fit dist.Fit, result core.ResultTriple, rule core.Rule, altA, altB int) {
	if slot == core.TotalSlot {
		c.totalStamp++
	}
	e, ok := c.entries[slot]
	if !ok {
		e = &Entry{}
		c.entries[slot] = e
	}
	e.Valid = true
	e.Fit = fit
	e.Result = result
	e.Rule = rule
	e.AltA = altA
	e.AltB = altB
	e.stamp = c.totalStamp
	if c.metrics != nil {
		c.metrics.CacheStoresTotal.Inc()
	}
}

// Get returns the valid entry for slot, core.ErrNotReady when no valid
// evaluation exists, or core.ErrStaleSlot when a partial slot was
// evaluated under an older whole-problem generation.
func (c *Cache) Get(slot int) (*Entry, error) {
	e, ok := c.entries[slot]
	if !ok || !e.Valid {
		if c.metrics != nil {
			c.metrics.CacheNotReadyTotal.Inc()
		}
		return nil, core.ErrNotReady
	}
	if slot < 0 && e.stamp != c.totalStamp {
		return nil, core.ErrStaleSlot
	}
	return e, nil
}

// Valid reports whether slot holds a valid, non-stale entry.
func (c *Cache) Valid(slot int) bool {
	e, ok := c.entries[slot]
	if !ok || !e.Valid {
		return false
	}
	return slot >= 0 || e.stamp == c.totalStamp
}

// Invalidate marks every entry invalid, including the whole-problem
// slot. It is unconditional: any statement or midpoint mutation, box
// assignment, frame load/unload/dispose, or criteria-tree change must
// funnel into this call.
func (c *Cache) Invalidate() {
	n := 0
	for _, e := range c.entries {
		if e.Valid {
			n++
		}
		e.Valid = false
	}
	if c.metrics != nil {
		c.metrics.CacheInvalidationsTotal.Inc()
	}
	c.log.Info("evaluation cache invalidated", "slots_cleared", n)
}

// TotalGeneration returns the current whole-problem generation stamp.
func (c *Cache) TotalGeneration() uint64 {
	return c.totalStamp
}

// Len returns the number of slots ever evaluated.
func (c *Cache) Len() int {
	return len(c.entries)
}
