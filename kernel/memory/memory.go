package memory

import (
	"fmt"
	"log/slog"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/uneda-cda/UNEDA-sub000/core"
)

// momentCacheSize bounds the derived-moment memo table.
const momentCacheSize = 512

type momentKey struct {
	slot int
	rule core.Rule
	altA int
	altB int
}

type derived struct {
	moments core.Moments
	hull    core.ResultTriple
}

// Kernel implements core.Kernel over an in-memory Problem. Derived
// moments are memoized in an LRU table that is purged on every
// mutation, mirroring the engine's own invalidation discipline.
type Kernel struct {
	problem   Problem
	byID      map[int]*Criterion
	children  map[int][]int
	scenarios int
	memo      *lru.Cache[momentKey, derived]
	onMutate  []func()
	log       *slog.Logger
}

// New builds a kernel from a validated problem.
func New(p Problem) (*Kernel, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid problem: %w", err)
	}
	memo, err := lru.New[momentKey, derived](momentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create moment cache: %w", err)
	}
	k := &Kernel{
		problem:  p,
		byID:     make(map[int]*Criterion, len(p.Criteria)),
		children: make(map[int][]int),
		memo:     memo,
		log:      slog.Default(),
	}
	for i := range k.problem.Criteria {
		c := &k.problem.Criteria[i]
		k.byID[c.ID] = c
		k.children[c.Parent] = append(k.children[c.Parent], c.ID)
		if len(c.Samples) > 0 {
			k.scenarios = len(c.Samples[0])
		}
	}
	return k, nil
}

// OnMutate registers a hook fired after every mutation; wire the
// engine's cache invalidation here.
func (k *Kernel) OnMutate(fn func()) {
	k.onMutate = append(k.onMutate, fn)
}

// SetSample replaces one scenario outcome and fires the mutation hooks.
func (k *Kernel) SetSample(crit, alt, scenario int, v float64) error {
	c, ok := k.byID[crit]
	if !ok || len(c.Samples) == 0 {
		return core.ErrUnknownCriterion
	}
	if alt < 0 || alt >= len(c.Samples) {
		return core.ErrUnknownAlternative
	}
	if scenario < 0 || scenario >= len(c.Samples[alt]) {
		return fmt.Errorf("scenario %d out of range", scenario)
	}
	c.Samples[alt][scenario] = v
	k.mutated()
	return nil
}

// SetWeight replaces a criterion weight and fires the mutation hooks.
func (k *Kernel) SetWeight(crit int, w float64) error {
	c, ok := k.byID[crit]
	if !ok {
		return core.ErrUnknownCriterion
	}
	if w <= 0 {
		return fmt.Errorf("weight must be positive")
	}
	c.Weight = w
	k.mutated()
	return nil
}

func (k *Kernel) mutated() {
	k.memo.Purge()
	for _, fn := range k.onMutate {
		fn()
	}
	k.log.Debug("kernel mutated", "hooks", len(k.onMutate))
}

// AlternativeCount implements core.Kernel.
func (k *Kernel) AlternativeCount() int {
	return k.problem.Alternatives
}

// CriterionCount implements core.Kernel.
func (k *Kernel) CriterionCount() int {
	return len(k.problem.Criteria)
}

// ChildCriteria implements core.Kernel.
func (k *Kernel) ChildCriteria(node int) []int {
	return k.children[node]
}

// ParentCriterion implements core.Kernel.
func (k *Kernel) ParentCriterion(node int) (int, bool) {
	c, ok := k.byID[node]
	if !ok {
		return 0, false
	}
	return c.Parent, true
}

// Moments implements core.Kernel.
func (k *Kernel) Moments(slot int, rule core.Rule, altA, altB int) (core.Moments, error) {
	d, err := k.derive(slot, rule, altA, altB)
	if err != nil {
		return core.Moments{}, err
	}
	return d.moments, nil
}

// Hull implements core.Kernel.
func (k *Kernel) Hull(slot int, rule core.Rule, altA, altB int) (core.ResultTriple, error) {
	d, err := k.derive(slot, rule, altA, altB)
	if err != nil {
		return core.ResultTriple{}, err
	}
	return d.hull, nil
}

func (k *Kernel) derive(slot int, rule core.Rule, altA, altB int) (derived, error) {
	key := momentKey{slot: slot, rule: rule, altA: altA, altB: altB}
	if d, ok := k.memo.Get(key); ok {
		return d, nil
	}

	node, err := k.slotNode(slot)
	if err != nil {
		return derived{}, err
	}
	xs := make([]float64, k.scenarios)
	for s := 0; s < k.scenarios; s++ {
		v, err := k.ruleValue(node, rule, altA, altB, s)
		if err != nil {
			return derived{}, err
		}
		xs[s] = v
	}

	d := summarize(xs)
	k.memo.Add(key, d)
	return d, nil
}

func (k *Kernel) slotNode(slot int) (int, error) {
	switch {
	case slot == core.TotalSlot:
		return 0, nil
	case slot > 0:
		if _, ok := k.byID[slot]; !ok {
			return 0, core.ErrUnknownCriterion
		}
		return slot, nil
	default:
		if _, ok := k.byID[-slot]; !ok {
			return 0, core.ErrUnknownCriterion
		}
		return -slot, nil
	}
}

func (k *Kernel) ruleValue(node int, rule core.Rule, altA, altB, scenario int) (float64, error) {
	a, err := k.value(node, altA, scenario)
	if err != nil {
		return 0, err
	}
	switch rule {
	case core.RulePsi:
		return a, nil
	case core.RuleDelta:
		b, err := k.value(node, altB, scenario)
		if err != nil {
			return 0, err
		}
		return a - b, nil
	case core.RuleGamma:
		sum, cnt := 0.0, 0
		for alt := 0; alt < k.problem.Alternatives; alt++ {
			if alt == altA {
				continue
			}
			v, err := k.value(node, alt, scenario)
			if err != nil {
				return 0, err
			}
			sum += v
			cnt++
		}
		if cnt == 0 {
			return 0, core.ErrWrongRule
		}
		return a - sum/float64(cnt), nil
	case core.RuleDigamma:
		sum, cnt := 0.0, 0
		for alt := 0; alt < k.problem.Alternatives; alt++ {
			if altB&(1<<uint(alt)) == 0 {
				continue
			}
			v, err := k.value(node, alt, scenario)
			if err != nil {
				return 0, err
			}
			sum += v
			cnt++
		}
		if cnt == 0 {
			return 0, core.ErrWrongRule
		}
		return a - sum/float64(cnt), nil
	}
	return 0, core.ErrWrongRule
}

// value computes a node's aggregated outcome for one alternative in one
// scenario: leaves read their sample, intermediate nodes take the
// weight-normalized mean of their children.
func (k *Kernel) value(node, alt, scenario int) (float64, error) {
	if node != 0 {
		c := k.byID[node]
		if len(c.Samples) > 0 {
			if alt < 0 || alt >= len(c.Samples) {
				return 0, core.ErrUnknownAlternative
			}
			return c.Samples[alt][scenario], nil
		}
	}
	kids := k.children[node]
	if len(kids) == 0 {
		return 0, core.ErrUnknownCriterion
	}
	sum, wsum := 0.0, 0.0
	for _, kid := range kids {
		v, err := k.value(kid, alt, scenario)
		if err != nil {
			return 0, err
		}
		w := k.byID[kid].Weight
		sum += w * v
		wsum += w
	}
	return sum / wsum, nil
}

// summarize turns a scenario vector into its moment triple and hull.
// The hull midpoint is the raw mean.
func summarize(xs []float64) derived {
	n := float64(len(xs))
	mean, min, max := 0.0, math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		mean += x
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	mean /= n

	var cm2, cm3 float64
	for _, x := range xs {
		d := x - mean
		cm2 += d * d
		cm3 += d * d * d
	}
	cm2 /= n
	cm3 /= n

	return derived{
		moments: core.Moments{Mean: mean, Var: cm2, Third: cm3},
		hull:    core.ResultTriple{Min: min, Mid: mean, Max: max},
	}
}
