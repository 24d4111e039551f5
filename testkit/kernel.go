// Package testkit provides a scriptable kernel stub for engine and
// ranking tests: moments and hulls are set per call signature instead
// of being derived from data.
package testkit

import (
	"github.com/uneda-cda/UNEDA-sub000/core"
)

type evalKey struct {
	slot int
	rule core.Rule
	altA int
	altB int
}

// StubKernel implements core.Kernel from hand-set values.
type StubKernel struct {
	Alts  int
	Crits int

	// Children overrides the flat default tree when set.
	Children map[int][]int

	moments map[evalKey]core.Moments
	hulls   map[evalKey]core.ResultTriple
}

// NewStubKernel creates a stub with the given alternative and criterion
// counts and no scripted evaluations.
func NewStubKernel(alts, crits int) *StubKernel {
	return &StubKernel{
		Alts:    alts,
		Crits:   crits,
		moments: make(map[evalKey]core.Moments),
		hulls:   make(map[evalKey]core.ResultTriple),
	}
}

// Set scripts one evaluation: moments plus hull. The hull midpoint is
// the mean.
func (k *StubKernel) Set(slot int, rule core.Rule, altA, altB int, m core.Moments, min, max float64) {
	key := evalKey{slot: slot, rule: rule, altA: altA, altB: altB}
	k.moments[key] = m
	k.hulls[key] = core.ResultTriple{Min: min, Mid: m.Mean, Max: max}
}

// SetPoint scripts a degenerate point-mass evaluation at v.
func (k *StubKernel) SetPoint(slot int, rule core.Rule, altA, altB int, v float64) {
	k.Set(slot, rule, altA, altB, core.Moments{Mean: v}, v, v)
}

// Moments implements core.Kernel.
func (k *StubKernel) Moments(slot int, rule core.Rule, altA, altB int) (core.Moments, error) {
	m, ok := k.moments[evalKey{slot: slot, rule: rule, altA: altA, altB: altB}]
	if !ok {
		return core.Moments{}, core.ErrUnknownCriterion
	}
	return m, nil
}

// Hull implements core.Kernel.
func (k *StubKernel) Hull(slot int, rule core.Rule, altA, altB int) (core.ResultTriple, error) {
	h, ok := k.hulls[evalKey{slot: slot, rule: rule, altA: altA, altB: altB}]
	if !ok {
		return core.ResultTriple{}, core.ErrUnknownCriterion
	}
	return h, nil
}

// AlternativeCount implements core.Kernel.
func (k *StubKernel) AlternativeCount() int { return k.Alts }

// CriterionCount implements core.Kernel.
func (k *StubKernel) CriterionCount() int { return k.Crits }

// ChildCriteria implements core.Kernel. The stub tree is flat: every
// criterion hangs off the root.
func (k *StubKernel) ChildCriteria(node int) []int {
	if k.Children != nil {
		return k.Children[node]
	}
	if node != 0 {
		return nil
	}
	kids := make([]int, k.Crits)
	for i := range kids {
		kids[i] = i + 1
	}
	return kids
}

// ParentCriterion implements core.Kernel.
func (k *StubKernel) ParentCriterion(node int) (int, bool) {
	if node >= 1 && node <= k.Crits {
		return 0, true
	}
	return 0, false
}
