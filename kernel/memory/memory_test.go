package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uneda-cda/UNEDA-sub000/core"
)

// twoLeafProblem is a flat tree with two weighted leaves under the root
// and three scenarios.
func twoLeafProblem() Problem {
	return Problem{
		Alternatives: 2,
		Criteria: []Criterion{
			{ID: 1, Parent: 0, Weight: 2, Samples: [][]float64{
				{0.2, 0.4, 0.6},
				{0.5, 0.5, 0.5},
			}},
			{ID: 2, Parent: 0, Weight: 1, Samples: [][]float64{
				{0.8, 0.8, 0.8},
				{0.1, 0.2, 0.3},
			}},
		},
	}
}

func TestLeafMoments(t *testing.T) {
	k, err := New(twoLeafProblem())
	require.NoError(t, err)

	m, err := k.Moments(1, core.RulePsi, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.4, m.Mean, 1e-12)
	require.InDelta(t, 0.08/3, m.Var, 1e-12)
	require.InDelta(t, 0.0, m.Third, 1e-12)

	h, err := k.Hull(1, core.RulePsi, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0.2, h.Min)
	require.InDelta(t, 0.4, h.Mid, 1e-12)
	require.Equal(t, 0.6, h.Max)
}

func TestTotalSlotAggregation(t *testing.T) {
	k, err := New(twoLeafProblem())
	require.NoError(t, err)

	// Root value per scenario is the weight-normalized mean of the two
	// leaves: (2*x1 + x2) / 3.
	h, err := k.Hull(core.TotalSlot, core.RulePsi, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.4, h.Min, 1e-12)
	require.InDelta(t, 1.6/3, h.Mid, 1e-12)
	require.InDelta(t, 2.0/3, h.Max, 1e-12)
}

func TestComparisonRules(t *testing.T) {
	k, err := New(twoLeafProblem())
	require.NoError(t, err)

	// Criterion 1, alternative 0 vs 1: diffs -0.3, -0.1, 0.1.
	m, err := k.Moments(1, core.RuleDelta, 0, 1)
	require.NoError(t, err)
	require.InDelta(t, -0.1, m.Mean, 1e-12)

	// With two alternatives the group-average rule equals delta.
	g, err := k.Moments(1, core.RuleGamma, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, m.Mean, g.Mean, 1e-12)
	require.InDelta(t, m.Var, g.Var, 1e-12)

	// Subset mask holding only alternative 1 also equals delta.
	d, err := k.Moments(1, core.RuleDigamma, 0, 1<<1)
	require.NoError(t, err)
	require.InDelta(t, m.Mean, d.Mean, 1e-12)

	// Mask holding both alternatives: a - (a+b)/2 = (a-b)/2.
	d, err = k.Moments(1, core.RuleDigamma, 0, 0b11)
	require.NoError(t, err)
	require.InDelta(t, -0.05, d.Mean, 1e-12)

	// Empty mask cannot form a group average.
	_, err = k.Moments(1, core.RuleDigamma, 0, 0)
	require.ErrorIs(t, err, core.ErrWrongRule)
}

func TestIntermediateNode(t *testing.T) {
	p := Problem{
		Alternatives: 1,
		Criteria: []Criterion{
			{ID: 1, Parent: 0, Weight: 1},
			{ID: 2, Parent: 1, Weight: 1, Samples: [][]float64{{0.2, 0.4}}},
			{ID: 3, Parent: 1, Weight: 3, Samples: [][]float64{{0.8, 0.8}}},
		},
	}
	k, err := New(p)
	require.NoError(t, err)

	// Negative slots address partial subtrees. Node 1 aggregates its
	// leaves: (x2 + 3*x3) / 4.
	m, err := k.Moments(-1, core.RulePsi, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.675, m.Mean, 1e-12)

	h, err := k.Hull(-1, core.RulePsi, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.65, h.Min, 1e-12)
	require.InDelta(t, 0.7, h.Max, 1e-12)

	require.Equal(t, []int{2, 3}, k.ChildCriteria(1))
	parent, ok := k.ParentCriterion(2)
	require.True(t, ok)
	require.Equal(t, 1, parent)
}

func TestUnknownSlot(t *testing.T) {
	k, err := New(twoLeafProblem())
	require.NoError(t, err)
	_, err = k.Moments(9, core.RulePsi, 0, 0)
	require.ErrorIs(t, err, core.ErrUnknownCriterion)
	_, err = k.Moments(-9, core.RulePsi, 0, 0)
	require.ErrorIs(t, err, core.ErrUnknownCriterion)
}

func TestMutationInvalidatesDerived(t *testing.T) {
	k, err := New(twoLeafProblem())
	require.NoError(t, err)

	fired := 0
	k.OnMutate(func() { fired++ })

	before, err := k.Moments(1, core.RulePsi, 0, 0)
	require.NoError(t, err)

	require.NoError(t, k.SetSample(1, 0, 0, 0.9))
	require.Equal(t, 1, fired)

	after, err := k.Moments(1, core.RulePsi, 0, 0)
	require.NoError(t, err)
	require.NotEqual(t, before.Mean, after.Mean)
	require.InDelta(t, (0.9+0.4+0.6)/3, after.Mean, 1e-12)

	require.NoError(t, k.SetWeight(2, 5))
	require.Equal(t, 2, fired)
}

func TestMutationValidation(t *testing.T) {
	k, err := New(twoLeafProblem())
	require.NoError(t, err)

	require.ErrorIs(t, k.SetSample(9, 0, 0, 0.5), core.ErrUnknownCriterion)
	require.ErrorIs(t, k.SetSample(1, 5, 0, 0.5), core.ErrUnknownAlternative)
	require.Error(t, k.SetSample(1, 0, 99, 0.5))
	require.ErrorIs(t, k.SetWeight(9, 1), core.ErrUnknownCriterion)
	require.Error(t, k.SetWeight(1, -1))
}

func TestValidateRejectsBadProblems(t *testing.T) {
	bad := []Problem{
		{Alternatives: 0},
		{Alternatives: 1, Criteria: []Criterion{
			{ID: 0, Parent: 0, Weight: 1, Samples: [][]float64{{1}}},
		}},
		{Alternatives: 1, Criteria: []Criterion{
			{ID: 1, Parent: 0, Weight: 1, Samples: [][]float64{{1}}},
			{ID: 1, Parent: 0, Weight: 1, Samples: [][]float64{{1}}},
		}},
		{Alternatives: 1, Criteria: []Criterion{
			{ID: 1, Parent: 7, Weight: 1, Samples: [][]float64{{1}}},
		}},
		{Alternatives: 2, Criteria: []Criterion{
			{ID: 1, Parent: 0, Weight: 1, Samples: [][]float64{{1, 2}}},
		}},
		{Alternatives: 1, Criteria: []Criterion{
			{ID: 1, Parent: 0, Weight: -1, Samples: [][]float64{{1}}},
		}},
		{Alternatives: 1, Criteria: []Criterion{
			{ID: 1, Parent: 0, Weight: 1},
		}},
	}
	for i, p := range bad {
		_, err := New(p)
		require.Error(t, err, "case %d", i)
	}
}

func TestLoadProblemYAML(t *testing.T) {
	src := `
alternatives: 2
criteria:
  - id: 1
    parent: 0
    weight: 2
    samples:
      - [0.2, 0.4]
      - [0.5, 0.5]
  - id: 2
    parent: 0
    weight: 1
    samples:
      - [0.8, 0.8]
      - [0.1, 0.2]
`
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	p, err := LoadProblem(path)
	require.NoError(t, err)
	require.Equal(t, 2, p.Alternatives)
	require.Len(t, p.Criteria, 2)
	require.Equal(t, 2.0, p.Criteria[0].Weight)

	_, err = New(p)
	require.NoError(t, err)

	_, err = LoadProblem(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
