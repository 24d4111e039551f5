package rank_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uneda-cda/UNEDA-sub000/belief"
	"github.com/uneda-cda/UNEDA-sub000/core"
	"github.com/uneda-cda/UNEDA-sub000/rank"
	"github.com/uneda-cda/UNEDA-sub000/testkit"
)

func TestAbsoluteDominanceSingleCriterionDecides(t *testing.T) {
	k := testkit.NewStubKernel(2, 2)
	// Criterion 1 clearly favors 0; criterion 2 is a dead tie.
	k.SetPoint(1, core.RulePsi, 0, 0, 0.8)
	k.SetPoint(1, core.RulePsi, 1, 0, 0.2)
	k.SetPoint(2, core.RulePsi, 0, 0, 0.5)
	k.SetPoint(2, core.RulePsi, 1, 0, 0.5)
	r := rank.NewRanker(belief.New(k))

	for _, mode := range []rank.AbsoluteMode{rank.AbsDom, rank.AbsSum} {
		m, err := r.AbsoluteDominance(context.Background(), mode, 0)
		require.NoError(t, err)
		require.Equal(t, rank.OrderFirst, m.Verdict[0][1], mode.String())
		require.Equal(t, rank.OrderNone, m.Verdict[1][0], mode.String())
		require.Equal(t, []bool{false, true}, m.Dominated, mode.String())
		require.Equal(t, []bool{true, false}, m.Dominates, mode.String())
	}
}

func TestAbsoluteDominanceModesDisagree(t *testing.T) {
	k := testkit.NewStubKernel(2, 2)
	// Criterion 1 is a clean first-order win for 0. Criterion 2 favors 0
	// on aggregate but its cones cross, a second-order verdict. The two
	// machines then disagree: all-must-agree downgrades to second order,
	// any-decides keeps the first-order win.
	k.SetPoint(1, core.RulePsi, 0, 0, 0.8)
	k.SetPoint(1, core.RulePsi, 1, 0, 0.2)
	k.Set(2, core.RulePsi, 0, 0, core.Moments{Mean: 0.5, Var: 0.05}, 0.0, 1.0)
	k.Set(2, core.RulePsi, 1, 0, core.Moments{Mean: 0.45, Var: 0.001}, 0.4, 0.5)
	r := rank.NewRanker(belief.New(k))
	ctx := context.Background()

	m, err := r.AbsoluteDominance(ctx, rank.AbsDom, 0)
	require.NoError(t, err)
	require.Equal(t, rank.OrderSecond, m.Verdict[0][1])

	m, err = r.AbsoluteDominance(ctx, rank.AbsSum, 0)
	require.NoError(t, err)
	require.Equal(t, rank.OrderFirst, m.Verdict[0][1])

	// Either way, 0 dominates and 1 is dominated.
	require.Equal(t, []bool{false, true}, m.Dominated)
	require.Equal(t, []bool{true, false}, m.Dominates)
}

func TestAbsoluteDominanceThreshold(t *testing.T) {
	k := testkit.NewStubKernel(2, 1)
	k.SetPoint(1, core.RulePsi, 0, 0, 0.52)
	k.SetPoint(1, core.RulePsi, 1, 0, 0.50)
	r := rank.NewRanker(belief.New(k))
	ctx := context.Background()

	m, err := r.AbsoluteDominance(ctx, rank.AbsDom, 0)
	require.NoError(t, err)
	require.Equal(t, rank.OrderFirst, m.Verdict[0][1])

	m, err = r.AbsoluteDominance(ctx, rank.AbsDom, 0.05)
	require.NoError(t, err)
	require.Equal(t, rank.OrderNone, m.Verdict[0][1])
	require.Equal(t, []bool{false, false}, m.Dominated)
}
