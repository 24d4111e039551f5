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

// setAlt scripts both ranking rules for one alternative on slot 1 with
// a smooth distribution around mean.
func setAlt(k *testkit.StubKernel, alt int, psi, gamma, variance float64) {
	k.Set(1, core.RulePsi, alt, 0, core.Moments{Mean: psi, Var: variance}, psi-0.3, psi+0.3)
	k.Set(1, core.RuleGamma, alt, 0, core.Moments{Mean: gamma, Var: variance}, gamma-0.3, gamma+0.3)
}

func TestRankOlympic(t *testing.T) {
	k := testkit.NewStubKernel(3, 1)
	setAlt(k, 0, 0.8, 0.8, 0.01)
	setAlt(k, 1, 0.8, 0.8, 0.01)
	setAlt(k, 2, 0.5, 0.5, 0.01)
	r := rank.NewRanker(belief.New(k))

	out, err := r.Rank(context.Background(), 1, rank.ModeOlympic)
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 2}, out.OmegaRank)
	require.Empty(t, out.Notes)
}

func TestRankGrouped(t *testing.T) {
	k := testkit.NewStubKernel(3, 1)
	setAlt(k, 0, 0.8, 0.8, 0.01)
	setAlt(k, 1, 0.8, 0.8, 0.01)
	setAlt(k, 2, 0.5, 0.5, 0.01)
	r := rank.NewRanker(belief.New(k))

	out, err := r.Rank(context.Background(), 1, rank.ModeGrouped)
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 3}, out.GammaRank)
}

func TestRankStrictVarianceTieBreak(t *testing.T) {
	k := testkit.NewStubKernel(3, 1)
	// Alternatives 0 and 1 tie on value; 1 has the smaller variance and
	// should take the first position.
	setAlt(k, 0, 0.8, 0.8, 0.02)
	setAlt(k, 1, 0.8, 0.8, 0.01)
	setAlt(k, 2, 0.5, 0.5, 0.01)
	r := rank.NewRanker(belief.New(k))

	out, err := r.Rank(context.Background(), 1, rank.ModeStrict)
	require.NoError(t, err)
	require.Equal(t, []int{2, 1, 3}, out.OmegaRank)
}

func TestRankDifferingOrders(t *testing.T) {
	k := testkit.NewStubKernel(2, 1)
	// The two rules disagree on who is first.
	setAlt(k, 0, 0.8, 0.3, 0.01)
	setAlt(k, 1, 0.5, 0.7, 0.01)
	r := rank.NewRanker(belief.New(k))

	out, err := r.Rank(context.Background(), 1, rank.ModeOlympic)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, out.OmegaRank)
	require.Equal(t, []int{2, 1}, out.GammaRank)
	require.True(t, core.HasNote(out.Notes, core.NoteDifferingRanks))
}

func TestRankSingleAlternative(t *testing.T) {
	k := testkit.NewStubKernel(1, 1)
	k.Set(1, core.RulePsi, 0, 0, core.Moments{Mean: 0.6, Var: 0.01}, 0.3, 0.9)
	r := rank.NewRanker(belief.New(k))

	out, err := r.Rank(context.Background(), 1, rank.ModeStrict)
	require.NoError(t, err)
	require.Equal(t, []int{1}, out.OmegaRank)
	require.Equal(t, out.Omega[0], out.Gamma[0])
}

func TestRankAborted(t *testing.T) {
	k := testkit.NewStubKernel(2, 1)
	setAlt(k, 0, 0.8, 0.8, 0.01)
	setAlt(k, 1, 0.5, 0.5, 0.01)
	r := rank.NewRanker(belief.New(k))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Rank(ctx, 1, rank.ModeOlympic)
	require.ErrorIs(t, err, context.Canceled)
}
