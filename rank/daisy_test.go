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

// Three point masses make the chain arithmetic exact: the leader of
// each adjacent pair holds all its mass above the follower's value, so
// the raw strength is 1.0 and the ceiling clamp brings it to 0.9.
func daisyKernel() *testkit.StubKernel {
	k := testkit.NewStubKernel(3, 1)
	k.SetPoint(1, core.RulePsi, 0, 0, 0.9)
	k.SetPoint(1, core.RulePsi, 1, 0, 0.5)
	k.SetPoint(1, core.RulePsi, 2, 0, 0.1)
	return k
}

func TestDaisyChainStandard(t *testing.T) {
	r := rank.NewRanker(belief.New(daisyKernel()))
	w, err := r.DaisyChain(context.Background(), 1, rank.DaisyStandard)
	require.NoError(t, err)
	require.Len(t, w, 3)

	require.Equal(t, 1.0, w[0])
	require.InDelta(t, 0.1, w[1], 1e-9)
	require.InDelta(t, 0.01, w[2], 1e-9)
}

func TestDaisyChainCosy(t *testing.T) {
	r := rank.NewRanker(belief.New(daisyKernel()))
	w, err := r.DaisyChain(context.Background(), 1, rank.DaisyCosy)
	require.NoError(t, err)

	require.Equal(t, 1.0, w[2])
	require.InDelta(t, 0.1, w[1], 1e-9)
	require.InDelta(t, 0.01, w[0], 1e-9)
}

func TestPieChartNormalized(t *testing.T) {
	r := rank.NewRanker(belief.New(daisyKernel()))
	shares, err := r.PieChart(context.Background(), 1, rank.DaisyStandard)
	require.NoError(t, err)

	total := 0.0
	for _, s := range shares {
		total += s
	}
	require.InDelta(t, 1.0, total, 1e-9)
	require.Greater(t, shares[0], shares[1])
	require.Greater(t, shares[1], shares[2])
}

func TestDaisyChainEqualPair(t *testing.T) {
	k := testkit.NewStubKernel(2, 1)
	// Identical point masses: the pairwise mass splits evenly, so the
	// follower keeps half the leader's weight.
	k.SetPoint(1, core.RulePsi, 0, 0, 0.5)
	k.SetPoint(1, core.RulePsi, 1, 0, 0.5)
	r := rank.NewRanker(belief.New(k))

	w, err := r.DaisyChain(context.Background(), 1, rank.DaisyStandard)
	require.NoError(t, err)
	require.Equal(t, 1.0, w[0])
	require.InDelta(t, 0.5, w[1], 1e-9)
}
