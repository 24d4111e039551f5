package rank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConeSignFeed(t *testing.T) {
	const th = 1e-4

	require.Equal(t, signPlus, signFlat.feed(0.01, th))
	require.Equal(t, signMinus, signFlat.feed(-0.01, th))

	// Below-threshold steps never move the state.
	require.Equal(t, signFlat, signFlat.feed(th/2, th))
	require.Equal(t, signPlus, signPlus.feed(-th/2, th))
	require.Equal(t, signMinus, signMinus.feed(th/2, th))

	// Same direction keeps the state.
	require.Equal(t, signPlus, signPlus.feed(0.01, th))
	require.Equal(t, signMinus, signMinus.feed(-0.01, th))

	// Opposite direction mixes, and mixed is absorbing.
	require.Equal(t, signMixed, signPlus.feed(-0.01, th))
	require.Equal(t, signMixed, signMinus.feed(0.01, th))
	require.Equal(t, signMixed, signMixed.feed(0.01, th))
	require.Equal(t, signMixed, signMixed.feed(-0.01, th))
	require.Equal(t, signMixed, signMixed.feed(0, th))
}

func TestAbsStepTables(t *testing.T) {
	type step struct {
		state, input, want Order
	}

	// All-criteria-must-agree machine, all nine transitions.
	dom := []step{
		{OrderNone, OrderNone, OrderNone},
		{OrderNone, OrderFirst, OrderFirst},
		{OrderNone, OrderSecond, OrderSecond},
		{OrderFirst, OrderNone, OrderFirst},
		{OrderFirst, OrderFirst, OrderFirst},
		{OrderFirst, OrderSecond, OrderSecond},
		{OrderSecond, OrderNone, OrderSecond},
		{OrderSecond, OrderFirst, OrderFirst},
		{OrderSecond, OrderSecond, OrderSecond},
	}
	for _, s := range dom {
		require.Equal(t, s.want, absStep(AbsDom, s.state, s.input),
			"dom: state=%d input=%d", s.state, s.input)
	}

	// Any-criterion-decides machine: first-order is absorbing.
	sum := []step{
		{OrderNone, OrderNone, OrderNone},
		{OrderNone, OrderFirst, OrderFirst},
		{OrderNone, OrderSecond, OrderSecond},
		{OrderFirst, OrderNone, OrderFirst},
		{OrderFirst, OrderFirst, OrderFirst},
		{OrderFirst, OrderSecond, OrderFirst},
		{OrderSecond, OrderNone, OrderSecond},
		{OrderSecond, OrderFirst, OrderFirst},
		{OrderSecond, OrderSecond, OrderSecond},
	}
	for _, s := range sum {
		require.Equal(t, s.want, absStep(AbsSum, s.state, s.input),
			"sum: state=%d input=%d", s.state, s.input)
	}
}

func TestModerate(t *testing.T) {
	r := &Ranker{cfg: DefaultConfig()}
	require.Equal(t, 0.1, r.moderate(0.0))
	require.Equal(t, 0.1, r.moderate(0.05))
	require.Equal(t, 0.5, r.moderate(0.5))
	require.Equal(t, 0.9, r.moderate(0.97))
	require.Equal(t, 0.9, r.moderate(1.0))
}
