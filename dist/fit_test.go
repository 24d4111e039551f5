package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uneda-cda/UNEDA-sub000/core"
)

func TestFromMomentsSymmetric(t *testing.T) {
	// Zero skewness must reproduce the plain normal fit exactly.
	f := FromMoments(core.Moments{Mean: 0.4, Var: 0.09, Third: 0})
	require.Equal(t, 0.0, f.Alpha)
	require.Equal(t, 0.09, f.Scale2)
	require.Equal(t, 0.4, f.Loc)
}

func TestFromMomentsDegenerate(t *testing.T) {
	f := FromMoments(core.Moments{Mean: 0.7, Var: 0})
	require.True(t, f.Degenerate())
	require.Equal(t, 0.7, f.Loc)
}

func TestFromMomentsSkewSign(t *testing.T) {
	pos := FromMoments(core.Moments{Mean: 0.5, Var: 0.04, Third: 0.002})
	neg := FromMoments(core.Moments{Mean: 0.5, Var: 0.04, Third: -0.002})
	require.Greater(t, pos.Alpha, 0.0)
	require.Less(t, neg.Alpha, 0.0)
	require.InDelta(t, pos.Alpha, -neg.Alpha, 1e-12)
	require.InDelta(t, pos.Scale2, neg.Scale2, 1e-12)
}

func TestFromMomentsMatchesMoments(t *testing.T) {
	// The closed-form fit must reproduce the input mean and variance of
	// a skew-normal: mean = loc + sigma*delta*sqrt(2/pi),
	// var = scale2*(1 - 2*delta^2/pi).
	m := core.Moments{Mean: 0.3, Var: 0.02, Third: 0.0005}
	f := FromMoments(m)
	delta := f.Alpha / math.Sqrt(1+f.Alpha*f.Alpha)
	mean := f.Loc + f.Sigma()*delta*math.Sqrt(2/math.Pi)
	variance := f.Scale2 * (1 - 2*delta*delta/math.Pi)
	require.InDelta(t, m.Mean, mean, 1e-12)
	require.InDelta(t, m.Var, variance, 1e-12)
}

func TestModerateSkew(t *testing.T) {
	// Below the knee skewness passes through untouched.
	require.Equal(t, 0.5, moderateSkew(0.5))
	require.Equal(t, 0.89, moderateSkew(0.89))
	// The knee and the clamp map onto the compressed band ends.
	require.InDelta(t, 0.9, moderateSkew(0.9), 1e-12)
	require.InDelta(t, 0.955, moderateSkew(2.0), 1e-12)
	// Midpoint of [0.9,2.0] lands on the band midpoint.
	require.InDelta(t, 0.9275, moderateSkew(1.45), 1e-12)
	// Beyond the clamp everything pins at the ceiling.
	require.Equal(t, 0.955, moderateSkew(3))
	require.Equal(t, 0.955, moderateSkew(100))
}

func TestModerateSkewMonotone(t *testing.T) {
	prev := -1.0
	for b := 0.0; b <= 3.0; b += 0.01 {
		m := moderateSkew(b)
		require.GreaterOrEqual(t, m, prev)
		prev = m
	}
}

func TestFromMomentsExtremeSkewStaysFinite(t *testing.T) {
	// Heavily skewed inputs must not blow up the shape parameter.
	f := FromMoments(core.Moments{Mean: 0.5, Var: 0.01, Third: 0.01})
	require.False(t, math.IsNaN(f.Alpha))
	require.False(t, math.IsInf(f.Alpha, 0))
	require.Greater(t, f.Scale2, 0.0)
}
