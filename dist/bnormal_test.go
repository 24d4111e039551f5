package dist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uneda-cda/UNEDA-sub000/core"
)

func TestCDFSymmetricCenter(t *testing.T) {
	f := FromMoments(core.Moments{Mean: 0.5, Var: 0.01, Third: 0})
	require.InDelta(t, 0.5, CDF(0.5, f), 1e-6)
}

func TestCDFMonotone(t *testing.T) {
	fits := []Fit{
		FromMoments(core.Moments{Mean: 0.5, Var: 0.01, Third: 0}),
		FromMoments(core.Moments{Mean: 0.5, Var: 0.01, Third: 0.0004}),
		FromMoments(core.Moments{Mean: 0.3, Var: 0.02, Third: -0.003}),
	}
	for _, f := range fits {
		prev := -1.0
		for v := -0.5; v <= 1.5; v += 0.01 {
			p := CDF(v, f)
			// Non-decreasing up to round-off in the far tails.
			require.GreaterOrEqual(t, p, prev-1e-7, "alpha=%v v=%v", f.Alpha, v)
			require.GreaterOrEqual(t, p, 0.0)
			require.LessOrEqual(t, p, 1.0)
			prev = p
		}
	}
}

func TestCDFPointMass(t *testing.T) {
	f := Fit{Loc: 0.7}
	require.Equal(t, 0.0, CDF(0.5, f))
	require.Equal(t, 0.5, CDF(0.7, f))
	require.Equal(t, 1.0, CDF(0.9, f))
}

func TestQuantileSymmetricClosedForm(t *testing.T) {
	f := FromMoments(core.Moments{Mean: 0.5, Var: 0.04, Third: 0})
	require.InDelta(t, 0.5, Quantile(0.5, f), 1e-9)
	// Quantiles of a plain normal: loc + sigma*z.
	require.InDelta(t, 0.5+0.2*InverseNormalCDF(0.9), Quantile(0.9, f), 1e-9)
}

func TestQuantileRoundTrip(t *testing.T) {
	fits := []Fit{
		FromMoments(core.Moments{Mean: 0.5, Var: 0.04, Third: 0}),
		FromMoments(core.Moments{Mean: 0.5, Var: 0.04, Third: 0.004}),
		FromMoments(core.Moments{Mean: 0.2, Var: 0.01, Third: -0.0006}),
	}
	for _, f := range fits {
		for _, p := range []float64{0.05, 0.1, 0.25, 0.5, 0.75, 0.9, 0.95} {
			v := Quantile(p, f)
			require.InDelta(t, p, CDF(v, f), 1e-5, "alpha=%v p=%v", f.Alpha, p)
		}
	}
}

func TestQuantileValueRoundTrip(t *testing.T) {
	// cdf_to_value(value_to_cdf(x)) stays within 1e-5 of x strictly
	// inside the working range.
	f := FromMoments(core.Moments{Mean: 0.5, Var: 0.02, Third: 0.001})
	for _, x := range []float64{0.3, 0.4, 0.5, 0.6, 0.7} {
		p := CDF(x, f)
		require.InDelta(t, x, Quantile(p, f), 1e-4, "x=%v", x)
	}
}

func TestQuantileDegenerate(t *testing.T) {
	f := Fit{Loc: 0.4}
	require.Equal(t, 0.4, Quantile(0.1, f))
	require.Equal(t, 0.4, Quantile(0.9, f))
}
