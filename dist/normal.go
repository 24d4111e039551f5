// Package dist holds the pure distribution math: the method-of-moments
// skew-normal fitter, the normal and skewed CDFs with their inverses,
// and Owen's T-function. Everything here is a pure function with
// bounded iteration; no shared state.
package dist

import "math"

const invSqrt2Pi = 0.3989422804014327

// NormalCDF is the standard normal CDF via the Abramowitz-Stegun
// rational approximation (26.2.17), accurate to about 1e-7.
func NormalCDF(x float64) float64 {
	if x > 8 {
		return 1
	}
	if x < -8 {
		return 0
	}
	ax := math.Abs(x)
	t := 1 / (1 + 0.2316419*ax)
	poly := t * (0.319381530 + t*(-0.356563782+t*(1.781477937+t*(-1.821255978+t*1.330274429))))
	p := 1 - invSqrt2Pi*math.Exp(-ax*ax/2)*poly
	if x >= 0 {
		return p
	}
	return 1 - p
}

// NormalPDF is the standard normal density.
func NormalPDF(x float64) float64 {
	return invSqrt2Pi * math.Exp(-x*x/2)
}

// Coefficients for the rational inverse normal CDF (Acklam).
var (
	invNormA = [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02,
		-2.759285104469687e+02, 1.383577518672690e+02,
		-3.066479806614716e+01, 2.506628277459239e+00,
	}
	invNormB = [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02,
		-1.556989798598866e+02, 6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	invNormC = [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01,
		-2.400758277161838e+00, -2.549732539343734e+00,
		4.374664141464968e+00, 2.938163982698783e+00,
	}
	invNormD = [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01,
		2.445134137142996e+00, 3.754408661907416e+00,
	}
)

// InverseNormalCDF returns the standard normal quantile for p in (0,1)
// using a rational approximation. p = 0.5 maps exactly to 0; arguments
// at or beyond the boundaries are pinned to large finite tail values.
func InverseNormalCDF(p float64) float64 {
	const pLow = 0.02425
	switch {
	case p <= 0:
		return -8
	case p >= 1:
		return 8
	case p == 0.5:
		return 0
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((invNormC[0]*q+invNormC[1])*q+invNormC[2])*q+invNormC[3])*q+invNormC[4])*q + invNormC[5]) /
			((((invNormD[0]*q+invNormD[1])*q+invNormD[2])*q+invNormD[3])*q + 1)
	case p > 1-pLow:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((invNormC[0]*q+invNormC[1])*q+invNormC[2])*q+invNormC[3])*q+invNormC[4])*q + invNormC[5]) /
			((((invNormD[0]*q+invNormD[1])*q+invNormD[2])*q+invNormD[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((invNormA[0]*r+invNormA[1])*r+invNormA[2])*r+invNormA[3])*r+invNormA[4])*r + invNormA[5]) * q /
			(((((invNormB[0]*r+invNormB[1])*r+invNormB[2])*r+invNormB[3])*r+invNormB[4])*r + 1)
	}
}
