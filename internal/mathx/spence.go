// Package mathx provides the special functions needed by one-loop QED
// radiative corrections.
package mathx

import "math"

const pi2 = math.Pi * math.Pi

// Spence returns the real dilogarithm
//
//	Li2(x) = -int_0^x ln(1-t)/t dt.
//
// For x > 1 the real part of the analytic continuation is returned. The
// argument is first mapped into [-1/2, 1/2] with the inversion, reflection
// and Landen identities, where the defining power series converges fast.
func Spence(x float64) float64 {
	switch {
	case x == 1.:
		return pi2 / 6.
	case x == -1.:
		return -pi2 / 12.
	case x > 1.:
		lx := math.Log(x)
		return pi2/3. - 0.5*lx*lx - Spence(1./x)
	case x < -1.:
		lx := math.Log(-x)
		return -pi2/6. - 0.5*lx*lx - Spence(1./x)
	case x > 0.5:
		return pi2/6. - math.Log(x)*math.Log(1.-x) - Spence(1.-x)
	case x < -0.5:
		l := math.Log1p(-x)
		return -0.5*l*l - Spence(x/(x-1.))
	default:
		return spenceSeries(x)
	}
}

// power series sum_k x^k/k^2, |x| <= 1/2
func spenceSeries(x float64) float64 {
	sum, term := 0., x
	for k := 1; k < 100; k++ {
		sum += term / float64(k*k)
		term *= x
		if math.Abs(term) < 1e-18*(math.Abs(sum)+1e-300) {
			break
		}
	}
	return sum
}
