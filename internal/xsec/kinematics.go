// Package xsec computes radiatively corrected differential cross sections
// for unpolarized elastic e-p scattering beyond the ultra-relativistic
// approximation, following I. Akushevich, H. Gao, A. Ilyichev and
// M. Meziane, Eur. Phys. J. A51, 1 (2015).
//
// All kinematic invariants (S, Q2, v, t) are in MeV^2; differential cross
// sections dsigma/dQ2 are in MeV^-4.
package xsec

import (
	"math"

	"github.com/wildstyl3r/epgen/internal/constants"
	"github.com/wildstyl3r/epgen/internal/utils"
)

const (
	m  = constants.ElectronMass
	m2 = m * m
	M  = constants.ProtonMass
	M2 = M * M

	twoPi = 2. * math.Pi
	pi2   = math.Pi * math.Pi

	alpPi = constants.Alpha / math.Pi
	alp2  = constants.Alpha * constants.Alpha
	alp3  = alp2 * constants.Alpha
)

// edgeMargin keeps integration ranges off the exact kinematic boundary,
// where the bremsstrahlung formulas are singular.
const edgeMargin = 0.99

// TMax is the upper bound of the hadronic invariant t at fixed (Q2, v).
func TMax(Q2, v float64) float64 {
	return (2.*M2*Q2 + v*(Q2+v+math.Sqrt(utils.Pow2(Q2+v)+4.*M2*Q2))) / (2. * (M2 + v))
}

// TMin is the lower bound of the hadronic invariant t at fixed (Q2, v).
func TMin(Q2, v float64) float64 {
	return (2.*M2*Q2 + v*(Q2+v-math.Sqrt(utils.Pow2(Q2+v)+4.*M2*Q2))) / (2. * (M2 + v))
}

// VTMin is the lower bound of the photonic variable at fixed (Q2, t),
// clamped from below by v.
func VTMin(Q2, t, v float64) float64 {
	st := math.Sqrt(t)
	s4 := math.Sqrt(4.*M2 + t)
	vt := math.Max((t-Q2)*(st+s4)/2./st, (t-Q2)*(st-s4)/2./st)
	return math.Max(v, vt)
}

// VTMax is the upper bound of the photonic variable at fixed (S, Q2, t).
func VTMax(S, Q2, t float64) float64 {
	return math.Max(S-Q2*S/t, S+t-Q2-S*t/Q2)
}

// VMaxKinematic is the exact upper limit of the photonic variable v at
// fixed (S, Q2), equation (12), with Q2(Q2 + 4m^2) substituted for
// lambda_m as in equation (29).
func VMaxKinematic(S, Q2 float64) float64 {
	lambdaS := S*S - 4.*m2*M2
	lambdaM := Q2 * (Q2 + 4.*m2)
	return 2. * Q2 * (lambdaS - Q2*(S+m2+M2)) / (Q2*(S+2.*m2) + math.Sqrt(lambdaS*lambdaM))
}

// SFromBeamEnergy converts a lab-frame beam energy [MeV] on a proton at
// rest into the invariant S = 2 k.p.
func SFromBeamEnergy(e float64) float64 {
	return 2. * e * M
}
