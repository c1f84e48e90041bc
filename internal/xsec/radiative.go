package xsec

import (
	"math"

	"github.com/wildstyl3r/epgen/internal/constants"
	"github.com/wildstyl3r/epgen/internal/mathx"
	"github.com/wildstyl3r/epgen/internal/utils"
)

// sPhi is the S_phi special function of equation (35), collapsed to the
// explicit sum over the three (delta_j, a_j, tau_j) terms that survive
// the index sums.
func sPhi(s, l, a, b float64) float64 {
	sqrtL, sqrtB := math.Sqrt(l), math.Sqrt(b)
	D := (s+a)*(l*a-s*b) + utils.Pow2(l+b)/4.
	sqrtD := math.Sqrt(D)

	gammaU := (math.Sqrt(b+l) - sqrtB) / sqrtL
	gammaLo := -(sqrtB - sqrtL) / (b - l)

	// each term combines two Spence evaluations via the complex
	// dilogarithm identity
	sTerm := func(gJK, g float64) float64 {
		return mathx.Spence((gammaLo-g)/(gammaLo-gJK)) +
			mathx.Spence((g-1.)/(gJK-1.))
	}

	aPlus := s - sqrtL
	aMinus := s + sqrtL
	terms := [3]struct{ delta, aJ, tauJ float64 }{
		{+1., aPlus, -a*sqrtL + (b-l)/2. - sqrtD},
		{+1., aPlus, -a*sqrtL + (b-l)/2. + sqrtD},
		{-1., aMinus, -a*sqrtL - (b-l)/2. - sqrtD},
	}

	var res float64
	for _, t := range terms {
		gJK := -(t.aJ*sqrtB + math.Sqrt(b*t.aJ*t.aJ+t.tauJ*t.tauJ)) / t.tauJ
		res -= t.delta * (sTerm(gJK, gammaU) - sTerm(gJK, gammaLo))
	}

	return res * s / 2. / sqrtL
}

// leptonMasses are the loop masses of the vacuum-polarization sum.
var leptonMasses = [3]float64{constants.ElectronMass, constants.MuonMass, constants.TauMass}

// VirtualAndSoft computes the Born cross section, the anomalous magnetic
// moment contribution and the three virtual/soft correction factors at
// (S, Q2), equations (27)-(42). vMax is the kinematic limit of the
// photonic variable entering the infrared logarithms (see VMaxKinematic);
// the soft/hard split does not enter here, it only shapes the
// bremsstrahlung integrals.
//
// Downstream combination rule, equation (39):
//
//	nonrad = born (1 + alpha/pi (deltaVR + deltaVac - deltaInf)) exp(alpha/pi deltaInf) + amm + sigmaFs
//
// The exponential resums the infrared-divergent soft-photon emission; the
// additive terms must stay outside it.
func (g *Generator) VirtualAndSoft(S, Q2, vMax float64) (born, amm, deltaVR, deltaVac, deltaInf float64) {
	X := S - Q2

	// equations (27)-(34)
	Q2m := Q2 + 2.*m2
	lambdaM := Q2 * (Q2 + 4.*m2)
	sqrtLm := math.Sqrt(lambdaM)
	Lm := math.Log((sqrtLm+Q2)/(sqrtLm-Q2)) / sqrtLm
	lambdaS := S*S - 4.*m2*M2
	sqrtLs := math.Sqrt(lambdaS)
	Ls := math.Log((S+sqrtLs)/(S-sqrtLs)) / sqrtLs
	lambdaX0 := X*X - 4.*m2*M2
	sqrtLx0 := math.Sqrt(lambdaX0)
	Lx0 := math.Log((X+sqrtLx0)/(X-sqrtLx0)) / sqrtLx0
	a := (S*X - 2.*M2*(Q2-2.*m2)) / 2. / M2
	b := (Q2*(S*X-M2*Q2) - m2*Q2*(Q2+4.*M2)) / M2

	F1, F2 := g.StructureFunctions(Q2)
	// equations (7), (8)
	theta1 := Q2 - 2.*m2
	theta2 := (S*X - M2*Q2) / (2. * M2)

	// equation (3)
	born = twoPi * alp2 / lambdaS / Q2 / Q2 * (F1*theta1 + F2*theta2)

	// equation (40)
	deltaVR = 2.*(Q2m*Lm-1.)*math.Log(vMax/m/M) +
		(S*Ls+X*Lx0)/2. + sPhi(Q2m, lambdaM, a, b) +
		(3./2.*Q2+4.*m2)*Lm - 2. -
		Q2m/sqrtLm*(lambdaM*Lm*Lm/2.+
			2.*mathx.Spence(2.*sqrtLm/(Q2+sqrtLm))-
			pi2/2.)

	// equation (41): electron, muon and tau loops on the photon propagator
	for _, vm := range leptonMasses {
		vm2 := vm * vm
		vSqrtLm := math.Sqrt(Q2 * (Q2 + 4.*vm2))
		vLm := math.Log((vSqrtLm+Q2)/(vSqrtLm-Q2)) / vSqrtLm
		deltaVac += 2./3.*(Q2+2.*vm2)*vLm - 10./9. + 8./3.*vm2/Q2*(1.-2.*vm2*vLm)
	}

	// equation (42)
	deltaInf = (Q2m*Lm - 1.) * math.Log(vMax*vMax/S/X)

	// equation (38)
	amm = alp3 * m2 * Lm * (12.*M2*F1 - (Q2+4.*M2)*F2) / (2. * M2 * Q2 * lambdaS)

	return
}
