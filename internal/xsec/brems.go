package xsec

import "math"

// bremsKinematics are the shared pieces of the bremsstrahlung cross
// section at (v, t, S, Q2). The photon variables satisfy
// t = Q2 + tau*R with R = Q2 + v - t = v/(1 + tau).
type bremsKinematics struct {
	lambdaS          float64
	R, X, SmX, SpX   float64
	tau              float64
	lambdaY, sqrtLY  float64
	tauMin, tauMax   float64
}

func newBremsKinematics(v, t, S, Q2 float64) bremsKinematics {
	k := bremsKinematics{}
	k.lambdaS = S*S - 4.*m2*M2
	k.R = Q2 + v - t
	k.X = S - k.R - t
	k.SmX = S - k.X // R + t = Q2 + v
	k.SpX = S + k.X
	k.tau = (t - Q2) / k.R

	// equation (13)
	k.lambdaY = k.SmX*k.SmX + 4.*M2*Q2
	k.sqrtLY = math.Sqrt(k.lambdaY)
	k.tauMin = (k.SmX - k.sqrtLY) / 2. / M2
	k.tauMax = (k.SmX + k.sqrtLY) / 2. / M2
	return k
}

// thetaCoefficients combines the photonic form factors into the six theta
// coefficients of equations (16)-(21) and collapses them into the two
// Laurent polynomials in 1/R that weight the structure functions.
func (k *bremsKinematics) thetaCoefficients(Q2, S float64, F, Fd, F1p, F2p, F2m float64) (theta1j, theta2j float64) {
	FIR := F2p - (Q2+2.*m2)*Fd

	theta11 := 4. * (Q2 - 2.*m2) * FIR
	theta12 := 4. * k.tau * FIR
	theta13 := -4.*F - 2.*k.tau*k.tau*Fd
	theta21 := 2. * (S*k.X - M2*Q2) * FIR / M2
	theta22 := (2.*k.SpX*F2m + k.SpX*k.SmX*F1p + 2.*(k.SmX-2.*M2*k.tau)*FIR - k.tau*k.SpX*k.SpX*Fd) / 2. / M2
	theta23 := (4.*M2*F + (4.*m2+2.*M2*k.tau*k.tau-k.SmX*k.tau)*Fd - k.SpX*F1p) / 2. / M2

	theta1j = theta11/k.R/k.R + theta12/k.R + theta13
	theta2j = theta21/k.R/k.R + theta22/k.R + theta23
	return
}

// BremDiff is the fully differential bremsstrahlung cross section
// dsigma/dQ2/dt/dv/dphik, equation (43) before the phik integration.
// Valid only inside the physical (v, t, phik) region; the 1/R^2 infrared
// pole is kept.
func (g *Generator) BremDiff(v, t, phik, S, Q2 float64) float64 {
	k := newBremsKinematics(v, t, S, Q2)

	// equations (22), (23): the two roots in cos(phik)
	lambdaZ := (k.tau - k.tauMin) * (k.tauMax - k.tau) * (S*k.X*Q2 - M2*Q2*Q2 - m2*k.lambdaY)
	sqrtLZ := math.Sqrt(lambdaZ)
	z1 := (Q2*k.SpX + k.tau*(S*k.SmX+2.*M2*Q2) - 2.*M*math.Cos(phik)*sqrtLZ) / k.lambdaY
	z2 := (Q2*k.SpX + k.tau*(S*k.SmX-2.*M2*Q2) - 2.*M*math.Cos(phik)*sqrtLZ) / k.lambdaY

	F := 1. / (k.sqrtLY * twoPi)
	Fd := F / (z1 * z2)
	F1p := F * (1./z1 + 1./z2)
	F2p := F * m2 * (1./z2/z2 + 1./z1/z1)
	F2m := F * m2 * (1./z2/z2 - 1./z1/z1)

	theta1j, theta2j := k.thetaCoefficients(Q2, S, F, Fd, F1p, F2p, F2m)

	F01, F02 := g.StructureFunctions(t)

	return -alp3 / 2. / twoPi / k.lambdaS * (theta1j*F01 + theta2j*F02) / t / t
}

// BremPhikIntegrated is the bremsstrahlung cross section dsigma/dQ2/dt/dv
// with the phik integration done in closed form, following the ELRADGEN
// treatment. With finite set, the infrared-subtracted remainder is
// returned: alpha/pi/(2 pi) F_IR/R^2 sigma_Born is added back so the
// result stays finite as R -> 0 and folds into the non-radiative cross
// section. Otherwise the raw hard-photon piece is returned.
func (g *Generator) BremPhikIntegrated(v, t, S, Q2 float64, finite bool) float64 {
	k := newBremsKinematics(v, t, S, Q2)

	b2 := (-k.lambdaY*k.tau + k.SpX*k.SmX*k.tau + 2.*k.SpX*Q2) / 2.
	b1 := (-k.lambdaY*k.tau - k.SpX*k.SmX*k.tau - 2.*k.SpX*Q2) / 2.
	c1 := -(4.*(M2*k.tau*k.tau-k.SmX*k.tau-Q2)*m2 - (S*k.tau+Q2)*(S*k.tau+Q2))
	c2 := -(4.*(M2*k.tau*k.tau-k.SmX*k.tau-Q2)*m2 - (k.tau*k.X-Q2)*(k.tau*k.X-Q2))
	sc1 := math.Sqrt(c1)
	sc2 := math.Sqrt(c2)

	F := 1. / k.sqrtLY
	Fd := (k.SpX * (k.SmX*k.tau + 2.*Q2)) / (sc1 * sc2 * (sc1 + sc2))
	F1p := 1./sc1 + 1./sc2
	F2p := m2 * (b2/sc2/c2 - b1/sc1/c1)
	F2m := m2 * (b2/sc2/c2 + b1/sc1/c1)

	FIR := F2p - (Q2+2.*m2)*Fd

	theta1j, theta2j := k.thetaCoefficients(Q2, S, F, Fd, F1p, F2p, F2m)

	F01, F02 := g.StructureFunctions(t)

	// equation (43)
	res := -alp3 / 2. / twoPi / k.lambdaS * (theta1j*F01 + theta2j*F02) / t / t

	if finite {
		res += alpPi / twoPi * FIR / k.R / k.R * g.SigmaBorn(S, Q2)
	}

	return res
}

// BremIntegratedOverV integrates BremPhikIntegrated over the photonic
// variable at fixed t. The lower bound is the physical minimum clamped by
// v1; the upper bound is the kinematic maximum at this t. v2 only shapes
// the outer t-range of SigmaFh.
func (g *Generator) BremIntegratedOverV(t, v1, v2, S, Q2 float64, finite bool) float64 {
	return g.rule.Integrate(func(v float64) float64 {
		return g.BremPhikIntegrated(v, t, S, Q2, finite)
	}, VTMin(Q2, t, v1), VTMax(S, Q2, t))
}

// SigmaFs is the finite (infrared-subtracted) soft-photon remainder,
// integrated over t in [t1, t2]. The v lower clamp is zero here: the
// subtraction makes the integrand regular down to the infrared limit.
func (g *Generator) SigmaFs(t1, t2, v1, v2, S, Q2 float64) float64 {
	return g.rule.Integrate(func(t float64) float64 {
		return g.BremIntegratedOverV(t, v1, v2, S, Q2, true)
	}, t1, t2)
}

// SigmaFh is the hard-photon radiative cross section, integrated over t
// in [t1, t2] with the v range clamped from below by v1.
func (g *Generator) SigmaFh(t1, t2, v1, v2, S, Q2 float64) float64 {
	return g.rule.Integrate(func(t float64) float64 {
		return g.BremIntegratedOverV(t, v1, v2, S, Q2, false)
	}, t1, t2)
}
