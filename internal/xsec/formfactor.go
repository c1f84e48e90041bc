package xsec

import "github.com/wildstyl3r/epgen/internal/constants"

// FormFactorModel is a rational-polynomial fit of the proton
// electromagnetic form factors: each factor is a ratio of degree-5
// polynomials in tau = Q2/(4 M^2), with GM scaled by the proton magnetic
// moment. The fit denominators do not vanish for Q2 >= 0; this is an
// assumption inherited from the fit, not checked here.
type FormFactorModel struct {
	GENum, GEDen   [6]float64
	GMNum, GMDen   [6]float64
	MagneticMoment float64
}

// DefaultFormFactors returns the fit used by the PRad analysis.
func DefaultFormFactors() FormFactorModel {
	return FormFactorModel{
		GENum:          [6]float64{1., 2.90966, -1.11542229, 3.866171e-2, 0., 0.},
		GEDen:          [6]float64{1., 14.5187212, 40.88333, 99.999998, 4.579e-5, 10.3580447},
		GMNum:          [6]float64{1., -1.43573, 1.19052066, 2.5455841e-1, 0., 0.},
		GMDen:          [6]float64{1., 9.70703681, 3.7357e-4, 6.0e-8, 9.9527277, 12.7977739},
		MagneticMoment: constants.ProtonMagneticMoment,
	}
}

// Eval returns (GE, GM) at Q2 >= 0 [MeV^2].
func (ff *FormFactorModel) Eval(Q2 float64) (GE, GM float64) {
	tau := Q2 / 4. / M2

	var x [6]float64
	x[0] = 1.
	for i := 1; i < 6; i++ {
		x[i] = x[i-1] * tau
	}

	var geNum, geDen, gmNum, gmDen float64
	for i := 0; i < 6; i++ {
		geNum += ff.GENum[i] * x[i]
		geDen += ff.GEDen[i] * x[i]
		gmNum += ff.GMNum[i] * x[i]
		gmDen += ff.GMDen[i] * x[i]
	}

	GE = geNum / geDen
	GM = ff.MagneticMoment * gmNum / gmDen
	return
}

// StructureFunctions translates the form factors at Q2 into the two
// hadronic structure functions of the cross-section formulas:
//
//	F1 = 4 tau M^2 GM^2
//	F2 = 4 M^2 (GE^2 + tau GM^2) / (1 + tau),  tau = Q2 / 4M^2.
func (g *Generator) StructureFunctions(Q2 float64) (F1, F2 float64) {
	GE, GM := g.ff.Eval(Q2)
	tau := Q2 / 4. / M2

	F1 = 4. * tau * M2 * GM * GM
	F2 = 4. * M2 * (GE*GE + tau*GM*GM) / (1. + tau)
	return
}
