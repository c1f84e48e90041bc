package xsec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/epgen/internal/constants"
	"github.com/wildstyl3r/epgen/internal/quadrature"
)

// 1.1 GeV beam on a proton at rest, PRad kinematics
const testS = 2. * 1100. * M

func testGenerator(t *testing.T, nodes int) *Generator {
	t.Helper()
	g, err := New(Params{
		VMin:    1e4,
		VCut:    0, // kinematic limit
		MinBins: 8,
		TPrec:   1e-3,
		VPrec:   1e-3,
	}, WithRule(quadrature.NewRule(nodes)))
	require.NoError(t, err)
	return g
}

func TestNewRejectsNonPositiveVMin(t *testing.T) {
	_, err := New(Params{VMin: 0.})
	assert.Error(t, err)
	_, err = New(Params{VMin: -1.})
	assert.Error(t, err)
}

func TestFormFactorNormalizationAtZero(t *testing.T) {
	ff := DefaultFormFactors()
	GE, GM := ff.Eval(0.)
	assert.Equal(t, 1., GE)
	assert.Equal(t, constants.ProtonMagneticMoment, GM)
}

func TestFormFactorsDecreaseWithQ2(t *testing.T) {
	ff := DefaultFormFactors()
	prevGE, prevGM := ff.Eval(0.)
	for _, q2 := range []float64{1e3, 1e4, 1e5, 1e6} {
		GE, GM := ff.Eval(q2)
		assert.Less(t, GE, prevGE, "Q2=%g", q2)
		assert.Less(t, GM, prevGM, "Q2=%g", q2)
		assert.Positive(t, GE)
		assert.Positive(t, GM)
		prevGE, prevGM = GE, GM
	}
}

func TestStructureFunctionsFromFormFactors(t *testing.T) {
	g := testGenerator(t, 16)
	q2 := 1e4
	F1, F2 := g.StructureFunctions(q2)
	GE, GM := g.ff.Eval(q2)
	tau := q2 / 4. / M2
	assert.InDelta(t, 4.*tau*M2*GM*GM, F1, 1e-9*F1)
	assert.InDelta(t, 4.*M2*(GE*GE+tau*GM*GM)/(1.+tau), F2, 1e-9*F2)
}

func TestSigmaBornPositiveAndDecreasing(t *testing.T) {
	g := testGenerator(t, 16)
	prev := math.Inf(1)
	for q2 := 1e3; q2 < 1e5; q2 *= 1.5 {
		born := g.SigmaBorn(testS, q2)
		assert.Positive(t, born, "Q2=%g", q2)
		assert.Less(t, born, prev, "Q2=%g", q2)
		prev = born
	}
}

func TestSigmaBornMottLimit(t *testing.T) {
	// for Q2 -> 0 the Born cross section approaches
	// 4 pi alpha^2 S X / (lambda_S Q^4)
	g := testGenerator(t, 16)
	q2 := 1.
	born := g.SigmaBorn(testS, q2)
	X := testS - q2
	lambdaS := testS*testS - 4.*m2*M2
	want := 4. * math.Pi * constants.Alpha * constants.Alpha * testS * X / lambdaS / q2 / q2
	assert.InDelta(t, want, born, 5e-3*want)
}

func TestSigmaBornMatchesRosenbluthRecombination(t *testing.T) {
	// independent recombination of the same cross section directly from
	// (GE, GM), bypassing the structure-function adapter
	g := testGenerator(t, 16)
	q2 := 2e4
	GE, GM := g.ff.Eval(q2)
	tau := q2 / 4. / M2
	X := testS - q2
	lambdaS := testS*testS - 4.*m2*M2
	want := twoPi * alp2 / lambdaS / q2 / q2 *
		(4.*tau*M2*GM*GM*(q2-2.*m2) +
			4.*M2*(GE*GE+tau*GM*GM)/(1.+tau)*(testS*X-M2*q2)/(2.*M2))
	assert.InDelta(t, want, g.SigmaBorn(testS, q2), 1e-12*want)
}

func TestKinematicBounds(t *testing.T) {
	q2 := 1e4
	vmax := VMaxKinematic(testS, q2)
	assert.Positive(t, vmax)

	for _, v := range []float64{1e2, 1e4, 0.5 * vmax} {
		lo, hi := TMin(q2, v), TMax(q2, v)
		assert.Less(t, lo, hi, "v=%g", v)
		assert.Positive(t, lo, "v=%g", v)
		// t range contains the elastic point t = Q2
		assert.LessOrEqual(t, lo, q2)
		assert.GreaterOrEqual(t, hi, q2)

		tm := 0.5 * (lo + hi)
		assert.Less(t, VTMin(q2, tm, 0.), VTMax(testS, q2, tm), "v=%g", v)
	}
}

func TestVirtualAndSoftPieces(t *testing.T) {
	g := testGenerator(t, 16)
	q2 := 1e4
	born, amm, deltaVR, deltaVac, deltaInf := g.VirtualAndSoft(testS, q2, VMaxKinematic(testS, q2))

	assert.Positive(t, born)
	assert.InDelta(t, g.SigmaBorn(testS, q2), born, 1e-12*born)
	// vacuum polarization from three positive lepton loops
	assert.Positive(t, deltaVac)
	for _, d := range []float64{amm, deltaVR, deltaInf} {
		assert.False(t, math.IsNaN(d))
		assert.False(t, math.IsInf(d, 0))
	}
	// the corrections are a perturbation on Born
	assert.Less(t, math.Abs(alpPi*deltaVR), 1.)
	assert.Less(t, math.Abs(alpPi*deltaInf), 1.)
}

func TestCutsOrderedAndClamped(t *testing.T) {
	g, err := New(Params{VMin: 1e4, VCut: 1e30})
	require.NoError(t, err)
	v1, v2 := g.Cuts(testS, 1e4)
	vLim := edgeMargin * VMaxKinematic(testS, 1e4)
	assert.Positive(t, v1)
	assert.LessOrEqual(t, v1, v2)
	assert.InDelta(t, vLim, v2, 1e-9*vLim)
}

func TestBremFiniteModeCancelsInfraredPole(t *testing.T) {
	// approaching R -> 0 along v -> 0: the raw mode diverges as 1/R^2,
	// the infrared-subtracted mode only as the residual 1/R
	g := testGenerator(t, 16)
	q2 := 1e4

	at := func(v float64, finite bool) float64 {
		tm := 0.5 * (TMin(q2, v) + TMax(q2, v))
		return math.Abs(g.BremPhikIntegrated(v, tm, testS, q2, finite))
	}

	const va, vb = 1e-1, 1e-4
	growthRaw := at(vb, false) / at(va, false)
	growthFin := at(vb, true) / at(va, true)

	assert.Greater(t, growthRaw, 1e4)
	assert.Greater(t, growthRaw, 50.*growthFin)
}

func TestDifferentialXSFiniteAndBounded(t *testing.T) {
	g := testGenerator(t, 128)
	for _, q2 := range []float64{5e3, 1e4, 2e4} {
		born, nonRad, rad := g.DifferentialXS(testS, q2)

		assert.Positive(t, born, "Q2=%g", q2)
		assert.Positive(t, nonRad, "Q2=%g", q2)
		assert.Positive(t, rad, "Q2=%g", q2)

		// born is reproduced through the correction path bit for bit
		assert.InDelta(t, g.SigmaBorn(testS, q2), born, 1e-12*born)

		// the radiative correction stays within tens of percent of Born
		ratio := (nonRad + rad) / born
		assert.Greater(t, ratio, 0.5, "Q2=%g", q2)
		assert.Less(t, ratio, 1.5, "Q2=%g", q2)
	}
}

func TestDifferentialXSPanicsBelowThreshold(t *testing.T) {
	g := testGenerator(t, 16)
	assert.Panics(t, func() { g.DifferentialXS(0.5*2.*m*M, 1e4) })
}
