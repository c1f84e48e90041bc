package mathx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpenceSpecialValues(t *testing.T) {
	assert.InDelta(t, pi2/6., Spence(1.), 1e-15)
	assert.InDelta(t, -pi2/12., Spence(-1.), 1e-15)
	assert.InDelta(t, 0., Spence(0.), 1e-15)
	// Li2(1/2) = pi^2/12 - ln(2)^2/2
	assert.InDelta(t, pi2/12.-0.5*math.Ln2*math.Ln2, Spence(0.5), 1e-15)
}

func TestSpenceReflection(t *testing.T) {
	// Li2(x) + Li2(1-x) = pi^2/6 - ln(x) ln(1-x)
	for _, x := range []float64{1e-6, 0.01, 0.1, 0.3, 0.5, 0.7, 0.9, 0.999} {
		lhs := Spence(x) + Spence(1.-x)
		rhs := pi2/6. - math.Log(x)*math.Log(1.-x)
		assert.InDelta(t, rhs, lhs, 1e-13*math.Abs(rhs), "x=%g", x)
	}
}

func TestSpenceInversion(t *testing.T) {
	// Li2(x) + Li2(1/x) = -pi^2/6 - ln(-x)^2/2 for x < 0
	for _, x := range []float64{-0.1, -0.5, -2., -10., -1e4} {
		lhs := Spence(x) + Spence(1./x)
		rhs := -pi2/6. - 0.5*math.Log(-x)*math.Log(-x)
		assert.InDelta(t, rhs, lhs, 1e-13*(math.Abs(rhs)+1.), "x=%g", x)
	}
}

func TestSpenceMonotoneOnUnitInterval(t *testing.T) {
	prev := Spence(0.)
	for x := 0.05; x <= 1.; x += 0.05 {
		cur := Spence(x)
		assert.Greater(t, cur, prev, "x=%g", x)
		prev = cur
	}
}
