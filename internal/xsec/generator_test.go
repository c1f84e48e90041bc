package xsec

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/epgen/internal/quadrature"
)

func testSampler(t *testing.T) *Sampler {
	t.Helper()
	g, err := New(Params{
		VMin:    1e4,
		VCut:    0,
		MinBins: 8,
		TPrec:   5e-2,
		VPrec:   5e-2,
	}, WithRule(quadrature.NewRule(64)))
	require.NoError(t, err)

	s, err := g.NewSampler(context.Background(), testS, 5e3, 2e4)
	require.NoError(t, err)
	return s
}

func TestSamplerGridCoversRange(t *testing.T) {
	s := testSampler(t)

	assert.Positive(t, s.Total())

	xs, ok := s.SampleBin(1e4)
	require.True(t, ok)
	assert.Positive(t, xs)

	_, ok = s.SampleBin(1e3)
	assert.False(t, ok)
	_, ok = s.SampleBin(3e4)
	assert.False(t, ok)
}

func TestSampleProducesValidEvents(t *testing.T) {
	s := testSampler(t)
	rng := rand.New(rand.NewSource(7))

	radiative := 0
	for i := 0; i < 30; i++ {
		ev, err := s.Sample(rng)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, ev.Q2, 5e3)
		assert.LessOrEqual(t, ev.Q2, 2e4)
		assert.Positive(t, ev.Weight)
		// fine grids keep candidate weights near unity
		assert.Greater(t, ev.Weight, 0.1)
		assert.Less(t, ev.Weight, 10.)

		if !ev.Radiative {
			assert.Zero(t, ev.V)
			assert.Zero(t, ev.T)
			continue
		}
		radiative++

		v1, v2 := s.gen.Cuts(testS, ev.Q2)
		assert.GreaterOrEqual(t, ev.V, v1*(1.-1e-9))
		assert.LessOrEqual(t, ev.V, v2*(1.+1e-9))
		assert.GreaterOrEqual(t, ev.T, TMin(ev.Q2, ev.V)*(1.-1e-9))
		assert.LessOrEqual(t, ev.T, TMax(ev.Q2, ev.V)*(1.+1e-9))
		assert.GreaterOrEqual(t, ev.PhiK, 0.)
		assert.Less(t, ev.PhiK, 2.*math.Pi)
	}
	// hard emission is a visible fraction of the PRad cross section
	assert.Greater(t, radiative, 0)
}
