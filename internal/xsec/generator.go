package xsec

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/wildstyl3r/epgen/internal/grid"
)

// Event is one sampled kinematic point with its weight. For
// non-radiative events v, t and phik are zero; for radiative events they
// describe the emitted photon. Weights stay close to one when the grids
// are fine; averaging them recovers the integrated cross-section shape.
type Event struct {
	Q2        float64 // [MeV^2]
	V, T      float64 // photonic and hadronic invariants [MeV^2]
	PhiK      float64 // photon azimuth [rad]
	Radiative bool
	Weight    float64
}

// Sampler draws elastic scattering events at fixed S. The Q2 grid is
// built once up front; the photon grids depend on the sampled Q2 and are
// built per event inside the physical region.
type Sampler struct {
	gen *Generator
	S   float64

	q2Grid *grid.Grid

	phikNodes int
}

// RadiativeVDensity is dsigma/dQ2/dv: the phik-integrated hard-photon
// cross section integrated over the hadronic invariant at fixed (Q2, v).
func (g *Generator) RadiativeVDensity(S, Q2, v float64) float64 {
	return g.rule.Integrate(func(t float64) float64 {
		return g.BremPhikIntegrated(v, t, S, Q2, false)
	}, TMin(Q2, v), TMax(Q2, v))
}

// NewSampler builds the Q2 sampling grid over [q2Lo, q2Hi] from the
// total (non-radiative + radiative) cross section. The grid reuses the
// generator's MinBins and TPrec settings.
func (g *Generator) NewSampler(ctx context.Context, S, q2Lo, q2Hi float64) (*Sampler, error) {
	if S*S-4.*m2*M2 <= 0. {
		return nil, fmt.Errorf("xsec: S=%g below elastic threshold", S)
	}
	q2Grid, err := grid.Build(ctx, func(Q2 float64) float64 {
		_, nonRad, rad := g.DifferentialXS(S, Q2)
		return nonRad + rad
	}, q2Lo, q2Hi, grid.Options{
		MinBins: g.p.MinBins,
		Prec:    g.p.TPrec,
		Logger:  g.log,
	})
	if err != nil {
		return nil, fmt.Errorf("xsec: building Q2 grid: %w", err)
	}
	return &Sampler{
		gen:       g,
		S:         S,
		q2Grid:    q2Grid,
		phikNodes: 256,
	}, nil
}

// SampleBin returns the representative total cross section of the
// accepted Q2 bin covering q2, and whether q2 lies inside the grid.
func (s *Sampler) SampleBin(q2 float64) (float64, bool) {
	return s.q2Grid.At(q2)
}

// Total is the integrated total cross-section estimate of the Q2 grid
// [MeV^-2].
func (s *Sampler) Total() float64 { return s.q2Grid.Total() }

// Sample draws one candidate event. Q2 comes from the inverse transform
// over the Q2 grid; the radiative branch is chosen by the cross-section
// ratio at the sampled point; for radiative events v, t and phik are
// drawn from adaptive grids built inside the physical region at that Q2,
// with the proposal mismatch folded into the weight.
func (s *Sampler) Sample(rng *rand.Rand) (Event, error) {
	q2, q2Bin := s.q2Grid.Sample(rng.Float64())

	_, nonRad, rad := s.gen.DifferentialXS(s.S, q2)
	total := nonRad + rad

	ev := Event{Q2: q2, Weight: total / q2Bin.Value}

	if rng.Float64()*total >= rad {
		return ev, nil
	}
	ev.Radiative = true

	v1, v2 := s.gen.Cuts(s.S, q2)
	vg, err := grid.Build(context.Background(), func(v float64) float64 {
		return s.gen.RadiativeVDensity(s.S, q2, v)
	}, v1, v2, grid.Options{
		MinBins: s.gen.p.MinBins,
		Prec:    s.gen.p.VPrec,
		Logger:  s.gen.log,
	})
	if err != nil {
		return Event{}, fmt.Errorf("xsec: building v grid at Q2=%g: %w", q2, err)
	}
	v, vBin := vg.Sample(rng.Float64())
	ev.V = v
	ev.Weight *= s.gen.RadiativeVDensity(s.S, q2, v) / vBin.Value

	tg, err := grid.Build(context.Background(), func(t float64) float64 {
		return s.gen.BremPhikIntegrated(v, t, s.S, q2, false)
	}, TMin(q2, v), TMax(q2, v), grid.Options{
		MinBins: s.gen.p.MinBins,
		Prec:    s.gen.p.TPrec,
		Logger:  s.gen.log,
	})
	if err != nil {
		return Event{}, fmt.Errorf("xsec: building t grid at Q2=%g v=%g: %w", q2, v, err)
	}
	t, tBin := tg.Sample(rng.Float64())
	ev.T = t
	ev.Weight *= s.gen.BremPhikIntegrated(v, t, s.S, q2, false) / tBin.Value

	ev.PhiK = s.samplePhiK(rng, v, t, q2, &ev.Weight)

	if math.IsNaN(ev.Weight) || math.IsInf(ev.Weight, 0) {
		return Event{}, fmt.Errorf("xsec: non-finite event weight at Q2=%g v=%g t=%g", q2, v, t)
	}
	return ev, nil
}

// samplePhiK draws the photon azimuth by inverse transform over a fixed
// tabulation of the fully differential cross section; the residual
// mismatch is folded into the event weight.
func (s *Sampler) samplePhiK(rng *rand.Rand, v, t, q2 float64, weight *float64) float64 {
	n := s.phikNodes
	step := twoPi / float64(n)
	cum := make([]float64, n+1)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = s.gen.BremDiff(v, t, (float64(i)+0.5)*step, s.S, q2)
		cum[i+1] = cum[i] + vals[i]
	}
	target := rng.Float64() * cum[n]
	i := 0
	for i < n-1 && cum[i+1] <= target {
		i++
	}
	frac := (target - cum[i]) / (cum[i+1] - cum[i])
	phik := (float64(i) + frac) * step
	*weight *= s.gen.BremDiff(v, t, phik, s.S, q2) / vals[i]
	return phik
}

// Logger exposes the generator's logger for callers decorating per-scan
// messages.
func (g *Generator) Logger() *zap.Logger { return g.log }
