package xsec

import (
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/wildstyl3r/epgen/internal/quadrature"
	"github.com/wildstyl3r/epgen/internal/utils"
)

// Params are the photon-energy cutoffs and grid settings of a Generator.
type Params struct {
	VMin    float64 // soft/hard split point [MeV^2], strictly positive
	VCut    float64 // upper radiative cutoff [MeV^2]; <= 0 means the kinematic limit
	MinBins int     // minimum bin count of the adaptive grids
	TPrec   float64 // relative precision of the t-grid refinement
	VPrec   float64 // relative precision of the v-grid refinement
}

// Generator evaluates elastic e-p cross sections with radiative
// corrections. All methods are pure functions of their arguments; a
// Generator is safe for concurrent use.
type Generator struct {
	p    Params
	ff   FormFactorModel
	rule *quadrature.Rule
	log  *zap.Logger

	clampOnce sync.Once
}

// Option configures a Generator.
type Option func(*Generator)

// WithRule replaces the shared default quadrature rule.
func WithRule(r *quadrature.Rule) Option {
	return func(g *Generator) { g.rule = r }
}

// WithLogger attaches a logger; the default is a nop.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithFormFactors replaces the default form-factor fit.
func WithFormFactors(ff FormFactorModel) Option {
	return func(g *Generator) { g.ff = ff }
}

// New builds a Generator. VMin must be strictly positive: v = 0 is the
// infrared limit and is excluded from every integration range.
func New(p Params, opts ...Option) (*Generator, error) {
	if p.VMin <= 0. {
		return nil, fmt.Errorf("xsec: VMin must be positive, got %g", p.VMin)
	}
	if p.VCut <= 0. {
		p.VCut = math.Inf(1)
	}
	if p.MinBins < 1 {
		p.MinBins = 1
	}
	g := &Generator{
		p:    p,
		ff:   DefaultFormFactors(),
		rule: quadrature.Default(),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Params returns the generator settings.
func (g *Generator) Params() Params { return g.p }

// SigmaBorn is the tree-level differential cross section dsigma/dQ2,
// equations (3)-(8). It is positive for any S above threshold.
func (g *Generator) SigmaBorn(S, Q2 float64) float64 {
	F1, F2 := g.StructureFunctions(Q2)

	X := S - Q2
	lambdaS := S*S - 4.*m2*M2
	theta1 := Q2 - 2.*m2
	theta2 := (S*X - M2*Q2) / (2. * M2)

	return twoPi * alp2 / lambdaS / Q2 / Q2 * (F1*theta1 + F2*theta2)
}

// Cuts resolves the configured cutoffs against the kinematic limit at
// (S, Q2): v2 is VCut clamped into the physical range scaled by the edge
// margin, v1 is VMin clamped against v2. The first time the configured
// VCut is cut down the clamp is logged, since it usually means the cut
// was set for a different beam energy.
func (g *Generator) Cuts(S, Q2 float64) (v1, v2 float64) {
	vLimit := edgeMargin * VMaxKinematic(S, Q2)
	v2 = utils.Clamp(g.p.VCut, g.p.VCut, vLimit)
	if v2 < g.p.VCut && !math.IsInf(g.p.VCut, 1) {
		g.clampOnce.Do(func() {
			g.log.Warn("configured VCut exceeds kinematic limit, clamped",
				zap.Float64("vcut", g.p.VCut),
				zap.Float64("vlimit", vLimit),
				zap.Float64("S", S),
				zap.Float64("Q2", Q2))
		})
	}
	v1 = utils.Clamp(g.p.VMin, g.p.VMin, v2)
	return
}

// DifferentialXS returns the Born, non-radiative and radiative
// differential cross sections dsigma/dQ2 [MeV^-4] at invariants
// (S, Q2) [MeV^2]. The non-radiative part resums the infrared-divergent
// soft-photon term by exponentiation, equation (39); the radiative part
// is the hard-photon emission integral above the v1 split.
func (g *Generator) DifferentialXS(S, Q2 float64) (born, nonRad, rad float64) {
	if S*S-4.*m2*M2 <= 0. {
		panic(fmt.Sprintf("xsec: S=%g below elastic threshold", S))
	}
	v1, v2 := g.Cuts(S, Q2)

	born, amm, deltaVR, deltaVac, deltaInf := g.VirtualAndSoft(S, Q2, VMaxKinematic(S, Q2))

	sigFs := g.SigmaFs(TMin(Q2, v1), TMax(Q2, v1), 0., v1, S, Q2)

	// equation (39) without the hard emission part of sigma_F
	nonRad = born*(1.+alpPi*(deltaVR+deltaVac-deltaInf))*math.Exp(alpPi*deltaInf) + amm + sigFs

	// hard photon emission above the split
	rad = g.SigmaFh(TMin(Q2, v2), TMax(Q2, v2), v1, v2, S, Q2)

	if math.IsNaN(born) || math.IsNaN(nonRad) || math.IsNaN(rad) {
		panic(fmt.Sprintf("xsec: NaN cross section at S=%g Q2=%g", S, Q2))
	}
	return
}
