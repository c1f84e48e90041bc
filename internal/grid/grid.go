// Package grid builds adaptive one-dimensional sampling grids: a range is
// partitioned into bins whose cross-section variation is bounded by a
// configured relative precision, so that the accepted bins support
// inverse-transform or rejection sampling. Sibling bins are independent
// and are refined in parallel.
package grid

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Bin is one accepted interval with its representative value, the
// integrand at the bin midpoint. Precise is cleared when the depth bound
// was hit before the precision target was met.
type Bin struct {
	Lo, Hi  float64
	Value   float64
	Precise bool
}

// Width returns the bin width.
func (b Bin) Width() float64 { return b.Hi - b.Lo }

// Options controls an adaptive build.
type Options struct {
	MinBins  int          // initial uniform partition, at least 1
	Prec     float64      // relative precision target of the refinement
	MaxDepth int          // bisection depth bound per initial bin (default 32)
	Workers  int          // parallel refinement width (default GOMAXPROCS)
	Logger   *zap.Logger  // default nop
}

func (o *Options) normalize() {
	if o.MinBins < 1 {
		o.MinBins = 1
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 32
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Grid is the finished partition: bins tile [lo, hi] exactly, in order,
// with no gaps or overlaps. It is immutable and safe for concurrent use.
type Grid struct {
	bins []Bin
	cum  []float64 // running integral estimate, len(bins)+1 entries
}

type task struct {
	lo, hi   float64
	flo, fhi float64
	depth    int
}

// Build partitions [lo, hi] for integrand f. The initial partition has
// MinBins uniform bins; a bin is bisected while the integrand at its
// midpoint disagrees with the linear estimate from its endpoints by more
// than Prec relatively. A branch that hits MaxDepth keeps its leaf with
// Precise cleared rather than looping forever.
func Build(ctx context.Context, f func(float64) float64, lo, hi float64, o Options) (*Grid, error) {
	if !(hi > lo) {
		return nil, fmt.Errorf("grid: empty range [%g, %g]", lo, hi)
	}
	o.normalize()

	width := (hi - lo) / float64(o.MinBins)
	// shared read-only edge values; f is evaluated once per edge
	edges := make([]float64, o.MinBins+1)
	for i := range edges {
		edges[i] = f(lo + float64(i)*width)
	}

	parts := make([][]Bin, o.MinBins)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.Workers)
	for i := 0; i < o.MinBins; i++ {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			binLo := lo + float64(i)*width
			binHi := binLo + width
			if i == o.MinBins-1 {
				binHi = hi
			}
			bins, err := refine(f, task{binLo, binHi, edges[i], edges[i+1], 0}, o)
			if err != nil {
				return err
			}
			parts[i] = bins
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var bins []Bin
	imprecise := 0
	for _, part := range parts {
		for _, b := range part {
			if !b.Precise {
				imprecise++
			}
		}
		bins = append(bins, part...)
	}
	if imprecise > 0 {
		o.Logger.Warn("grid precision not achieved on some bins",
			zap.Int("imprecise", imprecise),
			zap.Int("bins", len(bins)),
			zap.Int("maxDepth", o.MaxDepth))
	}

	g := &Grid{bins: bins, cum: make([]float64, len(bins)+1)}
	for i, b := range bins {
		g.cum[i+1] = g.cum[i] + b.Value*b.Width()
	}
	return g, nil
}

// refine runs the depth-bounded bisection of one initial bin with an
// explicit work stack; leaves come out in ascending order.
func refine(f func(float64) float64, root task, o Options) ([]Bin, error) {
	var out []Bin
	stack := []task{root}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		mid := 0.5 * (t.lo + t.hi)
		fmid := f(mid)
		if math.IsNaN(fmid) || math.IsNaN(t.flo) || math.IsNaN(t.fhi) {
			return nil, fmt.Errorf("grid: integrand is NaN near [%g, %g]", t.lo, t.hi)
		}

		est := 0.5 * (t.flo + t.fhi)
		scale := math.Max(math.Abs(fmid), math.SmallestNonzeroFloat64)
		if math.Abs(fmid-est) <= o.Prec*scale {
			out = append(out, Bin{Lo: t.lo, Hi: t.hi, Value: fmid, Precise: true})
			continue
		}
		if t.depth >= o.MaxDepth {
			out = append(out, Bin{Lo: t.lo, Hi: t.hi, Value: fmid, Precise: false})
			continue
		}
		// push the upper half first so the lower half pops next
		stack = append(stack,
			task{mid, t.hi, fmid, t.fhi, t.depth + 1},
			task{t.lo, mid, t.flo, fmid, t.depth + 1},
		)
	}
	return out, nil
}

// Bins returns the accepted bins in ascending order. Callers must not
// modify the slice.
func (g *Grid) Bins() []Bin { return g.bins }

// Lo and Hi are the covered range.
func (g *Grid) Lo() float64 { return g.bins[0].Lo }
func (g *Grid) Hi() float64 { return g.bins[len(g.bins)-1].Hi }

// Total is the integral estimate sum(value * width) over all bins.
func (g *Grid) Total() float64 { return g.cum[len(g.bins)] }

// At returns the representative value of the bin covering x, and whether
// x lies inside the grid range.
func (g *Grid) At(x float64) (float64, bool) {
	if x < g.Lo() || x > g.Hi() {
		return 0., false
	}
	i := sort.Search(len(g.bins), func(i int) bool { return g.bins[i].Hi >= x })
	if i == len(g.bins) {
		return 0., false
	}
	return g.bins[i].Value, true
}

// Sample draws a point by inverse transform over the bin integrals:
// u in [0, 1) selects a bin proportionally to value*width, then maps
// uniformly inside it. The returned bin carries the representative value
// needed for reweighting.
func (g *Grid) Sample(u float64) (float64, Bin) {
	target := u * g.Total()
	i := sort.Search(len(g.bins), func(i int) bool { return g.cum[i+1] > target })
	if i == len(g.bins) {
		i = len(g.bins) - 1
	}
	b := g.bins[i]
	frac := (target - g.cum[i]) / (g.cum[i+1] - g.cum[i])
	return b.Lo + frac*b.Width(), b
}
