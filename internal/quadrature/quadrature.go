// Package quadrature implements fixed-node Gauss-Legendre integration.
//
// A Rule is an immutable table of abscissa/weight pairs on [-1, 1]; mapping
// it onto an arbitrary interval is the caller-facing Integrate. The node
// count is a global accuracy/cost trade-off: it must be large enough that
// increasing it further does not move the integral within the target
// precision. DefaultNodes is sized for the nested cross-section
// integrals of this module.
package quadrature

import (
	"math"
	"sync"
)

// DefaultNodes is the node count of the shared Default rule.
const DefaultNodes = 2048

// Node is one abscissa/weight pair on the canonical interval [-1, 1].
type Node struct {
	X, W float64
}

// Rule is an n-point Gauss-Legendre rule. It is never mutated after
// construction and is safe for concurrent use.
type Rule struct {
	nodes []Node
}

// NewRule computes the n-point rule. Roots of the Legendre polynomial P_n
// are found by Newton iteration from the Chebyshev initial guess; weights
// follow from the derivative at the root.
func NewRule(n int) *Rule {
	if n < 1 {
		panic("quadrature: rule needs at least one node")
	}
	nodes := make([]Node, n)
	fn := float64(n)
	for i := 0; i < (n+1)/2; i++ {
		x := math.Cos(math.Pi * (float64(i) + 0.75) / (fn + 0.5))
		var dp float64
		for it := 0; it < 64; it++ {
			// recurrence (j+1) P_{j+1} = (2j+1) x P_j - j P_{j-1}
			p, pm := 1., 0.
			for j := 0; j < n; j++ {
				fj := float64(j)
				p, pm = ((2.*fj+1.)*x*p-fj*pm)/(fj+1.), p
			}
			dp = fn * (x*p - pm) / (x*x - 1.)
			dx := p / dp
			x -= dx
			if math.Abs(dx) < 1e-15 {
				break
			}
		}
		w := 2. / ((1. - x*x) * dp * dp)
		nodes[i] = Node{X: x, W: w}
		nodes[n-1-i] = Node{X: -x, W: w}
	}
	if n%2 == 1 {
		// odd rules have a root at the origin; kill the rounding residue
		nodes[n/2].X = 0.
	}
	return &Rule{nodes: nodes}
}

// Len returns the node count.
func (r *Rule) Len() int { return len(r.nodes) }

// Nodes returns the node table. Callers must not modify it.
func (r *Rule) Nodes() []Node { return r.nodes }

// Integrate maps the rule onto [a, b] with the affine transform and
// accumulates sum w_i f(x_i) (b-a)/2. Reversed bounds negate the result.
func (r *Rule) Integrate(f func(float64) float64, a, b float64) float64 {
	c, h := 0.5*(a+b), 0.5*(b-a)
	var sum float64
	for i := range r.nodes {
		sum += r.nodes[i].W * f(c+h*r.nodes[i].X)
	}
	return sum * h
}

var (
	defaultOnce sync.Once
	defaultRule *Rule
)

// Default returns the process-wide DefaultNodes-point rule, built exactly
// once before first use. Concurrent callers share the finished table.
func Default() *Rule {
	defaultOnce.Do(func() {
		defaultRule = NewRule(DefaultNodes)
	})
	return defaultRule
}
