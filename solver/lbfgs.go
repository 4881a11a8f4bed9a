// Package solver implements the unconstrained quasi-Newton engine used to
// resolve the contact quadratic program: limited-memory BFGS with a
// backtracking Armijo line search. Non-convergence within the iteration
// budget is not a failure; the engine always returns its best iterate.
package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Options configure the engine. The struct is comparable, so identical
// solver configurations can be used as cache or dispatch keys.
type Options struct {
	// Tolerance is the gradient-norm stopping threshold.
	Tolerance float64
	// MaxIterations bounds the number of quasi-Newton iterations.
	MaxIterations int
	// MemorySize is the number of curvature pairs kept by L-BFGS.
	MemorySize int
}

// DefaultOptions returns the default engine configuration.
func DefaultOptions() Options {
	return Options{
		Tolerance:     1e-6,
		MaxIterations: 50,
		MemorySize:    10,
	}
}

// Validate rejects out-of-range options with a descriptive error. It is
// meant to run once at configuration time, never on the hot path.
func (o Options) Validate() error {
	if !(o.Tolerance > 0) {
		return fmt.Errorf("solver: tolerance must be positive, got %v", o.Tolerance)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("solver: max iterations must be at least 1, got %d", o.MaxIterations)
	}
	if o.MemorySize < 1 {
		return fmt.Errorf("solver: memory size must be at least 1, got %d", o.MemorySize)
	}
	return nil
}

// Status is the terminal state of a minimization. Both terminal states are
// successful; MaxIterReached only signals that the gradient test had not
// tripped yet when the iteration budget ran out.
type Status int

const (
	Running Status = iota
	Converged
	MaxIterReached
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case MaxIterReached:
		return "max iterations reached"
	}
	return "unknown"
}

// Objective is a differentiable scalar function of a vector.
type Objective interface {
	Value(x []float64) float64
	// Gradient writes the gradient at x into dst. len(dst) == len(x).
	Gradient(dst, x []float64)
}

// Result is the outcome of a minimization.
type Result struct {
	X            []float64
	Value        float64
	GradientNorm float64
	Iterations   int
	Status       Status
}

const (
	armijoSlope   = 1e-4
	maxBacktracks = 40
	curvatureEps  = 1e-12
)

// Minimize runs L-BFGS from x0 until the gradient norm drops below the
// tolerance or the iteration budget is exhausted. The first iteration always
// runs, even if x0 already satisfies the gradient test.
func Minimize(obj Objective, x0 []float64, opts Options) Result {
	n := len(x0)
	x := append([]float64(nil), x0...)
	if n == 0 {
		return Result{X: x, Status: Converged}
	}

	g := make([]float64, n)
	f := obj.Value(x)
	obj.Gradient(g, x)

	hist := newHistory(opts.MemorySize)
	d := make([]float64, n)
	xNext := make([]float64, n)
	gNext := make([]float64, n)

	status := Running
	iter := 0
	for {
		gnorm := floats.Norm(g, 2)
		if iter > 0 {
			if gnorm < opts.Tolerance {
				status = Converged
				break
			}
			if iter >= opts.MaxIterations {
				status = MaxIterReached
				break
			}
		}

		hist.direction(d, g)
		slope := floats.Dot(g, d)
		if slope >= 0 {
			// Not a descent direction: drop the curvature history and
			// restart from steepest descent.
			hist.reset()
			for i := range d {
				d[i] = -g[i]
			}
			slope = -gnorm * gnorm
		}

		step := 1.0
		fNext := f
		accepted := false
		for bt := 0; bt < maxBacktracks; bt++ {
			for i := range x {
				xNext[i] = x[i] + step*d[i]
			}
			fNext = obj.Value(xNext)
			if fNext <= f+armijoSlope*step*slope {
				accepted = true
				break
			}
			step *= 0.5
		}
		if !accepted {
			// No decrease at machine scale: the current iterate is the best
			// available.
			status = Converged
			break
		}

		obj.Gradient(gNext, xNext)
		hist.push(x, xNext, g, gNext)

		copy(x, xNext)
		copy(g, gNext)
		f = fNext
		iter++
	}

	return Result{
		X:            x,
		Value:        f,
		GradientNorm: floats.Norm(g, 2),
		Iterations:   iter,
		Status:       status,
	}
}

// history holds the curvature pairs of L-BFGS.
type history struct {
	cap   int
	s     [][]float64
	y     [][]float64
	rho   []float64
	gamma float64
}

func newHistory(memorySize int) *history {
	return &history{cap: memorySize, gamma: 1}
}

func (h *history) reset() {
	h.s = h.s[:0]
	h.y = h.y[:0]
	h.rho = h.rho[:0]
	h.gamma = 1
}

// push stores the newest curvature pair, skipping pairs with non-positive
// curvature which would break positive-definiteness of the implicit Hessian.
func (h *history) push(x, xNext, g, gNext []float64) {
	n := len(x)
	s := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		s[i] = xNext[i] - x[i]
		y[i] = gNext[i] - g[i]
	}

	sy := floats.Dot(s, y)
	if sy <= curvatureEps {
		return
	}

	if len(h.s) == h.cap {
		h.s = append(h.s[1:], s)
		h.y = append(h.y[1:], y)
		h.rho = append(h.rho[1:], 1/sy)
	} else {
		h.s = append(h.s, s)
		h.y = append(h.y, y)
		h.rho = append(h.rho, 1/sy)
	}

	h.gamma = sy / floats.Dot(y, y)
}

// direction computes d = -H·g with the standard two-loop recursion.
func (h *history) direction(d, g []float64) {
	copy(d, g)

	k := len(h.s)
	alpha := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		alpha[i] = h.rho[i] * floats.Dot(h.s[i], d)
		floats.AddScaled(d, -alpha[i], h.y[i])
	}

	floats.Scale(h.gamma, d)

	for i := 0; i < k; i++ {
		beta := h.rho[i] * floats.Dot(h.y[i], d)
		floats.AddScaled(d, alpha[i]-beta, h.s[i])
	}

	for i := range d {
		d[i] = -d[i]
	}
}
