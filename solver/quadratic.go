package solver

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LeastSquares is the objective ‖A·x + b‖² with gradient 2·Aᵀ·(A·x + b).
// It reuses internal scratch space and is not safe for concurrent use.
type LeastSquares struct {
	a mat.Matrix
	b *mat.VecDense

	residual mat.VecDense
	grad     mat.VecDense
}

// NewLeastSquares wraps the quadratic-in-residual objective over A and b.
func NewLeastSquares(a mat.Matrix, b *mat.VecDense) *LeastSquares {
	return &LeastSquares{a: a, b: b}
}

func (q *LeastSquares) Value(x []float64) float64 {
	q.computeResidual(x)
	r := q.residual.RawVector().Data
	return floats.Dot(r, r)
}

func (q *LeastSquares) Gradient(dst, x []float64) {
	q.computeResidual(x)
	q.grad.MulVec(q.a.T(), &q.residual)
	q.grad.ScaleVec(2, &q.grad)
	copy(dst, q.grad.RawVector().Data)
}

func (q *LeastSquares) computeResidual(x []float64) {
	xv := mat.NewVecDense(len(x), x)
	q.residual.MulVec(q.a, xv)
	q.residual.AddVec(&q.residual, q.b)
}
