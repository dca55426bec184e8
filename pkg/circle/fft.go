package circle

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/bitutil"
	"github.com/shardmesh/shardmesh/pkg/field"
)

// smallTransformThreshold is the x-tower subproblem size at and below which
// fftInterpolateX falls back to a dense transfer-matrix solve instead of
// recursing further. Every twin-coset domain used in this package (Standard
// and the shard subcosets built by ComputeSubdomain) has a shift point whose
// order is a power of two strictly larger than the domain's own subgroup; by
// construction that shift squares down to the unique order-4 point of the
// whole circle group (x=0, the one coordinate an x-tower butterfly can't
// divide by) after exactly LogN-1 doublings, which lands precisely on the
// last radix-2 split before the size-1 base case. Stopping one level early
// sidesteps that division by zero; at m<=4 the dense solve is a handful of
// field operations regardless.
const smallTransformThreshold = 4

// pi is the circle's squaring map on the x-coordinate alone: the x-part of
// Double((x,y)) = (2x^2-1, 2xy).
func pi(x field.Elem) field.Elem {
	return x.Square().Double().Sub(field.One)
}

// xBasis evaluates the degree-<2^logM "x-only" half of the Basis
// construction (no y factor) at x: x itself seeds the first doubling, and
// each subsequent level multiplies the existing entries by the current x
// before folding it through pi. This is exactly Basis one level in, which is
// why Basis(p, logN)'s odd/even split by y recurses into the same shape.
func xBasis(x field.Elem, logM int) []field.Elem {
	b := make([]field.Elem, 1, 1<<logM)
	b[0] = field.One
	cur := x
	for level := 0; level < logM; level++ {
		n := len(b)
		for i := 0; i < n; i++ {
			b = append(b, b[i].Mul(cur))
		}
		cur = pi(cur)
	}
	return b
}

// smallXInterpolate solves the x-only transfer matrix directly for the
// handful of coordinates fftInterpolateX bottoms out at.
func smallXInterpolate(xs []field.Elem, vals field.Matrix) (field.Matrix, error) {
	m := len(xs)
	logM, err := bitutil.Log2Strict(m)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: small x interpolate: %w", err)
	}
	values := make([]field.Elem, m*m)
	for j, x := range xs {
		copy(values[j*m:(j+1)*m], xBasis(x, logM))
	}
	vander := field.NewMatrix(values, m)
	vanderInv, err := field.InvertMatrix(vander)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: small x interpolate: %w", err)
	}
	return field.MultiplyMatrices(vanderInv, vals)
}

// fftInterpolateX is the x-only half of the recursive circle-FFT. Given the
// values of a degree-<m polynomial in the x-tower basis at xs (m
// x-coordinates satisfying xs[m-1-j] = -xs[j], the invariant every level of
// this recursion preserves and that domain.go's Standard doc comment
// derives from the y-conjugate pairing one level up), it returns that
// polynomial's coefficients. Each level halves the problem via the
// even/odd split the negation pairing induces, then recurses on
// pi(xs[j]) for the next level's x-coordinates.
func fftInterpolateX(xs []field.Elem, vals field.Matrix) (field.Matrix, error) {
	m := len(xs)
	if m == 1 {
		return vals.Clone(), nil
	}
	if m <= smallTransformThreshold {
		return smallXInterpolate(xs, vals)
	}

	half := m / 2
	width := vals.Width
	twoInv := field.One.Double().Inverse()
	sum := make([]field.Elem, half*width)
	diff := make([]field.Elem, half*width)
	xnext := make([]field.Elem, half)
	for j := 0; j < half; j++ {
		rowJ := vals.Row(j)
		rowOpp := vals.Row(m - 1 - j)
		xInv := xs[j].Inverse()
		for k := 0; k < width; k++ {
			sum[j*width+k] = rowJ[k].Add(rowOpp[k]).Mul(twoInv)
			diff[j*width+k] = rowJ[k].Sub(rowOpp[k]).Mul(twoInv).Mul(xInv)
		}
		xnext[j] = pi(xs[j])
	}

	evenCoeffs, err := fftInterpolateX(xnext, field.NewMatrix(sum, width))
	if err != nil {
		return field.Matrix{}, err
	}
	oddCoeffs, err := fftInterpolateX(xnext, field.NewMatrix(diff, width))
	if err != nil {
		return field.Matrix{}, err
	}

	out := make([]field.Elem, m*width)
	for j := 0; j < half; j++ {
		copy(out[(2*j)*width:(2*j+1)*width], evenCoeffs.Row(j))
		copy(out[(2*j+1)*width:(2*j+2)*width], oddCoeffs.Row(j))
	}
	return field.NewMatrix(out, width), nil
}

// fftEvaluateX is the structural inverse of fftInterpolateX: coefficients to
// values. It needs no field inversions, only the butterfly recombination,
// so unlike the interpolate direction it recurses all the way to m==1
// without a dense fallback.
func fftEvaluateX(xs []field.Elem, coeffs field.Matrix) (field.Matrix, error) {
	m := len(xs)
	if m == 1 {
		return coeffs.Clone(), nil
	}

	half := m / 2
	width := coeffs.Width
	evenCoeffs := make([]field.Elem, half*width)
	oddCoeffs := make([]field.Elem, half*width)
	xnext := make([]field.Elem, half)
	for j := 0; j < half; j++ {
		copy(evenCoeffs[j*width:(j+1)*width], coeffs.Row(2*j))
		copy(oddCoeffs[j*width:(j+1)*width], coeffs.Row(2*j+1))
		xnext[j] = pi(xs[j])
	}

	e, err := fftEvaluateX(xnext, field.NewMatrix(evenCoeffs, width))
	if err != nil {
		return field.Matrix{}, err
	}
	o, err := fftEvaluateX(xnext, field.NewMatrix(oddCoeffs, width))
	if err != nil {
		return field.Matrix{}, err
	}

	out := make([]field.Elem, m*width)
	for j := 0; j < half; j++ {
		eRow := e.Row(j)
		oRow := o.Row(j)
		for k := 0; k < width; k++ {
			t := xs[j].Mul(oRow[k])
			out[j*width+k] = eRow[k].Add(t)
			out[(m-1-j)*width+k] = eRow[k].Sub(t)
		}
	}
	return field.NewMatrix(out, width), nil
}

// evaluateFull runs the coefficients-to-values direction of the top-level
// y/x split: Evaluate pads up to this once coeffs.Height() == d.Size().
func evaluateFull(d Domain, coeffs field.Matrix) (field.Matrix, error) {
	n := d.Size()
	if n == 1 {
		return coeffs.Clone(), nil
	}

	half := n / 2
	width := coeffs.Width
	evenCoeffs := make([]field.Elem, half*width)
	oddCoeffs := make([]field.Elem, half*width)
	xs := make([]field.Elem, half)
	pts := d.Points()
	for i := 0; i < half; i++ {
		copy(evenCoeffs[i*width:(i+1)*width], coeffs.Row(2*i))
		copy(oddCoeffs[i*width:(i+1)*width], coeffs.Row(2*i+1))
		xs[i] = pts[i].X
	}

	e, err := fftEvaluateX(xs, field.NewMatrix(evenCoeffs, width))
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: evaluate: %w", err)
	}
	o, err := fftEvaluateX(xs, field.NewMatrix(oddCoeffs, width))
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: evaluate: %w", err)
	}

	out := make([]field.Elem, n*width)
	for i := 0; i < half; i++ {
		eRow := e.Row(i)
		oRow := o.Row(i)
		yi := pts[i].Y
		for k := 0; k < width; k++ {
			t := yi.Mul(oRow[k])
			out[i*width+k] = eRow[k].Add(t)
			out[(n-1-i)*width+k] = eRow[k].Sub(t)
		}
	}
	return field.NewMatrix(out, width), nil
}
