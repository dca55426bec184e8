package circle

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/bitutil"
	"github.com/shardmesh/shardmesh/pkg/field"
)

// SymmetricInterpolate interpolates a height-2^(d.LogN-1) evaluation matrix
// that is implicitly given on the full domain d by reflecting it: row i and
// row (2^d.LogN-1-i) are the values at a natural-order-conjugate pair of
// points, so the caller only supplies the first half. Because d's points
// pair up as (p, -p), the resulting degree-<2^LogN polynomial is forced to
// have all of its odd-indexed basis coefficients equal to zero; this
// function asserts that invariant and returns only the even half, which is
// the coordinate vector in the degree-<2^(LogN-1) "x-only" basis.
func SymmetricInterpolate(d Domain, half field.Matrix) (field.Matrix, error) {
	full := d.Size()
	h := half.Height()
	if h*2 != full {
		return field.Matrix{}, fmt.Errorf("circle: symmetric interpolate: half height %d does not match domain size %d", h, full)
	}
	width := half.Width

	reflected := make([]field.Elem, full*width)
	copy(reflected, half.Values)
	for i := 0; i < h; i++ {
		src := half.Row(h - 1 - i)
		copy(reflected[(h+i)*width:(h+i+1)*width], src)
	}

	coeffs, err := Interpolate(d, field.NewMatrix(reflected, width))
	if err != nil {
		return field.Matrix{}, err
	}

	out := make([]field.Elem, h*width)
	for i := 0; i < h; i++ {
		copy(out[i*width:(i+1)*width], coeffs.Row(2*i))
		odd := coeffs.Row(2*i + 1)
		for _, v := range odd {
			if !v.IsZero() {
				return field.Matrix{}, fmt.Errorf("circle: symmetric interpolate: odd coefficient at row %d is nonzero", 2*i+1)
			}
		}
	}
	return field.NewMatrix(out, width), nil
}

// SymmetricEvaluate is the inverse of SymmetricInterpolate: given the even
// coefficients of a y-antisymmetric-free polynomial, it evaluates that
// polynomial on d and returns only the first half of the result (the second
// half is recoverable by the caller as the y-conjugate reflection).
func SymmetricEvaluate(d Domain, evenCoeffs field.Matrix) (field.Matrix, error) {
	h := evenCoeffs.Height()
	logH, err := bitutil.Log2Strict(h)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: symmetric evaluate: %w", err)
	}
	if logH+1 > d.LogN {
		return field.Matrix{}, fmt.Errorf("circle: symmetric evaluate: coeffs height %d too large for domain log size %d", h, d.LogN)
	}
	width := evenCoeffs.Width
	full := d.Size()

	interleaved := make([]field.Elem, full*width)
	for i := 0; i < h; i++ {
		copy(interleaved[(2*i)*width:(2*i+1)*width], evenCoeffs.Row(i))
	}

	evals, err := Evaluate(d, field.NewMatrix(interleaved, width))
	if err != nil {
		return field.Matrix{}, err
	}
	half := full / 2
	out := make([]field.Elem, half*width)
	copy(out, evals.Values[:half*width])
	return field.NewMatrix(out, width), nil
}
