package circle

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/bitutil"
	"github.com/shardmesh/shardmesh/pkg/field"
)

// Basis evaluates the 2^logN monomial basis functions of the degree-<2^logN
// circle-polynomial space at point p. b[0] = 1, b[1] = p.y (the seed of the
// y-antisymmetric half), and each subsequent doubling of the basis
// multiplies the existing entries by the current x, then folds x through
// the circle's squaring map pi(x) = 2x^2-1 for the next level. This mirrors
// the monomial ordering shards use when they interpolate a payload row onto
// a circle domain.
func Basis(p Point, logN int) []field.Elem {
	b := make([]field.Elem, 1, 1<<logN)
	b[0] = field.One
	if logN == 0 {
		return b
	}
	b = append(b, p.Y)
	x := p.X
	for level := 1; level < logN; level++ {
		n := len(b)
		for i := 0; i < n; i++ {
			b = append(b, b[i].Mul(x))
		}
		x = x.Square().Double().Sub(field.One)
	}
	return b
}

// Evaluate evaluates the polynomial given by coeffs (coordinates in the
// Basis(_, log2(coeffs.Height())) basis) at every point of d. coeffs.Height()
// may be smaller than d.Size(), in which case this computes a low-degree
// extension of a polynomial of lower degree onto the larger domain d: since
// Basis(p, logN) restricted to its first 2^m entries is exactly Basis(p, m)
// (the doubling recursion that builds one is a prefix of the other),
// zero-padding coeffs up to d.Size() rows and running the full transform
// computes exactly that extension. See fft.go for the O(n log n) kernel.
func Evaluate(d Domain, coeffs field.Matrix) (field.Matrix, error) {
	h := coeffs.Height()
	if _, err := bitutil.Log2Strict(h); err != nil {
		return field.Matrix{}, fmt.Errorf("circle: evaluate: %w", err)
	}
	n := d.Size()
	if h > n {
		return field.Matrix{}, fmt.Errorf("circle: evaluate: coeffs height %d exceeds domain size %d", h, n)
	}

	width := coeffs.Width
	padded := coeffs
	if h < n {
		values := make([]field.Elem, n*width)
		copy(values, coeffs.Values)
		padded = field.NewMatrix(values, width)
	}
	return evaluateFull(d, padded)
}

// Interpolate solves for the coefficients of the degree-<d.Size() polynomial
// that takes the given values on d, in natural point order. See fft.go for
// the O(n log n) kernel this delegates to.
func Interpolate(d Domain, evals field.Matrix) (field.Matrix, error) {
	n := d.Size()
	if evals.Height() != n {
		return field.Matrix{}, fmt.Errorf("circle: interpolate: evals height %d does not match domain size %d", evals.Height(), n)
	}
	if n == 1 {
		return evals.Clone(), nil
	}

	half := n / 2
	width := evals.Width
	twoInv := field.One.Double().Inverse()
	pts := d.Points()
	sum := make([]field.Elem, half*width)
	diff := make([]field.Elem, half*width)
	xs := make([]field.Elem, half)
	for i := 0; i < half; i++ {
		rowI := evals.Row(i)
		rowOpp := evals.Row(n - 1 - i)
		yInv := pts[i].Y.Inverse()
		for k := 0; k < width; k++ {
			sum[i*width+k] = rowI[k].Add(rowOpp[k]).Mul(twoInv)
			diff[i*width+k] = rowI[k].Sub(rowOpp[k]).Mul(twoInv).Mul(yInv)
		}
		xs[i] = pts[i].X
	}

	evenCoeffs, err := fftInterpolateX(xs, field.NewMatrix(sum, width))
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: interpolate: %w", err)
	}
	oddCoeffs, err := fftInterpolateX(xs, field.NewMatrix(diff, width))
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: interpolate: %w", err)
	}

	out := make([]field.Elem, n*width)
	for i := 0; i < half; i++ {
		copy(out[(2*i)*width:(2*i+1)*width], evenCoeffs.Row(i))
		copy(out[(2*i+1)*width:(2*i+2)*width], oddCoeffs.Row(i))
	}
	return field.NewMatrix(out, width), nil
}

// InterpolateAtPoints generalizes Interpolate to an arbitrary set of
// distinct points (not necessarily a coset domain): it builds the
// transfer matrix of basis functions evaluated at points and inverts it,
// exactly the transfer-matrix/Lagrange recovery used when the shards
// available for reconstruction don't line up with a single subcoset.
// len(points) must equal evals.Height() and be a power of two.
func InterpolateAtPoints(points []Point, evals field.Matrix) (field.Matrix, error) {
	n := len(points)
	if evals.Height() != n {
		return field.Matrix{}, fmt.Errorf("circle: interpolate_at_points: %d points but %d evaluation rows", n, evals.Height())
	}
	logN, err := bitutil.Log2Strict(n)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: interpolate_at_points: %w", err)
	}
	values := make([]field.Elem, n*n)
	for i, p := range points {
		row := Basis(p, logN)
		copy(values[i*n:(i+1)*n], row)
	}
	transfer := field.NewMatrix(values, n)
	transferInv, err := field.InvertMatrix(transfer)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("circle: interpolate_at_points: %w", err)
	}
	return field.MultiplyMatrices(transferInv, evals)
}

// Extrapolate re-evaluates the polynomial underlying evals (given on
// source) onto target, i.e. it computes a low-degree extension. Extrapolating
// from a domain onto itself is the identity, up to floating-point-free exact
// field arithmetic round trip through Interpolate/Evaluate.
func Extrapolate(source Domain, evals field.Matrix, target Domain) (field.Matrix, error) {
	coeffs, err := Interpolate(source, evals)
	if err != nil {
		return field.Matrix{}, err
	}
	return Evaluate(target, coeffs)
}
