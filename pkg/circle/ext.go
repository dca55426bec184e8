package circle

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/bitutil"
	"github.com/shardmesh/shardmesh/pkg/field"
)

// ExtPoint is a circle-group point with coordinates in the cubic extension
// field E, used for the single out-of-domain opening evaluation a
// commitment reveals at the Fiat-Shamir challenge point.
type ExtPoint struct {
	X, Y field.Ext3
}

// FromProjectiveLine maps a challenge scalar t in E onto the circle via the
// standard rational parametrization (stereographic projection from the
// point (-1,0)): x = (1-t^2)/(1+t^2), y = 2t/(1+t^2).
func FromProjectiveLine(t field.Ext3) ExtPoint {
	tSquared := t.Square()
	one := field.One3
	denom := one.Add(tSquared).Inverse()
	x := one.Sub(tSquared).Mul(denom)
	y := t.Add(t).Mul(denom)
	return ExtPoint{X: x, Y: y}
}

// ExtBasis is Basis generalized to an extension-field point: the same
// recursive construction (seed 1 and y, repeatedly multiply by x and fold x
// through pi(x) = 2x^2-1), performed in Ext3 arithmetic.
func ExtBasis(p ExtPoint, logN int) []field.Ext3 {
	b := make([]field.Ext3, 1, 1<<logN)
	b[0] = field.One3
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
		x = x.Square().Add(x.Square()).Sub(field.One3)
	}
	return b
}

// EvaluateExt evaluates the polynomial given by coeffs (base-field
// coordinates in the Basis(_, log2(coeffs.Height())) basis) at an
// extension-field point, returning one Ext3 value per column.
func EvaluateExt(coeffs field.Matrix, p ExtPoint) ([]field.Ext3, error) {
	h := coeffs.Height()
	logH, err := bitutil.Log2Strict(h)
	if err != nil {
		return nil, fmt.Errorf("circle: evaluate_ext: %w", err)
	}
	basis := ExtBasis(p, logH)
	width := coeffs.Width
	out := make([]field.Ext3, width)
	for j := 0; j < h; j++ {
		row := coeffs.Row(j)
		for k := 0; k < width; k++ {
			if row[k].IsZero() {
				continue
			}
			out[k] = out[k].Add(basis[j].MulBase(row[k]))
		}
	}
	return out, nil
}
