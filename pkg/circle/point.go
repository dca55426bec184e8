// Package circle implements the circle-group arithmetic and circle-domain
// FFT kernel (forward/inverse transform, extrapolation, and the y-symmetric
// half-domain variant) that the erasure-coding layer in pkg/shard is built
// on. The circle group here is the norm-1 subgroup {(x,y): x^2+y^2=1} of
// F_p x F_p, which for the Mersenne-31 prime (p = 2^31-1, p = 3 mod 4) has
// order exactly p+1 = 2^31 — a full power of two, which is the entire point
// of working over a Mersenne prime for this kind of transform.
package circle

import (
	"sync"

	"github.com/shardmesh/shardmesh/pkg/field"
)

// Point is an affine point of the circle group.
type Point struct {
	X, Y field.Elem
}

// Identity is the group identity, (1, 0).
var Identity = Point{X: field.One, Y: field.Zero}

// Add implements the circle group operation, which is complex-number
// multiplication of x+iy under the identification of the circle with the
// norm-1 elements of F_p(i).
func Add(a, b Point) Point {
	return Point{
		X: a.X.Mul(b.X).Sub(a.Y.Mul(b.Y)),
		Y: a.X.Mul(b.Y).Add(a.Y.Mul(b.X)),
	}
}

// Neg returns the group inverse of p, which on the circle is just
// conjugation: (x, y) -> (x, -y).
func Neg(p Point) Point {
	return Point{X: p.X, Y: p.Y.Neg()}
}

// Sub returns a + Neg(b).
func Sub(a, b Point) Point {
	return Add(a, Neg(b))
}

// Double returns p + p, folded using x^2+y^2=1 so it only costs one
// squaring: (x,y)+(x,y) = (2x^2-1, 2xy).
func Double(p Point) Point {
	return Point{
		X: p.X.Square().Double().Sub(field.One),
		Y: p.X.Mul(p.Y).Double(),
	}
}

// ScalarMul computes n*p (n applications of the group operation) via
// double-and-add.
func ScalarMul(p Point, n uint64) Point {
	result := Identity
	base := p
	for n > 0 {
		if n&1 == 1 {
			result = Add(result, base)
		}
		base = Double(base)
		n >>= 1
	}
	return result
}

// Equal reports whether two points are canonically equal.
func (p Point) Equal(o Point) bool {
	return p.X.Equal(o.X) && p.Y.Equal(o.Y)
}

const fullGroupLogOrder = 31

var (
	fullGeneratorOnce sync.Once
	fullGenerator     Point
)

// FullGenerator returns a fixed generator of the entire circle group (order
// 2^31). It is found deterministically at first use by scanning candidate
// x-coordinates starting at 2 and testing the order of the resulting point,
// so it is reproducible across runs of this implementation without needing
// to hardcode a magic constant.
func FullGenerator() Point {
	fullGeneratorOnce.Do(func() {
		fullGenerator = findFullGenerator()
	})
	return fullGenerator
}

func findFullGenerator() Point {
	for x := uint32(2); ; x++ {
		xe := field.New(x)
		ySquared := field.One.Sub(xe.Square())
		y, ok := sqrt(ySquared)
		if !ok {
			continue
		}
		candidate := Point{X: xe, Y: y}
		// candidate has order dividing 2^31; it generates the full group
		// iff it is not already in the unique subgroup of order 2^30,
		// i.e. iff doubling it 30 times does not reach the identity.
		probe := candidate
		for i := 0; i < fullGroupLogOrder-1; i++ {
			probe = Double(probe)
		}
		if !probe.Equal(Identity) {
			return candidate
		}
	}
}

// sqrt returns a square root of a in F_p if one exists. Since p = 3 (mod 4),
// a square root can be computed directly as a^((p+1)/4) without the general
// Tonelli-Shanks loop.
func sqrt(a field.Elem) (field.Elem, bool) {
	if a.IsZero() {
		return field.Zero, true
	}
	root := a.Exp((uint64(field.P) + 1) / 4)
	if root.Mul(root).Equal(a) {
		return root, true
	}
	return field.Elem{}, false
}

// Generator returns the canonical generator of the cyclic subgroup of order
// 2^logOrder, for 0 <= logOrder <= 31.
func Generator(logOrder int) Point {
	if logOrder < 0 || logOrder > fullGroupLogOrder {
		panic("circle: logOrder out of range")
	}
	shift := uint(fullGroupLogOrder - logOrder)
	return ScalarMul(FullGenerator(), uint64(1)<<shift)
}
