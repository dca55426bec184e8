package circle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shardmesh/shardmesh/pkg/field"
)

func TestGeneratorOrder(t *testing.T) {
	g := Generator(4) // order 16
	p := g
	for i := 0; i < 15; i++ {
		require.False(t, p.Equal(Identity), "generator(4) has order dividing 16 before step %d", i)
		p = Add(p, g)
	}
	require.True(t, p.Equal(Identity))
}

func TestGroupAxioms(t *testing.T) {
	g := Generator(5)
	a := ScalarMul(g, 3)
	b := ScalarMul(g, 7)
	require.True(t, Add(a, b).Equal(Add(b, a)))
	require.True(t, Add(a, Neg(a)).Equal(Identity))
	require.True(t, Double(a).Equal(Add(a, a)))
}

func TestPointsOnCircle(t *testing.T) {
	d := Standard(4)
	for _, p := range d.Points() {
		norm := p.X.Square().Add(p.Y.Square())
		require.True(t, norm.Equal(field.One))
	}
}

func TestEvaluateInterpolateRoundTrip(t *testing.T) {
	d := Standard(3) // size 8
	values := make([]field.Elem, 8*2)
	for i := range values {
		values[i] = field.New(uint32(i*37 + 5))
	}
	evals := field.NewMatrix(values, 2)

	coeffs, err := Interpolate(d, evals)
	require.NoError(t, err)
	require.Equal(t, 8, coeffs.Height())

	back, err := Evaluate(d, coeffs)
	require.NoError(t, err)
	for i := range values {
		require.True(t, back.Values[i].Equal(values[i]), "index %d", i)
	}
}

func TestExtrapolateIdentity(t *testing.T) {
	d := Standard(3)
	values := make([]field.Elem, 8)
	for i := range values {
		values[i] = field.New(uint32(i*11 + 1))
	}
	evals := field.NewMatrix(values, 1)

	out, err := Extrapolate(d, evals, d)
	require.NoError(t, err)
	for i := range values {
		require.True(t, out.Values[i].Equal(values[i]))
	}
}

func TestExtrapolateOntoLargerDomain(t *testing.T) {
	source := Standard(3)
	target := Standard(5) // 4x larger
	values := make([]field.Elem, 8)
	for i := range values {
		values[i] = field.New(uint32(i*3 + 2))
	}
	evals := field.NewMatrix(values, 1)

	extended, err := Extrapolate(source, evals, target)
	require.NoError(t, err)
	require.Equal(t, target.Size(), extended.Height())

	// Re-interpolating the low-degree extension on the larger domain must
	// give zero coefficients above the source domain's size: extrapolation
	// preserves the underlying low-degree polynomial rather than fitting a
	// new one through the larger set.
	backCoeffs, err := Interpolate(target, extended)
	require.NoError(t, err)
	for i := 8; i < target.Size(); i++ {
		require.True(t, backCoeffs.Values[i].IsZero(), "coefficient %d should be zero above source degree", i)
	}
}

func TestEvaluateInterpolateRoundTripAtDevDataWidth(t *testing.T) {
	d := Standard(16) // N = 65536, this module's documented dev payload width
	n := d.Size()
	values := make([]field.Elem, n)
	for i := range values {
		values[i] = field.New(uint32(i*977 + 11))
	}
	evals := field.NewMatrix(values, 1)

	coeffs, err := Interpolate(d, evals)
	require.NoError(t, err)
	require.Equal(t, n, coeffs.Height())

	back, err := Evaluate(d, coeffs)
	require.NoError(t, err)
	for i := range values {
		require.True(t, back.Values[i].Equal(values[i]), "index %d", i)
	}
}

func TestExtrapolateAtDevShardDomainScale(t *testing.T) {
	source := Standard(16) // N = 65536
	target := Standard(18) // N * 2^B shards, at the dev blowup B = 2
	n := source.Size()
	values := make([]field.Elem, n)
	for i := range values {
		values[i] = field.New(uint32(i*613 + 3))
	}
	evals := field.NewMatrix(values, 1)

	extended, err := Extrapolate(source, evals, target)
	require.NoError(t, err)
	require.Equal(t, target.Size(), extended.Height())

	backCoeffs, err := Interpolate(target, extended)
	require.NoError(t, err)
	for i := n; i < target.Size(); i++ {
		require.True(t, backCoeffs.Values[i].IsZero(), "coefficient %d should be zero above source degree", i)
	}
}

func TestSymmetricRoundTrip(t *testing.T) {
	d := Standard(4) // size 16
	half := make([]field.Elem, 8)
	for i := range half {
		half[i] = field.New(uint32(i*19 + 7))
	}
	halfMatrix := field.NewMatrix(half, 1)

	evenCoeffs, err := SymmetricInterpolate(d, halfMatrix)
	require.NoError(t, err)
	require.Equal(t, 8, evenCoeffs.Height())

	back, err := SymmetricEvaluate(d, evenCoeffs)
	require.NoError(t, err)
	for i := range half {
		require.True(t, back.Values[i].Equal(half[i]), "index %d", i)
	}
}
