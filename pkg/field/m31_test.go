package field

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSubRoundTrip(t *testing.T) {
	a := New(123456789)
	b := New(987654321)
	require.True(t, a.Add(b).Sub(b).Equal(a))
}

func TestMulInverse(t *testing.T) {
	a := New(42)
	inv := a.Inverse()
	require.True(t, a.Mul(inv).Equal(One))
}

func TestNegIdentity(t *testing.T) {
	a := New(7)
	require.True(t, a.Add(a.Neg()).IsZero())
}

func TestCanonicalWrap(t *testing.T) {
	a := New(P + 5)
	require.Equal(t, uint32(5), a.Uint32())
}

func TestBatchInverse(t *testing.T) {
	xs := []Elem{New(2), New(3), New(5), New(7)}
	invs := BatchInverse(xs)
	for i, x := range xs {
		require.True(t, x.Mul(invs[i]).Equal(One))
	}
}

func TestInvertMatrixRoundTrip(t *testing.T) {
	n := 6
	values := make([]Elem, n*n)
	seed := uint32(1)
	for i := range values {
		seed = seed*1103515245 + 12345
		values[i] = New(seed)
	}
	values[0] = New(1) // avoid accidental singularity on tiny cases
	m := NewMatrix(values, n)
	inv, err := InvertMatrix(m)
	require.NoError(t, err)
	prod, err := MultiplyMatrices(m, inv)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				require.True(t, prod.Get(i, j).Equal(One), "diag (%d,%d)", i, j)
			} else {
				require.True(t, prod.Get(i, j).IsZero(), "offdiag (%d,%d)", i, j)
			}
		}
	}
}

func TestExt3MulInverse(t *testing.T) {
	a := Ext3{New(3), New(11), New(19)}
	inv := a.Inverse()
	got := a.Mul(inv)
	require.True(t, got.Equal(One3))
}

func TestExt3Distributive(t *testing.T) {
	a := Ext3{New(1), New(2), New(3)}
	b := Ext3{New(4), New(5), New(6)}
	c := Ext3{New(7), New(8), New(9)}
	lhs := a.Mul(b.Add(c))
	rhs := a.Mul(b).Add(a.Mul(c))
	require.True(t, lhs.Equal(rhs))
}

func TestExt4MulInverse(t *testing.T) {
	a := Ext4{New(3), New(11), New(19), New(23)}
	inv := a.Inverse()
	got := a.Mul(inv)
	require.True(t, got.Equal(One4))
}
