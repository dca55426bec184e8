package field

import "fmt"

// Matrix is a row-major dense matrix over Elem.
type Matrix struct {
	Values []Elem
	Width  int
}

// NewMatrix builds a row-major matrix from a flat value slice.
func NewMatrix(values []Elem, width int) Matrix {
	return Matrix{Values: values, Width: width}
}

// Height returns the number of rows.
func (m Matrix) Height() int {
	if m.Width == 0 {
		return 0
	}
	return len(m.Values) / m.Width
}

// Get returns the element at (row, col).
func (m Matrix) Get(row, col int) Elem {
	return m.Values[row*m.Width+col]
}

// Set assigns the element at (row, col).
func (m Matrix) Set(row, col int, v Elem) {
	m.Values[row*m.Width+col] = v
}

// Row returns the slice backing row r (shares storage with m).
func (m Matrix) Row(r int) []Elem {
	return m.Values[r*m.Width : (r+1)*m.Width]
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	values := make([]Elem, len(m.Values))
	copy(values, m.Values)
	return Matrix{Values: values, Width: m.Width}
}

// Transpose returns the transpose of m as a new matrix.
func (m Matrix) Transpose() Matrix {
	h, w := m.Height(), m.Width
	out := make([]Elem, len(m.Values))
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			out[j*h+i] = m.Get(i, j)
		}
	}
	return Matrix{Values: out, Width: h}
}

func identityMatrix(n int) Matrix {
	values := make([]Elem, n*n)
	for i := 0; i < n; i++ {
		values[i*n+i] = One
	}
	return Matrix{Values: values, Width: n}
}

func swapRows(m Matrix, r1, r2 int) {
	if r1 == r2 {
		return
	}
	w := m.Width
	for i := 0; i < w; i++ {
		m.Values[r1*w+i], m.Values[r2*w+i] = m.Values[r2*w+i], m.Values[r1*w+i]
	}
}

func scaleRow(m Matrix, row int, scalar Elem) {
	r := m.Row(row)
	for i := range r {
		r[i] = r[i].Mul(scalar)
	}
}

// InvertMatrix inverts a square matrix via Gauss-Jordan elimination with
// partial pivoting, grounded on the transfer-matrix inversion used by the
// general recovery path (§4.4) and on extension-field inversion.
func InvertMatrix(m Matrix) (Matrix, error) {
	n := m.Width
	if m.Height() != n {
		return Matrix{}, fmt.Errorf("field: matrix must be square, got %dx%d", m.Height(), n)
	}

	a := m.Clone()
	inv := identityMatrix(n)

	for i := 0; i < n; i++ {
		pivotRow := i
		for j := i; j < n; j++ {
			if !a.Get(j, i).IsZero() {
				pivotRow = j
				break
			}
		}
		if a.Get(pivotRow, i).IsZero() {
			return Matrix{}, fmt.Errorf("field: matrix is singular and cannot be inverted")
		}

		if i != pivotRow {
			swapRows(a, i, pivotRow)
			swapRows(inv, i, pivotRow)
		}

		pivotInv := a.Get(i, i).Inverse()
		scaleRow(a, i, pivotInv)
		scaleRow(inv, i, pivotInv)

		rowIA := append([]Elem(nil), a.Row(i)...)
		rowIInv := append([]Elem(nil), inv.Row(i)...)

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			factor := a.Get(j, i)
			if factor.IsZero() {
				continue
			}
			rowJA := a.Row(j)
			rowJInv := inv.Row(j)
			for k := 0; k < n; k++ {
				rowJA[k] = rowJA[k].Sub(factor.Mul(rowIA[k]))
				rowJInv[k] = rowJInv[k].Sub(factor.Mul(rowIInv[k]))
			}
		}
	}

	return inv, nil
}

// MultiplyMatrices computes a * b.
func MultiplyMatrices(a, b Matrix) (Matrix, error) {
	if a.Width != b.Height() {
		return Matrix{}, fmt.Errorf("field: incompatible dimensions for multiplication: %dx%d * %dx%d", a.Height(), a.Width, b.Height(), b.Width)
	}
	m := a.Height()
	p := b.Width
	out := make([]Elem, m*p)
	for i := 0; i < m; i++ {
		for k := 0; k < a.Width; k++ {
			av := a.Get(i, k)
			if av.IsZero() {
				continue
			}
			row := b.Row(k)
			for j := 0; j < p; j++ {
				out[i*p+j] = out[i*p+j].Add(av.Mul(row[j]))
			}
		}
	}
	return Matrix{Values: out, Width: p}, nil
}
