package cmat

import (
	"fmt"
	"math"
	"math/cmplx"
)

// DefaultTidyTol is the absolute magnitude below which Tidy snaps a real or
// imaginary component to zero when no explicit tolerance is given.
const DefaultTidyTol = 1e-10

// Dense is a dense complex matrix stored flat in row-major order.
type Dense struct {
	rows int
	cols int
	data []complex128
}

// New returns a zeroed rows×cols matrix.
func New(rows, cols int) *Dense {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("cmat: non-positive dimensions %dx%d", rows, cols))
	}
	return &Dense{rows: rows, cols: cols, data: make([]complex128, rows*cols)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Dense {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// Diag returns a square matrix with d along the main diagonal.
func Diag(d []complex128) *Dense {
	n := len(d)
	m := New(n, n)
	for i, v := range d {
		m.data[i*n+i] = v
	}
	return m
}

// FromRows builds a matrix from row slices. All rows must have equal length.
func FromRows(rows [][]complex128) *Dense {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic("cmat: FromRows requires at least one non-empty row")
	}
	c := len(rows[0])
	m := New(len(rows), c)
	for i, row := range rows {
		if len(row) != c {
			panic(fmt.Sprintf("cmat: ragged input to FromRows (row %d has %d entries, want %d)", i, len(row), c))
		}
		copy(m.data[i*c:(i+1)*c], row)
	}
	return m
}

// Dims returns the row and column counts.
func (m *Dense) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// At returns the element at row i, column j.
func (m *Dense) At(i, j int) complex128 {
	m.checkIndex(i, j)
	return m.data[i*m.cols+j]
}

// Set stores v at row i, column j.
func (m *Dense) Set(i, j int, v complex128) {
	m.checkIndex(i, j)
	m.data[i*m.cols+j] = v
}

func (m *Dense) checkIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("cmat: index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

func (m *Dense) checkSameShape(b *Dense, op string) {
	if m.rows != b.rows || m.cols != b.cols {
		panic(fmt.Sprintf("cmat: dimension mismatch in %s (%dx%d vs %dx%d)", op, m.rows, m.cols, b.rows, b.cols))
	}
}

// Clone returns a deep copy of m.
func (m *Dense) Clone() *Dense {
	out := New(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Add returns the element-wise sum m + b.
func (m *Dense) Add(b *Dense) *Dense {
	m.checkSameShape(b, "Add")
	out := New(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = v + b.data[i]
	}
	return out
}

// Sub returns the element-wise difference m - b.
func (m *Dense) Sub(b *Dense) *Dense {
	m.checkSameShape(b, "Sub")
	out := New(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = v - b.data[i]
	}
	return out
}

// Scale returns z·m.
func (m *Dense) Scale(z complex128) *Dense {
	out := New(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = z * v
	}
	return out
}

// Mul returns the matrix product m·b.
func (m *Dense) Mul(b *Dense) *Dense {
	if m.cols != b.rows {
		panic(fmt.Sprintf("cmat: dimension mismatch in Mul (%dx%d by %dx%d)", m.rows, m.cols, b.rows, b.cols))
	}
	out := New(m.rows, b.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			rowB := b.data[k*b.cols : (k+1)*b.cols]
			rowO := out.data[i*b.cols : (i+1)*b.cols]
			for j, bv := range rowB {
				rowO[j] += a * bv
			}
		}
	}
	return out
}

// Dagger returns the conjugate transpose of m.
func (m *Dense) Dagger() *Dense {
	out := New(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*out.cols+i] = cmplx.Conj(m.data[i*m.cols+j])
		}
	}
	return out
}

// Kron returns the Kronecker product m ⊗ b.
func (m *Dense) Kron(b *Dense) *Dense {
	out := New(m.rows*b.rows, m.cols*b.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			a := m.data[i*m.cols+j]
			if a == 0 {
				continue
			}
			for p := 0; p < b.rows; p++ {
				base := (i*b.rows+p)*out.cols + j*b.cols
				for q := 0; q < b.cols; q++ {
					out.data[base+q] = a * b.data[p*b.cols+q]
				}
			}
		}
	}
	return out
}

// Col returns a copy of column j.
func (m *Dense) Col(j int) []complex128 {
	if j < 0 || j >= m.cols {
		panic(fmt.Sprintf("cmat: column %d out of range for %dx%d matrix", j, m.rows, m.cols))
	}
	out := make([]complex128, m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// SetCol overwrites column j with v.
func (m *Dense) SetCol(j int, v []complex128) {
	if j < 0 || j >= m.cols {
		panic(fmt.Sprintf("cmat: column %d out of range for %dx%d matrix", j, m.rows, m.cols))
	}
	if len(v) != m.rows {
		panic(fmt.Sprintf("cmat: column length %d does not match %d rows", len(v), m.rows))
	}
	for i, z := range v {
		m.data[i*m.cols+j] = z
	}
}

// SliceCols returns a copy of columns lo..hi-1 as a new rows×(hi-lo) matrix.
func (m *Dense) SliceCols(lo, hi int) *Dense {
	if lo < 0 || hi > m.cols || lo >= hi {
		panic(fmt.Sprintf("cmat: column range [%d,%d) out of bounds for %d columns", lo, hi, m.cols))
	}
	out := New(m.rows, hi-lo)
	for i := 0; i < m.rows; i++ {
		copy(out.data[i*out.cols:(i+1)*out.cols], m.data[i*m.cols+lo:i*m.cols+hi])
	}
	return out
}

// MaxAbs returns the largest element magnitude in m.
func (m *Dense) MaxAbs() float64 {
	max := 0.0
	for _, v := range m.data {
		if a := cmplx.Abs(v); a > max {
			max = a
		}
	}
	return max
}

func (m *Dense) maxImag() float64 {
	max := 0.0
	for _, v := range m.data {
		if a := math.Abs(imag(v)); a > max {
			max = a
		}
	}
	return max
}

// IsHermitian reports whether m equals its conjugate transpose within tol,
// relative to the largest element magnitude (with a floor of 1).
func (m *Dense) IsHermitian(tol float64) bool {
	if m.rows != m.cols {
		return false
	}
	scale := m.MaxAbs()
	if scale < 1 {
		scale = 1
	}
	for i := 0; i < m.rows; i++ {
		for j := i; j < m.cols; j++ {
			if cmplx.Abs(m.data[i*m.cols+j]-cmplx.Conj(m.data[j*m.cols+i])) > tol*scale {
				return false
			}
		}
	}
	return true
}

// Tidy returns a copy of m with real and imaginary components of magnitude
// below tol snapped to zero. A non-positive tol uses DefaultTidyTol.
func (m *Dense) Tidy(tol float64) *Dense {
	if tol <= 0 {
		tol = DefaultTidyTol
	}
	out := New(m.rows, m.cols)
	for i, v := range m.data {
		re, im := real(v), imag(v)
		if math.Abs(re) < tol {
			re = 0
		}
		if math.Abs(im) < tol {
			im = 0
		}
		out.data[i] = complex(re, im)
	}
	return out
}

// EqualApprox reports whether m and b share a shape and every element pair
// differs by at most tol in magnitude.
func (m *Dense) EqualApprox(b *Dense, tol float64) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i, v := range m.data {
		if cmplx.Abs(v-b.data[i]) > tol {
			return false
		}
	}
	return true
}
