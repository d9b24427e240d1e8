package qubit

import (
	"fmt"
	"math"

	"github.com/shoumikdc/practical-floquet/internal/cmat"
)

// OperatorTable maps operator names to their matrix representations on the
// working Hilbert space. Built once per construction or reset and owned
// exclusively by the instance that holds it.
type OperatorTable map[string]*cmat.Dense

// Create returns the raising operator a† on an n-dimensional truncated Fock
// space: a†|k⟩ = √(k+1)·|k+1⟩.
func Create(n int) (*cmat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidTruncation, n)
	}
	m := cmat.New(n, n)
	for k := 0; k < n-1; k++ {
		m.Set(k+1, k, complex(math.Sqrt(float64(k+1)), 0))
	}
	return m, nil
}

// Destroy returns the lowering operator a, the adjoint of Create:
// a|k⟩ = √k·|k-1⟩.
func Destroy(n int) (*cmat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidTruncation, n)
	}
	m := cmat.New(n, n)
	for k := 0; k < n-1; k++ {
		m.Set(k, k+1, complex(math.Sqrt(float64(k+1)), 0))
	}
	return m, nil
}

// Number returns the occupation operator a†a, diagonal with entries 0..n-1.
func Number(n int) (*cmat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidTruncation, n)
	}
	m := cmat.New(n, n)
	for k := 0; k < n; k++ {
		m.Set(k, k, complex(float64(k), 0))
	}
	return m, nil
}

// Position returns the quadrature zpf·(a + a†) on an n-dimensional space,
// with zpf the zero-point fluctuation of the mode.
func Position(n int, zpf float64) (*cmat.Dense, error) {
	aDag, err := Create(n)
	if err != nil {
		return nil, err
	}
	a, err := Destroy(n)
	if err != nil {
		return nil, err
	}
	return a.Add(aDag).Scale(complex(zpf, 0)), nil
}

// Momentum returns the conjugate quadrature i·zpf·(a† - a). Position and
// Momentum with zero-point fluctuations x and 1/(2x) satisfy the canonical
// commutator on all but the top truncated level.
func Momentum(n int, zpf float64) (*cmat.Dense, error) {
	aDag, err := Create(n)
	if err != nil {
		return nil, err
	}
	a, err := Destroy(n)
	if err != nil {
		return nil, err
	}
	return aDag.Sub(a).Scale(complex(0, zpf)), nil
}

// BaseOps returns the table every variant starts from: the ladder pair on an
// n-dimensional truncated space, keyed "a_dag" and "a". Variants extend the
// table with their own operators or replace it outright.
func BaseOps(n int) (OperatorTable, error) {
	aDag, err := Create(n)
	if err != nil {
		return nil, err
	}
	a, err := Destroy(n)
	if err != nil {
		return nil, err
	}
	return OperatorTable{"a_dag": aDag, "a": a}, nil
}
