package cmat

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Dot returns the inner product ⟨a|b⟩, conjugate-linear in the first argument.
func Dot(a, b []complex128) complex128 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("cmat: dimension mismatch in Dot (%d vs %d)", len(a), len(b)))
	}
	var s complex128
	for i := range a {
		s += cmplx.Conj(a[i]) * b[i]
	}
	return s
}

// Norm returns the Euclidean norm of v.
func Norm(v []complex128) float64 {
	s := 0.0
	for _, z := range v {
		s += real(z)*real(z) + imag(z)*imag(z)
	}
	return math.Sqrt(s)
}

// UnitVector returns the length-n basis vector with a one at index i.
func UnitVector(n, i int) []complex128 {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("cmat: unit vector index %d out of range for length %d", i, n))
	}
	v := make([]complex128, n)
	v[i] = 1
	return v
}
