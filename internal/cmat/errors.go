package cmat

import "errors"

// Sentinel errors returned by the decomposition entry points. Kernel
// operations (Mul, Kron, element access) panic on shape violations instead;
// module boundaries validate before calling them.
var (
	// ErrNonSquare is returned when a square matrix is required.
	ErrNonSquare = errors.New("cmat: matrix is not square")

	// ErrNotHermitian is returned when the input fails the Hermitian check.
	ErrNotHermitian = errors.New("cmat: matrix is not hermitian within tolerance")

	// ErrEigenFailed is returned when the underlying factorization does not
	// converge or yields an inconsistent eigenvector set.
	ErrEigenFailed = errors.New("cmat: eigendecomposition failed")
)
