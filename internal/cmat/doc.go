// Package cmat provides dense complex matrices and the Hermitian
// eigendecomposition used throughout the qubit and floquet modules.
//
// Matrices are stored flat in row-major order. Arithmetic kernels follow the
// gonum convention of panicking on dimension mismatches; exported module
// boundaries validate shapes and return errors instead.
//
// Eigendecomposition is delegated to gonum's real symmetric solver. Purely
// real Hermitian matrices factorize directly. Complex matrices go through the
// real symmetric embedding of H = A + iB into [[A, -B], [B, A]], whose
// spectrum is that of H with every eigenvalue doubled; one complex
// eigenvector per doubled eigenvalue is recovered deterministically.
package cmat
