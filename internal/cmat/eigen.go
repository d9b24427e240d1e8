package cmat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// hermTol bounds the relative asymmetry tolerated before an input is
	// rejected as non-Hermitian.
	hermTol = 1e-9

	// realCutoff is the largest imaginary magnitude (relative to the matrix
	// scale) still treated as numerical noise when choosing the real solver
	// path over the embedding.
	realCutoff = 1e-12

	// clusterTol groups numerically equal eigenvalues of the embedding so
	// that vector selection orthogonalizes within degenerate subspaces.
	clusterTol = 1e-9

	// selectFloor is the residual norm below which an embedding eigenvector
	// is discarded as the complex multiple of an already selected one.
	selectFloor = 1e-6
)

// HermEigen holds the full eigendecomposition of a Hermitian matrix.
// Vals is sorted ascending; column i of Vecs is the unit eigenvector
// belonging to Vals[i].
type HermEigen struct {
	Vals []float64
	Vecs *Dense
}

// EigenHerm computes the full spectrum of the Hermitian matrix h.
//
// Purely real input factorizes directly with gonum's symmetric solver.
// Complex input goes through the real symmetric embedding [[A, -B], [B, A]]
// of H = A + iB: every eigenvalue of H shows up twice there, and walking the
// doubled eigenpairs in ascending order while orthogonalizing within
// degenerate clusters recovers exactly one complex eigenvector per copy.
// The result is deterministic for identical input.
func EigenHerm(h *Dense) (*HermEigen, error) {
	n, c := h.Dims()
	if n != c {
		return nil, fmt.Errorf("%w: got %dx%d", ErrNonSquare, n, c)
	}
	if !h.IsHermitian(hermTol) {
		return nil, ErrNotHermitian
	}

	scale := h.MaxAbs()
	if scale < 1 {
		scale = 1
	}

	var (
		vals []float64
		vecs *Dense
		err  error
	)
	if h.maxImag() <= realCutoff*scale {
		vals, vecs, err = eigenReal(h)
	} else {
		vals, vecs, err = eigenEmbedded(h)
	}
	if err != nil {
		return nil, err
	}

	// The backend reports ascending values already; enforce the ordering
	// contract independently of the solver path. The sort is deterministic,
	// so identical input always orders ties identically.
	idx := make([]int, n)
	floats.Argsort(vals, idx)

	sortedVecs := New(n, n)
	for pos, i := range idx {
		sortedVecs.SetCol(pos, vecs.Col(i))
	}
	return &HermEigen{Vals: vals, Vecs: sortedVecs}, nil
}

// eigenReal factorizes a Hermitian matrix whose imaginary parts are noise.
func eigenReal(h *Dense) ([]float64, *Dense, error) {
	n, _ := h.Dims()
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// Average the symmetric pair so roundoff asymmetry cannot leak
			// into the factorization.
			data[i*n+j] = (real(h.At(i, j)) + real(h.At(j, i))) / 2
		}
	}
	sym := mat.NewSymDense(n, data)

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, fmt.Errorf("%w: symmetric factorization did not converge", ErrEigenFailed)
	}
	vals := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	vecs := New(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			vecs.Set(i, j, complex(ev.At(i, j), 0))
		}
	}
	return vals, vecs, nil
}

// eigenEmbedded factorizes a genuinely complex Hermitian matrix through its
// 2n×2n real symmetric embedding.
func eigenEmbedded(h *Dense) ([]float64, *Dense, error) {
	n, _ := h.Dims()
	d := 2 * n

	data := make([]float64, d*d)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a := real(h.At(i, j))
			b := imag(h.At(i, j))
			data[i*d+j] = a
			data[i*d+n+j] = -b
			data[(n+i)*d+j] = b
			data[(n+i)*d+n+j] = a
		}
	}
	sym := mat.NewSymDense(d, data)

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, fmt.Errorf("%w: embedded factorization did not converge", ErrEigenFailed)
	}
	vals2 := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	scale := math.Max(math.Abs(vals2[0]), math.Abs(vals2[d-1]))
	if scale < 1 {
		scale = 1
	}

	vals := make([]float64, 0, n)
	sel := make([][]complex128, 0, n)
	for k := 0; k < d && len(sel) < n; k++ {
		cand := make([]complex128, n)
		for i := 0; i < n; i++ {
			cand[i] = complex(ev.At(i, k), ev.At(n+i, k))
		}

		// Project out already selected vectors of the same eigenvalue; the
		// partner copy of an accepted vector cancels to zero here.
		for s, prev := range sel {
			if math.Abs(vals[s]-vals2[k]) > clusterTol*scale {
				continue
			}
			c := Dot(prev, cand)
			for i := range cand {
				cand[i] -= c * prev[i]
			}
		}

		nrm := Norm(cand)
		if nrm <= selectFloor {
			continue
		}
		for i := range cand {
			cand[i] /= complex(nrm, 0)
		}
		sel = append(sel, cand)
		vals = append(vals, vals2[k])
	}
	if len(sel) != n {
		return nil, nil, fmt.Errorf("%w: recovered %d of %d eigenvectors from the embedding", ErrEigenFailed, len(sel), n)
	}

	vecs := New(n, n)
	for j, v := range sel {
		vecs.SetCol(j, v)
	}
	return vals, vecs, nil
}

// FuncHerm applies the scalar function f to the Hermitian matrix h through
// its eigendecomposition: V·diag(f(λ))·V†. The result is Hermitian for any
// real-valued f.
func FuncHerm(h *Dense, f func(float64) float64) (*Dense, error) {
	eig, err := EigenHerm(h)
	if err != nil {
		return nil, err
	}
	n := len(eig.Vals)
	fd := New(n, n)
	for i, v := range eig.Vals {
		fd.Set(i, i, complex(f(v), 0))
	}
	return eig.Vecs.Mul(fd).Mul(eig.Vecs.Dagger()), nil
}
