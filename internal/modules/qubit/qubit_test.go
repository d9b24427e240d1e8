package qubit

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoumikdc/practical-floquet/internal/cmat"
)

func newOscillator(t *testing.T, params Params) *Qubit {
	t.Helper()
	q, err := New(NewHarmonicOscillator(), params, zerolog.Nop())
	require.NoError(t, err)
	return q
}

func TestMissingParameterAtConstruction(t *testing.T) {
	_, err := New(NewHarmonicOscillator(), Params{"N_max": 5}, zerolog.Nop())
	require.Error(t, err)

	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "omega", missing.Param)
	assert.Equal(t, "harmonic_oscillator", missing.Model)

	// The first key in declaration order is reported when several are absent.
	_, err = New(NewTransmon(), Params{"N_max": 5}, zerolog.Nop())
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Ej", missing.Param)

	// A missing truncation size fails at construction, not at first use.
	_, err = New(NewHarmonicOscillator(), Params{"omega": 1}, zerolog.Nop())
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "N_max", missing.Param)
}

func TestTruncationValidation(t *testing.T) {
	_, err := New(NewHarmonicOscillator(), Params{"omega": 1, "N_max": 0}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidTruncation)

	_, err = New(NewHarmonicOscillator(), Params{"omega": 1, "N_max": 2.5}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidTruncation)
}

func TestParamsAreCopiedAtConstruction(t *testing.T) {
	params := Params{"omega": 1, "N_max": 3}
	q := newOscillator(t, params)

	// Mutating the caller's map must not reach the instance.
	params["omega"] = 99
	assert.InDelta(t, 1.0, q.Params().Get("omega"), 0)
}

func TestHarmonicOscillatorSpectrum(t *testing.T) {
	q := newOscillator(t, Params{"omega": 1, "N_max": 5})

	eig, err := q.EigSystem()
	require.NoError(t, err)
	require.Len(t, eig.Vals, 5)

	want := []float64{0.5, 1.5, 2.5, 3.5, 4.5}
	for i, w := range want {
		assert.InDelta(t, w, eig.Vals[i], 1e-9)
	}

	rep, err := q.Report()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rep.Omega01, 1e-9)
	assert.InDelta(t, 0.0, rep.Anharmonicity, 1e-9)
}

func TestEigenvaluesAscending(t *testing.T) {
	q := newOscillator(t, Params{"omega": 2.5, "N_max": 8})

	eig, err := q.EigSystem()
	require.NoError(t, err)
	for i := 1; i < len(eig.Vals); i++ {
		assert.LessOrEqual(t, eig.Vals[i-1], eig.Vals[i])
	}
}

func TestUdIsUnitary(t *testing.T) {
	q := newOscillator(t, Params{"omega": 1, "N_max": 6})

	ud, err := q.Ud()
	require.NoError(t, err)

	n, _ := ud.Dims()
	gram := ud.Dagger().Mul(ud)
	assert.True(t, gram.EqualApprox(cmat.Identity(n), 1e-8), "Ud†·Ud must be the identity")
}

func TestHamiltonianDiagonalInOwnEigenbasis(t *testing.T) {
	q := newOscillator(t, Params{"omega": 1.3, "N_max": 5})

	h, err := q.Hamiltonian()
	require.NoError(t, err)
	diag, err := q.OpInEigenbasis(h)
	require.NoError(t, err)

	eig, err := q.EigSystem()
	require.NoError(t, err)

	n, _ := diag.Dims()
	require.Equal(t, 5, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				assert.InDelta(t, eig.Vals[i], real(diag.At(i, i)), 1e-8)
			} else {
				assert.InDelta(t, 0.0, real(diag.At(i, j)), 1e-8)
				assert.InDelta(t, 0.0, imag(diag.At(i, j)), 1e-8)
			}
		}
	}
}

func TestEigSystemMemoized(t *testing.T) {
	q := newOscillator(t, Params{"omega": 1, "N_max": 4})

	first, err := q.EigSystem()
	require.NoError(t, err)
	second, err := q.EigSystem()
	require.NoError(t, err)
	assert.Same(t, first, second, "repeated access must return the cached eigensystem")

	q.Invalidate()
	third, err := q.EigSystem()
	require.NoError(t, err)
	assert.NotSame(t, first, third, "Invalidate must force a fresh decomposition")
	assert.InDeltaSlice(t, first.Vals, third.Vals, 1e-12)
}

func TestSetParamInvalidatesCache(t *testing.T) {
	q := newOscillator(t, Params{"omega": 1, "N_max": 4})

	before, err := q.EigSystem()
	require.NoError(t, err)

	require.NoError(t, q.SetParam("omega", 2))
	after, err := q.EigSystem()
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.InDelta(t, 1.0, after.Vals[0], 1e-9, "ground level must track the new frequency")
	assert.InDelta(t, 0.5, before.Vals[0], 1e-9, "the old eigensystem is untouched")
}

func TestResetLeavesInstanceIntactOnFailure(t *testing.T) {
	q := newOscillator(t, Params{"omega": 1, "N_max": 4})
	_, err := q.EigSystem()
	require.NoError(t, err)

	err = q.Reset(Params{"N_max": 4})
	require.Error(t, err)

	// The failed reset must not have corrupted parameters or cache.
	assert.InDelta(t, 1.0, q.Params().Get("omega"), 0)
	eig, err := q.EigSystem()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, eig.Vals[0], 1e-9)
}

func TestOpLookup(t *testing.T) {
	q := newOscillator(t, Params{"omega": 1, "N_max": 3})

	a, ok := q.Op("a")
	require.True(t, ok)
	r, c := a.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	_, ok = q.Op("flux")
	assert.False(t, ok)
}

func TestOpInEigenbasisDimensionMismatch(t *testing.T) {
	q := newOscillator(t, Params{"omega": 1, "N_max": 4})

	_, err := q.OpInEigenbasis(cmat.New(3, 3))
	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 4, mismatch.Want)
	assert.Equal(t, 3, mismatch.Rows)

	_, err = q.OpInEigenbasis(cmat.New(4, 3))
	assert.ErrorAs(t, err, &mismatch)
}

func TestReportNeedsThreeLevels(t *testing.T) {
	for _, n := range []float64{1, 2} {
		q := newOscillator(t, Params{"omega": 1, "N_max": n})
		_, err := q.Report()
		assert.ErrorIs(t, err, ErrInsufficientSpectrum)
	}

	// Three levels is the boundary that works.
	q := newOscillator(t, Params{"omega": 1, "N_max": 3})
	_, err := q.Report()
	assert.NoError(t, err)
}
