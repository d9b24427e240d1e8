package qubit

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransmon(t *testing.T, params Params) *Qubit {
	t.Helper()
	q, err := New(NewTransmon(), params, zerolog.Nop())
	require.NoError(t, err)
	return q
}

func TestTransmonSpectrumInTransmonRegime(t *testing.T) {
	// Ej/Ec = 100 is deep in the transmon regime, where the perturbative
	// results ω01 ≈ √(8·Ej·Ec) - Ec and α ≈ -Ec hold to a few percent.
	q := newTransmon(t, Params{"Ej": 30, "Ec": 0.3, "ng": 0, "ncut": 30, "N_max": 5})

	rep, err := q.Report()
	require.NoError(t, err)

	wantOmega := math.Sqrt(8*30*0.3) - 0.3
	assert.InEpsilon(t, wantOmega, rep.Omega01, 0.02)
	assert.InDelta(t, -0.3, rep.Anharmonicity, 0.05)
	assert.Negative(t, rep.Anharmonicity, "transmon anharmonicity is negative")
}

func TestTransmonTruncatesOversizedWorkingSpace(t *testing.T) {
	q := newTransmon(t, Params{"Ej": 30, "Ec": 0.3, "ng": 0, "ncut": 20, "N_max": 4})

	eig, err := q.EigSystem()
	require.NoError(t, err)

	require.Len(t, eig.Vals, 4)
	rows, cols := eig.Vecs.Dims()
	assert.Equal(t, 41, rows, "eigenvectors live on the full charge basis")
	assert.Equal(t, 4, cols)

	for i := 1; i < len(eig.Vals); i++ {
		assert.Less(t, eig.Vals[i-1], eig.Vals[i])
	}
}

func TestTransmonChargeInsensitivity(t *testing.T) {
	base := Params{"Ej": 30, "Ec": 0.3, "ncut": 30, "N_max": 3}

	sweet := base.Clone()
	sweet["ng"] = 0.0
	qa := newTransmon(t, sweet)
	repA, err := qa.Report()
	require.NoError(t, err)

	worst := base.Clone()
	worst["ng"] = 0.5
	qb := newTransmon(t, worst)
	repB, err := qb.Report()
	require.NoError(t, err)

	// Charge dispersion is exponentially suppressed at Ej/Ec = 100.
	assert.InDelta(t, repA.Omega01, repB.Omega01, 1e-4)
}

func TestTransmonRejectsUndersizedChargeBasis(t *testing.T) {
	_, err := New(NewTransmon(), Params{"Ej": 30, "Ec": 0.3, "ng": 0, "ncut": 1, "N_max": 5}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrHamiltonianDimension)
}

func TestTransmonRequiresPositiveEc(t *testing.T) {
	q := newTransmon(t, Params{"Ej": 30, "Ec": 0.3, "ng": 0, "ncut": 10, "N_max": 3})
	require.NoError(t, q.SetParam("Ec", 0))

	_, err := q.Hamiltonian()
	assert.Error(t, err)
}
