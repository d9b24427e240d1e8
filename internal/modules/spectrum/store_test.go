package spectrum

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoumikdc/practical-floquet/internal/database"
	"github.com/shoumikdc/practical-floquet/internal/modules/qubit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "spectra.db"),
		Profile: database.ProfileCache,
		Name:    "spectra",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewStore(db, time.Hour, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	params := qubit.Params{"omega": 1.5, "N_max": 4}

	rec := &Record{
		Model:         "harmonic_oscillator",
		Levels:        []float64{0.75, 2.25, 3.75, 5.25},
		Omega01:       1.5,
		Anharmonicity: 0,
		ComputedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.Put("harmonic_oscillator", params, rec))

	got, ok, err := store.Get("harmonic_oscillator", params)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.Model, got.Model)
	assert.Equal(t, rec.Levels, got.Levels)
	assert.InDelta(t, rec.Omega01, got.Omega01, 0)
	assert.InDelta(t, rec.Anharmonicity, got.Anharmonicity, 0)
	assert.WithinDuration(t, rec.ComputedAt, got.ComputedAt, time.Second)

	// A second Put under the same key replaces rather than duplicates.
	rec.Omega01 = 2.5
	require.NoError(t, store.Put("harmonic_oscillator", params, rec))

	got, ok, err = store.Get("harmonic_oscillator", params)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 2.5, got.Omega01, 0)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreMissOnAbsent(t *testing.T) {
	store := newTestStore(t)

	got, ok, err := store.Get("harmonic_oscillator", qubit.Params{"omega": 9, "N_max": 3})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestKeyDiscriminates(t *testing.T) {
	a := qubit.Params{"omega": 1.0, "N_max": 5}
	b := qubit.Params{"N_max": 5, "omega": 1.0}

	assert.Equal(t, Key("transmon", a), Key("transmon", b), "key must not depend on map order")
	assert.NotEqual(t, Key("transmon", a), Key("fluxonium", a))
	assert.NotEqual(t, Key("transmon", a), Key("transmon", qubit.Params{"omega": 1.0 + 1e-12, "N_max": 5}),
		"full float precision must separate nearby parameter sets")
	assert.Len(t, Key("transmon", a), 64)
}

func TestStoreLazyEviction(t *testing.T) {
	store := newTestStore(t)
	params := qubit.Params{"omega": 2, "N_max": 3}

	// Plant an already-expired row directly; the blob is never decoded on
	// the eviction path.
	_, err := store.db.Exec(
		"INSERT INTO spectra (key, model, record, expires_at) VALUES (?, ?, ?, ?)",
		Key("harmonic_oscillator", params), "harmonic_oscillator", []byte{0xc0}, time.Now().Add(-time.Hour).Unix(),
	)
	require.NoError(t, err)

	got, ok, err := store.Get("harmonic_oscillator", params)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, n, "expired rows are evicted on read")
}

func TestEvictionSparesRefreshedRow(t *testing.T) {
	store := newTestStore(t)
	params := qubit.Params{"omega": 2, "N_max": 3}

	require.NoError(t, store.Put("harmonic_oscillator", params, &Record{Model: "harmonic_oscillator"}))

	// An eviction decided against a stale read must not delete the row a
	// concurrent writer refreshed between the read and the delete.
	store.evictExpired(Key("harmonic_oscillator", params), time.Now().Unix())

	_, ok, err := store.Get("harmonic_oscillator", params)
	require.NoError(t, err)
	assert.True(t, ok, "a fresh row survives a stale eviction")
}

func TestStorePurge(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put("transmon", qubit.Params{"Ej": 30, "Ec": 0.3}, &Record{Model: "transmon"}))

	_, err := store.db.Exec(
		"INSERT INTO spectra (key, model, record, expires_at) VALUES (?, ?, ?, ?)",
		Key("transmon", qubit.Params{"Ej": 25, "Ec": 0.2}), "transmon", []byte{0xc0}, time.Now().Add(-time.Minute).Unix(),
	)
	require.NoError(t, err)

	removed, err := store.Purge()
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreDeleteModel(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put("transmon", qubit.Params{"Ej": 30}, &Record{Model: "transmon"}))
	require.NoError(t, store.Put("fluxonium", qubit.Params{"Ej": 9}, &Record{Model: "fluxonium"}))

	require.NoError(t, store.DeleteModel("transmon"))

	_, ok, err := store.Get("transmon", qubit.Params{"Ej": 30})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get("fluxonium", qubit.Params{"Ej": 9})
	require.NoError(t, err)
	assert.True(t, ok, "other models must survive a targeted delete")
}
