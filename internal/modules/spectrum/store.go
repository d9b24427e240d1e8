// Package spectrum persists computed spectral results keyed by model and
// parameter set, and sweeps parameter grids against that store. Spectra
// are deterministic in their inputs, so the store is a pure cache: every
// row can be dropped and recomputed at the cost of a diagonalization.
package spectrum

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/shoumikdc/practical-floquet/internal/database"
	"github.com/shoumikdc/practical-floquet/internal/modules/qubit"
)

// DefaultTTL bounds how long a stored spectrum is served before it is
// recomputed. Results never go stale physically; the TTL guards against
// rows written by older builds.
const DefaultTTL = 7 * 24 * time.Hour

// Record is one cached spectral result.
type Record struct {
	Model         string    `msgpack:"model"`
	Levels        []float64 `msgpack:"levels"`
	Omega01       float64   `msgpack:"omega01"`
	Anharmonicity float64   `msgpack:"anharmonicity"`
	ComputedAt    time.Time `msgpack:"computed_at"`
}

// Entry pairs a parameter set with its record for batch writes.
type Entry struct {
	Params qubit.Params
	Record *Record
}

// Store is the sqlite-backed spectrum cache.
type Store struct {
	db  *database.DB
	ttl time.Duration
	log zerolog.Logger
}

// NewStore creates the backing table if needed and returns a ready store.
// A non-positive ttl falls back to DefaultTTL.
func NewStore(db *database.DB, ttl time.Duration, log zerolog.Logger) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		db:  db,
		ttl: ttl,
		log: log.With().Str("component", "spectrum_store").Logger(),
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS spectra (
			key TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			record BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create spectra table: %w", err)
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_spectra_model ON spectra(model)`)
	if err != nil {
		return fmt.Errorf("failed to create spectra model index: %w", err)
	}
	return nil
}

// Key returns the canonical cache key for a model and parameter set: the
// hex SHA-256 of the model name and every parameter as "k=v", keys sorted.
// Values print with full float64 precision, so distinct parameter sets
// never share a key.
func Key(model string, params qubit.Params) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(model)
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%.17g", name, params[name])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Put stores a record under the canonical key, replacing any previous row.
func (s *Store) Put(model string, params qubit.Params, rec *Record) error {
	blob, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode spectrum record: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO spectra (key, model, record, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			model = excluded.model,
			record = excluded.record,
			expires_at = excluded.expires_at
	`, Key(model, params), model, blob, time.Now().Add(s.ttl).Unix())
	if err != nil {
		return fmt.Errorf("failed to store spectrum record: %w", err)
	}
	return nil
}

// PutAll stores a batch of records in a single transaction, so a sweep
// either warms the cache completely or not at all.
func (s *Store) PutAll(model string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	expiresAt := time.Now().Add(s.ttl).Unix()

	return database.WithTransaction(s.db.Conn(), func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO spectra (key, model, record, expires_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				model = excluded.model,
				record = excluded.record,
				expires_at = excluded.expires_at
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			blob, err := msgpack.Marshal(e.Record)
			if err != nil {
				return fmt.Errorf("failed to encode spectrum record: %w", err)
			}
			if _, err := stmt.Exec(Key(model, e.Params), model, blob, expiresAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get loads the record for a model and parameter set. A miss, absent or
// expired, returns (nil, false, nil); expired rows are evicted on the way
// out.
func (s *Store) Get(model string, params qubit.Params) (*Record, bool, error) {
	key := Key(model, params)

	var blob []byte
	var expiresAt int64
	err := s.db.QueryRow("SELECT record, expires_at FROM spectra WHERE key = ?", key).Scan(&blob, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load spectrum record: %w", err)
	}

	if now := time.Now().Unix(); now >= expiresAt {
		s.evictExpired(key, now)
		return nil, false, nil
	}

	var rec Record
	if err := msgpack.Unmarshal(blob, &rec); err != nil {
		return nil, false, fmt.Errorf("failed to decode spectrum record: %w", err)
	}
	return &rec, true, nil
}

// evictExpired removes a row observed as stale at now. The guard leaves
// the row alone when a concurrent writer refreshed it after that read.
func (s *Store) evictExpired(key string, now int64) {
	if _, err := s.db.Exec("DELETE FROM spectra WHERE key = ? AND expires_at <= ?", key, now); err != nil {
		s.log.Warn().Err(err).Msg("Failed to evict expired spectrum record")
	}
}

// Purge deletes every expired row and returns the number removed.
func (s *Store) Purge() (int64, error) {
	res, err := s.db.Exec("DELETE FROM spectra WHERE expires_at <= ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired spectra: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.log.Debug().Int64("removed", n).Msg("Purged expired spectra")
	}
	return n, nil
}

// DeleteModel removes every record stored for the named model.
func (s *Store) DeleteModel(model string) error {
	_, err := s.db.Exec("DELETE FROM spectra WHERE model = ?", model)
	if err != nil {
		return fmt.Errorf("failed to delete spectra for model %s: %w", model, err)
	}
	return nil
}

// Count returns the number of stored records, expired rows included.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM spectra").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count spectra: %w", err)
	}
	return n, nil
}
