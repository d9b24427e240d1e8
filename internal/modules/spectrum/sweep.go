package spectrum

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shoumikdc/practical-floquet/internal/modules/qubit"
)

// Factory builds a fresh qubit for one grid point. Every point gets its
// own instance, so concurrent evaluations never share a memoized
// eigensystem.
type Factory func(p qubit.Params) (*qubit.Qubit, error)

// Point is one sweep result. Cached marks a store hit.
type Point struct {
	Params qubit.Params
	Record *Record
	Cached bool
}

// Result summarizes a finished sweep. Points follows the input grid order
// regardless of completion order.
type Result struct {
	RunID  string
	Model  string
	Points []Point
	Hits   int
	Misses int
	Took   time.Duration
}

// Sweeper evaluates a parameter grid concurrently, reading the spectrum
// store first and warming it with whatever had to be computed.
type Sweeper struct {
	model   string
	factory Factory
	store   *Store
	limit   int
	log     zerolog.Logger
}

// NewSweeper wires a sweeper for one model. limit caps concurrent
// evaluations; non-positive means one per CPU.
func NewSweeper(model string, factory Factory, store *Store, limit int, log zerolog.Logger) *Sweeper {
	if limit < 1 {
		limit = runtime.NumCPU()
	}
	return &Sweeper{
		model:   model,
		factory: factory,
		store:   store,
		limit:   limit,
		log:     log.With().Str("component", "sweeper").Str("model", model).Logger(),
	}
}

// Run evaluates every grid point, honoring ctx cancellation. Fresh results
// are written back to the store in one batch after all points finish; a
// failed point abandons the whole run and leaves the store untouched.
func (sw *Sweeper) Run(ctx context.Context, grid []qubit.Params) (*Result, error) {
	runID := uuid.New().String()
	start := time.Now()
	log := sw.log.With().Str("run_id", runID).Logger()
	log.Info().Int("points", len(grid)).Int("limit", sw.limit).Msg("Starting spectrum sweep")

	points := make([]Point, len(grid))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sw.limit)
	for i, p := range grid {
		i, p := i, p // per-iteration copies; required while go.mod targets go < 1.22
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, ok, err := sw.store.Get(sw.model, p)
			if err != nil {
				return err
			}
			if ok {
				points[i] = Point{Params: p, Record: rec, Cached: true}
				return nil
			}

			rec, err = sw.evaluate(p)
			if err != nil {
				return fmt.Errorf("failed to evaluate grid point %d: %w", i, err)
			}
			points[i] = Point{Params: p, Record: rec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hits := 0
	var fresh []Entry
	for _, pt := range points {
		if pt.Cached {
			hits++
			continue
		}
		fresh = append(fresh, Entry{Params: pt.Params, Record: pt.Record})
	}
	if err := sw.store.PutAll(sw.model, fresh); err != nil {
		return nil, fmt.Errorf("failed to warm spectrum store: %w", err)
	}

	res := &Result{
		RunID:  runID,
		Model:  sw.model,
		Points: points,
		Hits:   hits,
		Misses: len(grid) - hits,
		Took:   time.Since(start),
	}
	log.Info().
		Int("hits", res.Hits).
		Int("misses", res.Misses).
		Dur("took", res.Took).
		Msg("Finished spectrum sweep")
	return res, nil
}

func (sw *Sweeper) evaluate(p qubit.Params) (*Record, error) {
	q, err := sw.factory(p)
	if err != nil {
		return nil, err
	}

	rep, err := q.Report()
	if err != nil {
		return nil, err
	}
	eig, err := q.EigSystem()
	if err != nil {
		return nil, err
	}

	levels := make([]float64, len(eig.Vals))
	copy(levels, eig.Vals)
	return &Record{
		Model:         sw.model,
		Levels:        levels,
		Omega01:       rep.Omega01,
		Anharmonicity: rep.Anharmonicity,
		ComputedAt:    time.Now().UTC(),
	}, nil
}
