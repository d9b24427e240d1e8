// Package main is the entry point for the floquet command line tool. It
// builds superconducting qubit models, prints their spectral reports,
// classifies driven-system eigenstates against the bare basis, and sweeps
// parameter grids backed by the spectrum cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoumikdc/practical-floquet/internal/cmat"
	"github.com/shoumikdc/practical-floquet/internal/config"
	"github.com/shoumikdc/practical-floquet/internal/database"
	"github.com/shoumikdc/practical-floquet/internal/modules/floquet"
	"github.com/shoumikdc/practical-floquet/internal/modules/qubit"
	"github.com/shoumikdc/practical-floquet/internal/modules/spectrum"
	"github.com/shoumikdc/practical-floquet/pkg/logger"
)

// paramFlags collects repeated -set name=value overrides.
type paramFlags map[string]float64

func (p paramFlags) String() string {
	parts := make([]string, 0, len(p))
	for name, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%g", name, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (p paramFlags) Set(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", name, err)
	}
	p[strings.TrimSpace(name)] = v
	return nil
}

type options struct {
	modelName  string
	overrides  paramFlags
	sweepName  string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	driveOmega float64
	driveMMax  int
	purge      bool
}

// newModel maps a model name to its implementation and default parameters.
// Energies are in GHz; defaults put each variant in its usual regime.
func newModel(name string) (qubit.Model, qubit.Params, error) {
	switch name {
	case "harmonic_oscillator":
		return qubit.NewHarmonicOscillator(), qubit.Params{"omega": 5.0, "N_max": 5}, nil
	case "transmon":
		return qubit.NewTransmon(), qubit.Params{"Ej": 30.0, "Ec": 0.3, "ng": 0.0, "ncut": 30, "N_max": 5}, nil
	case "fluxonium":
		return qubit.NewFluxonium(), qubit.Params{"Ej": 8.9, "Ec": 2.5, "El": 0.5, "phi_ext": math.Pi, "cutoff": 110, "N_max": 5}, nil
	default:
		return nil, nil, fmt.Errorf("unknown model %q", name)
	}
}

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	opts := options{overrides: paramFlags{}}
	flag.StringVar(&opts.modelName, "model", "transmon", "Qubit model: harmonic_oscillator, transmon or fluxonium")
	flag.Var(opts.overrides, "set", "Override a model parameter as name=value (repeatable)")
	flag.StringVar(&opts.sweepName, "sweep", "", "Parameter to sweep over a linear grid")
	flag.Float64Var(&opts.sweepFrom, "from", 0, "Sweep start value")
	flag.Float64Var(&opts.sweepTo, "to", 0, "Sweep end value")
	flag.IntVar(&opts.sweepSteps, "points", 21, "Number of sweep grid points")
	flag.Float64Var(&opts.driveOmega, "drive-omega", 0, "Classify the driven bare basis at this drive frequency (GHz)")
	flag.IntVar(&opts.driveMMax, "drive-mmax", 5, "Drive charge truncation for classification")
	flag.BoolVar(&opts.purge, "purge", false, "Purge expired cache rows and exit")
	flag.Parse()

	if err := run(cfg, log, opts); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, params, err := newModel(opts.modelName)
	if err != nil {
		return err
	}
	for name, v := range opts.overrides {
		params[name] = v
	}

	// Cache maintenance and sweeps need the store; a plain report does not.
	if opts.purge || opts.sweepName != "" {
		db, err := database.New(database.Config{
			Path:    cfg.SpectraDBPath(),
			Profile: database.ProfileCache,
			Name:    "spectra",
		})
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.QuickCheck(ctx); err != nil {
			return err
		}
		log.Debug().Str("db", db.Name()).Str("path", db.Path()).Msg("Opened spectrum cache")

		store, err := spectrum.NewStore(db, time.Duration(cfg.CacheTTLHours)*time.Hour, log)
		if err != nil {
			return err
		}

		if opts.purge {
			removed, err := store.Purge()
			if err != nil {
				return err
			}
			fmt.Printf("purged %d expired spectra\n", removed)
			return nil
		}

		// A sweep writes the store in bulk; run the full integrity pass
		// before starting one.
		if err := db.HealthCheck(ctx); err != nil {
			return err
		}
		return runSweep(ctx, cfg, log, store, model, params, opts)
	}

	if opts.driveOmega > 0 {
		return runDriven(log, model, params, opts)
	}
	return runReport(log, model, params)
}

func runReport(log zerolog.Logger, model qubit.Model, params qubit.Params) error {
	q, err := qubit.New(model, params, log)
	if err != nil {
		return err
	}

	rep, err := q.Report()
	if err != nil {
		return err
	}
	eig, err := q.EigSystem()
	if err != nil {
		return err
	}

	fmt.Printf("model:         %s\n", model.Name())
	fmt.Printf("omega01:       %.6f GHz\n", rep.Omega01/qubit.GHz)
	fmt.Printf("anharmonicity: %.3f MHz\n", rep.Anharmonicity/qubit.MHz)
	fmt.Println("levels (GHz):")
	for i, v := range eig.Vals {
		fmt.Printf("  E%-2d %12.6f\n", i, v)
	}
	return nil
}

func runDriven(log zerolog.Logger, model qubit.Model, params qubit.Params, opts options) error {
	q, err := qubit.New(model, params, log)
	if err != nil {
		return err
	}
	coupling, err := driveCoupling(q)
	if err != nil {
		return err
	}

	d, err := floquet.New(floquet.NewDrivenQubit(),
		qubit.Params{"M_max": float64(opts.driveMMax)}, q, coupling, log)
	if err != nil {
		return err
	}

	idxs, err := d.BareBasisIndexes(opts.driveOmega, floquet.WithUniquenessCheck())
	if err != nil {
		return err
	}

	fmt.Printf("model:       %s\n", model.Name())
	fmt.Printf("drive omega: %.6f GHz  (M_max = %d)\n", opts.driveOmega, opts.driveMMax)
	for alpha, idx := range idxs {
		fmt.Printf("  bare %-2d -> eigenstate %d\n", alpha, idx)
	}
	return nil
}

// driveCoupling picks the charge operator as the drive coupling. The
// oscillator table carries only ladder operators, so its charge operator
// is assembled on the spot.
func driveCoupling(q *qubit.Qubit) (*cmat.Dense, error) {
	if n, ok := q.Op("n"); ok {
		return n, nil
	}
	a, aok := q.Op("a")
	aDag, dok := q.Op("a_dag")
	if !aok || !dok {
		return nil, fmt.Errorf("model %s has no charge or ladder operators to drive", q.Model().Name())
	}
	return aDag.Sub(a).Scale(complex(0, 1/math.Sqrt2)), nil
}

func runSweep(ctx context.Context, cfg *config.Config, log zerolog.Logger, store *spectrum.Store, model qubit.Model, params qubit.Params, opts options) error {
	if opts.sweepSteps < 2 {
		return fmt.Errorf("sweep needs at least 2 points, got %d", opts.sweepSteps)
	}

	grid := make([]qubit.Params, opts.sweepSteps)
	step := (opts.sweepTo - opts.sweepFrom) / float64(opts.sweepSteps-1)
	for i := range grid {
		p := params.Clone()
		p[opts.sweepName] = opts.sweepFrom + float64(i)*step
		grid[i] = p
	}

	factory := func(p qubit.Params) (*qubit.Qubit, error) {
		return qubit.New(model, p, log)
	}
	sw := spectrum.NewSweeper(model.Name(), factory, store, cfg.SweepWorkers, log)

	res, err := sw.Run(ctx, grid)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d points, %d cached, took %s\n",
		res.RunID, len(res.Points), res.Hits, res.Took.Round(time.Millisecond))
	fmt.Printf("%14s %14s %14s\n", opts.sweepName, "omega01 (GHz)", "anharm (MHz)")
	for i, pt := range res.Points {
		fmt.Printf("%14.6f %14.6f %14.3f\n",
			grid[i].Get(opts.sweepName), pt.Record.Omega01/qubit.GHz, pt.Record.Anharmonicity/qubit.MHz)
	}
	return nil
}
