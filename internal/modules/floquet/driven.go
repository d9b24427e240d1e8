// Package floquet composes a static qubit with a periodic drive: it
// assembles the effective Hamiltonian on the composite (qubit eigenbasis ⊗
// drive charge basis) space and classifies its zero-drive eigenstates
// against an uncoupled reference basis by overlap magnitude.
//
// Like the qubit package, driven instances are single-writer with no
// internal locking.
package floquet

import (
	"fmt"
	"math/cmplx"

	"github.com/rs/zerolog"

	"github.com/shoumikdc/practical-floquet/internal/cmat"
	"github.com/shoumikdc/practical-floquet/internal/modules/qubit"
	"github.com/shoumikdc/practical-floquet/internal/utils"
)

// StateTable maps state-set names to ordered collections of state vectors
// on the composite space. Every driven model must populate "bare_basis".
type StateTable map[string][][]complex128

// EffectiveHamiltonian supplies the static effective Hamiltonian of the
// driven problem at a given drive frequency and amplitude. The default
// implementation is QuasiEnergyOperator; tests and extensions may inject
// their own.
type EffectiveHamiltonian interface {
	HEff(omega, amplitude float64) (*cmat.Dense, error)
}

// Model defines a concrete driven-system variant. Implementations are
// stateless, mirroring qubit.Model.
type Model interface {
	// Name identifies the variant in logs and errors.
	Name() string

	// ExpectedParams lists required parameter names; every variant
	// includes "M_max", the drive charge truncation (basis spans
	// -M_max..+M_max).
	ExpectedParams() []string

	// BuildOpsAndStates constructs the operator table and the state sets
	// for the driven composition, including the mandatory "bare_basis"
	// collection.
	BuildOpsAndStates(d *Driven) (qubit.OperatorTable, StateTable, error)
}

// Driven owns the mutable state of a driven composition: the validated
// parameters, the underlying qubit, the externally supplied drive coupling
// and the rebuilt operator/state tables.
type Driven struct {
	model    Model
	params   qubit.Params
	q        *qubit.Qubit
	coupling *cmat.Dense
	heff     EffectiveHamiltonian
	ops      qubit.OperatorTable
	states   StateTable
	mmax     int
	log      zerolog.Logger
}

// New validates params against the driven model, wires the default
// quasi-energy operator and runs the initial ResetAnalysis. The drive
// coupling must be expressed on the qubit's working space.
func New(model Model, params qubit.Params, q *qubit.Qubit, driveCoupling *cmat.Dense, log zerolog.Logger) (*Driven, error) {
	for _, name := range model.ExpectedParams() {
		if !params.Has(name) {
			return nil, &qubit.MissingParameterError{Model: model.Name(), Param: name}
		}
	}
	if !params.Has("M_max") {
		return nil, &qubit.MissingParameterError{Model: model.Name(), Param: "M_max"}
	}
	mmax, err := params.Int("M_max")
	if err != nil {
		return nil, err
	}
	if mmax < 0 {
		return nil, fmt.Errorf("%w: M_max = %d", qubit.ErrInvalidTruncation, mmax)
	}

	d := &Driven{
		model:    model,
		params:   params.Clone(),
		q:        q,
		coupling: driveCoupling,
		mmax:     mmax,
		log:      log.With().Str("component", "driven").Str("model", model.Name()).Logger(),
	}
	d.heff = NewQuasiEnergyOperator(q, driveCoupling, mmax)

	if err := d.ResetAnalysis(); err != nil {
		return nil, err
	}
	return d, nil
}

// Qubit returns the underlying static qubit.
func (d *Driven) Qubit() *qubit.Qubit {
	return d.q
}

// Params returns a copy of the driven parameter set.
func (d *Driven) Params() qubit.Params {
	return d.params.Clone()
}

// MMax returns the drive charge truncation.
func (d *Driven) MMax() int {
	return d.mmax
}

// DriveDimension returns the drive charge basis size 2·M_max+1.
func (d *Driven) DriveDimension() int {
	return 2*d.mmax + 1
}

// DriveCoupling returns the externally supplied coupling operator on the
// qubit working space.
func (d *Driven) DriveCoupling() *cmat.Dense {
	return d.coupling
}

// Op returns the named operator from the driven table.
func (d *Driven) Op(name string) (*cmat.Dense, bool) {
	op, ok := d.ops[name]
	return op, ok
}

// States returns the named state collection.
func (d *Driven) States(name string) ([][]complex128, bool) {
	s, ok := d.states[name]
	return s, ok
}

// SetEffectiveHamiltonian replaces the effective-Hamiltonian collaborator.
// The default wired at construction is the quasi-energy operator.
func (d *Driven) SetEffectiveHamiltonian(h EffectiveHamiltonian) {
	d.heff = h
}

// HEff builds the effective Hamiltonian through the wired collaborator.
func (d *Driven) HEff(omega, amplitude float64) (*cmat.Dense, error) {
	return d.heff.HEff(omega, amplitude)
}

// ResetAnalysis clears and rebuilds the operator and state tables from
// scratch, invalidating the underlying qubit cache first. This is the
// invalidation hook for the whole driven pipeline after parameter changes.
// The externally supplied drive coupling is always re-registered under
// "drive_coupling".
func (d *Driven) ResetAnalysis() error {
	d.q.Invalidate()

	ops, states, err := d.model.BuildOpsAndStates(d)
	if err != nil {
		return fmt.Errorf("failed to build driven operators and states: %w", err)
	}
	if ops == nil {
		ops = qubit.OperatorTable{}
	}
	ops["drive_coupling"] = d.coupling

	d.ops = ops
	d.states = states
	d.log.Debug().
		Int("num_ops", len(ops)).
		Int("num_state_sets", len(states)).
		Msg("Rebuilt driven analysis tables")
	return nil
}

// OverlapOption configures BareBasisIndexes.
type OverlapOption func(*overlapConfig)

type overlapConfig struct {
	uniqueness bool
}

// WithUniquenessCheck makes BareBasisIndexes fail with a
// BareBasisCollisionError when two bare states resolve to the same
// eigenstate instead of aliasing silently.
func WithUniquenessCheck() OverlapOption {
	return func(c *overlapConfig) { c.uniqueness = true }
}

// BareBasisIndexes decomposes the zero-drive effective Hamiltonian at drive
// frequency omega and matches every bare-basis reference state to the
// eigenstate maximizing the overlap magnitude |⟨reference|eigenstate⟩|.
// Indices come back in bare-basis order; ties keep the first eigenstate
// index attaining the maximum.
func (d *Driven) BareBasisIndexes(omega float64, opts ...OverlapOption) ([]int, error) {
	var cfg overlapConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	bare, ok := d.states["bare_basis"]
	if !ok {
		return nil, ErrMissingBareBasis
	}
	defer utils.OperationTimer("classify_bare_basis", d.log)()

	h0, err := d.heff.HEff(omega, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to build zero-drive effective hamiltonian: %w", err)
	}
	eig, err := cmat.EigenHerm(h0)
	if err != nil {
		return nil, fmt.Errorf("failed to decompose effective hamiltonian: %w", err)
	}

	dim, total := eig.Vecs.Dims()
	idxs := make([]int, len(bare))
	owner := make(map[int]int, len(bare))
	for b, ref := range bare {
		if len(ref) != dim {
			return nil, &qubit.DimensionMismatchError{Rows: len(ref), Cols: 1, Want: dim}
		}

		best, bestOverlap := 0, -1.0
		for k := 0; k < total; k++ {
			overlap := cmplx.Abs(cmat.Dot(ref, eig.Vecs.Col(k)))
			if overlap > bestOverlap {
				best, bestOverlap = k, overlap
			}
		}

		if cfg.uniqueness {
			if prev, taken := owner[best]; taken {
				return nil, &BareBasisCollisionError{First: prev, Second: b, Eigenstate: best}
			}
			owner[best] = b
		}
		idxs[b] = best
	}

	d.log.Debug().
		Float64("omega", omega).
		Ints("indexes", idxs).
		Msg("Classified bare basis states")
	return idxs, nil
}
