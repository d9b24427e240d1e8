package qubit

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shoumikdc/practical-floquet/internal/cmat"
	"github.com/shoumikdc/practical-floquet/internal/utils"
)

// Model defines a concrete qubit variant. Implementations are stateless;
// all mutable state lives on the Qubit that wraps them.
type Model interface {
	// Name identifies the variant in logs, errors and cache keys.
	Name() string

	// ExpectedParams lists the required parameter names for the variant,
	// in the order construction validates them. Every variant includes
	// "N_max", the truncation size.
	ExpectedParams() []string

	// BuildOps constructs the operator table for a validated parameter set.
	BuildOps(p Params) (OperatorTable, error)

	// Hamiltonian assembles the static Hamiltonian from the table and the
	// parameters. The result must be Hermitian; its working dimension may
	// exceed N_max but never fall below it.
	Hamiltonian(p Params, ops OperatorTable) (*cmat.Dense, error)
}

// EigenSystem is the sorted, truncated eigendecomposition of the qubit
// Hamiltonian. Vals is ascending with exactly N_max entries; column i of
// Vecs is the eigenvector of Vals[i] on the working space.
type EigenSystem struct {
	Vals []float64
	Vecs *cmat.Dense
}

// Qubit owns the mutable state around a Model: the parameter copy, the
// operator table and the memoized eigensystem. Instances are single-writer;
// see the package documentation.
type Qubit struct {
	model  Model
	params Params
	n      int
	ops    OperatorTable
	eig    *EigenSystem
	log    zerolog.Logger
}

// New validates the parameter set against the model's declared requirements,
// builds the operator table and returns a ready instance. The first missing
// required key fails with a MissingParameterError.
func New(model Model, params Params, log zerolog.Logger) (*Qubit, error) {
	q := &Qubit{
		model: model,
		log:   log.With().Str("component", "qubit").Str("model", model.Name()).Logger(),
	}
	if err := q.apply(params); err != nil {
		return nil, err
	}
	q.log.Debug().
		Int("n_max", q.n).
		Int("num_ops", len(q.ops)).
		Msg("Constructed qubit")
	return q, nil
}

// apply validates params, rebuilds the operator table and commits the new
// state. Nothing is mutated until every validation has passed.
func (q *Qubit) apply(params Params) error {
	for _, name := range q.model.ExpectedParams() {
		if !params.Has(name) {
			return &MissingParameterError{Model: q.model.Name(), Param: name}
		}
	}
	if !params.Has("N_max") {
		return &MissingParameterError{Model: q.model.Name(), Param: "N_max"}
	}
	n, err := params.Int("N_max")
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("%w: N_max = %d", ErrInvalidTruncation, n)
	}

	copied := params.Clone()
	ops, err := q.model.BuildOps(copied)
	if err != nil {
		return fmt.Errorf("failed to build operator table: %w", err)
	}

	q.params = copied
	q.n = n
	q.ops = ops
	q.eig = nil
	return nil
}

// Model returns the variant this instance wraps.
func (q *Qubit) Model() Model {
	return q.model
}

// Params returns a copy of the current parameter set.
func (q *Qubit) Params() Params {
	return q.params.Clone()
}

// TruncationSize returns N_max, the number of retained eigenpairs.
func (q *Qubit) TruncationSize() int {
	return q.n
}

// Op returns the named operator from the table.
func (q *Qubit) Op(name string) (*cmat.Dense, bool) {
	op, ok := q.ops[name]
	return op, ok
}

// Hamiltonian rebuilds the static Hamiltonian from the operator table and
// the current parameters. The matrix itself is never cached; only its
// eigensystem is.
func (q *Qubit) Hamiltonian() (*cmat.Dense, error) {
	h, err := q.model.Hamiltonian(q.params, q.ops)
	if err != nil {
		return nil, fmt.Errorf("failed to build hamiltonian: %w", err)
	}
	return h, nil
}

// EigSystem diagonalizes the Hamiltonian on first access and memoizes the
// sorted, truncated result. Repeated calls return the identical cached
// value until Invalidate, Reset or SetParam drops it.
func (q *Qubit) EigSystem() (*EigenSystem, error) {
	if q.eig != nil {
		return q.eig, nil
	}
	defer utils.OperationTimer("diagonalize_hamiltonian", q.log)()

	h, err := q.Hamiltonian()
	if err != nil {
		return nil, err
	}
	d, _ := h.Dims()
	if d < q.n {
		return nil, fmt.Errorf("%w: hamiltonian is %dx%d, need %d levels", ErrHamiltonianDimension, d, d, q.n)
	}

	eig, err := cmat.EigenHerm(h)
	if err != nil {
		return nil, fmt.Errorf("failed to diagonalize hamiltonian: %w", err)
	}

	vals := make([]float64, q.n)
	copy(vals, eig.Vals)
	q.eig = &EigenSystem{
		Vals: vals,
		Vecs: eig.Vecs.SliceCols(0, q.n),
	}

	q.log.Debug().
		Int("dim", d).
		Int("levels", q.n).
		Msg("Diagonalized hamiltonian")
	return q.eig, nil
}

// Ud returns the unitary change-of-basis matrix whose i-th column is the
// i-th sorted eigenvector. Derived from the cached eigensystem on each call;
// mutating the returned matrix does not touch the cache.
func (q *Qubit) Ud() (*cmat.Dense, error) {
	eig, err := q.EigSystem()
	if err != nil {
		return nil, err
	}
	return eig.Vecs.Clone(), nil
}

// OpInEigenbasis returns Ud†·op·Ud with decomposition noise tidied away.
// op must be square on the Hamiltonian working space; anything else fails
// with a DimensionMismatchError. The operator table is never mutated.
func (q *Qubit) OpInEigenbasis(op *cmat.Dense) (*cmat.Dense, error) {
	eig, err := q.EigSystem()
	if err != nil {
		return nil, err
	}
	d, _ := eig.Vecs.Dims()
	r, c := op.Dims()
	if r != d || c != d {
		return nil, &DimensionMismatchError{Rows: r, Cols: c, Want: d}
	}
	return eig.Vecs.Dagger().Mul(op).Mul(eig.Vecs).Tidy(0), nil
}

// Invalidate drops the cached eigensystem; the next access recomputes it.
func (q *Qubit) Invalidate() {
	q.eig = nil
}

// Reset replaces the parameter set, rebuilds the operator table and
// invalidates the cached eigensystem. The instance is unchanged when
// validation fails.
func (q *Qubit) Reset(params Params) error {
	if err := q.apply(params); err != nil {
		return err
	}
	q.log.Debug().Msg("Reset qubit parameters")
	return nil
}

// SetParam updates a single parameter through Reset, so the operator table
// and eigensystem can never go stale against it.
func (q *Qubit) SetParam(name string, value float64) error {
	p := q.params.Clone()
	p[name] = value
	return q.Reset(p)
}
