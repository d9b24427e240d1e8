package floquet

import (
	"fmt"

	"github.com/shoumikdc/practical-floquet/internal/cmat"
	"github.com/shoumikdc/practical-floquet/internal/modules/qubit"
)

// QuasiEnergyOperator assembles the static effective Hamiltonian of a
// periodically driven qubit on the extended space (qubit eigenbasis ⊗
// drive charge basis):
//
//	H_eff(ω, Ω) = diag(E) ⊗ I_M + I_N ⊗ ω·diag(m) + (Ω/2)·n_eig ⊗ hop
//
// where E are the retained qubit eigenvalues, m runs -M_max..+M_max,
// n_eig is the drive coupling rotated into the qubit eigenbasis and hop
// raises or lowers the drive charge by one. Composite index α·M+(m+M_max)
// pairs qubit level α with drive charge m.
type QuasiEnergyOperator struct {
	q        *qubit.Qubit
	coupling *cmat.Dense
	mmax     int
}

// NewQuasiEnergyOperator wires the operator to a qubit and its drive
// coupling on the qubit working space.
func NewQuasiEnergyOperator(q *qubit.Qubit, coupling *cmat.Dense, mmax int) *QuasiEnergyOperator {
	return &QuasiEnergyOperator{q: q, coupling: coupling, mmax: mmax}
}

// HEff builds the effective Hamiltonian at drive frequency omega and
// amplitude. A zero amplitude skips the coupling transform entirely, which
// keeps zero-drive classification cheap.
func (qe *QuasiEnergyOperator) HEff(omega, amplitude float64) (*cmat.Dense, error) {
	eig, err := qe.q.EigSystem()
	if err != nil {
		return nil, fmt.Errorf("failed to diagonalize qubit: %w", err)
	}
	n := len(eig.Vals)
	m := 2*qe.mmax + 1

	energies := make([]complex128, n)
	for i, e := range eig.Vals {
		energies[i] = complex(e, 0)
	}
	charges := make([]complex128, m)
	for k := range charges {
		charges[k] = complex(omega*float64(k-qe.mmax), 0)
	}

	h := cmat.Diag(energies).Kron(cmat.Identity(m))
	h = h.Add(cmat.Identity(n).Kron(cmat.Diag(charges)))

	if amplitude != 0 {
		nEig, err := qe.q.OpInEigenbasis(qe.coupling)
		if err != nil {
			return nil, fmt.Errorf("failed to transform drive coupling: %w", err)
		}
		h = h.Add(nEig.Kron(chargeHop(m)).Scale(complex(amplitude/2, 0)))
	}
	return h, nil
}

// chargeHop returns the m×m nearest-neighbor hop with unit amplitude on
// the sub- and superdiagonal.
func chargeHop(m int) *cmat.Dense {
	hop := cmat.New(m, m)
	for k := 0; k+1 < m; k++ {
		hop.Set(k, k+1, 1)
		hop.Set(k+1, k, 1)
	}
	return hop
}

// DrivenQubit is the stock driven model: one qubit under a single
// monochromatic drive. Its bare basis pairs every retained qubit level
// with drive charge zero.
type DrivenQubit struct{}

// NewDrivenQubit returns the stock driven variant.
func NewDrivenQubit() *DrivenQubit {
	return &DrivenQubit{}
}

func (*DrivenQubit) Name() string {
	return "driven_qubit"
}

func (*DrivenQubit) ExpectedParams() []string {
	return []string{"M_max"}
}

// BuildOpsAndStates rotates the drive coupling into the qubit eigenbasis
// and lays out the bare reference states on the composite space.
func (*DrivenQubit) BuildOpsAndStates(d *Driven) (qubit.OperatorTable, StateTable, error) {
	q := d.Qubit()

	nEig, err := q.OpInEigenbasis(d.DriveCoupling())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to transform drive coupling: %w", err)
	}
	ops := qubit.OperatorTable{"drive_coupling_eigenbasis": nEig}

	n := q.TruncationSize()
	m := d.DriveDimension()
	bare := make([][]complex128, n)
	for alpha := 0; alpha < n; alpha++ {
		bare[alpha] = cmat.UnitVector(n*m, alpha*m+d.MMax())
	}
	states := StateTable{"bare_basis": bare}
	return ops, states, nil
}
