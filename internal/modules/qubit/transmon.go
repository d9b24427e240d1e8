package qubit

import (
	"fmt"

	"github.com/shoumikdc/practical-floquet/internal/cmat"
)

// Transmon models a charge qubit in the transmon regime, expressed in the
// charge basis n ∈ -ncut..+ncut:
//
//	H = Σ 4·Ec·(n - ng)²·|n⟩⟨n| - (Ej/2)·Σ (|n+1⟩⟨n| + |n⟩⟨n+1|)
//
// The working dimension 2·ncut+1 generally exceeds N_max; the eigensystem
// keeps the lowest N_max levels of the larger space. In the transmon regime
// (Ej/Ec ≳ 50) the spectrum approaches ω01 ≈ √(8·Ej·Ec) - Ec with
// anharmonicity ≈ -Ec, nearly independent of the offset charge ng.
type Transmon struct{}

// NewTransmon returns the transmon variant.
func NewTransmon() *Transmon {
	return &Transmon{}
}

func (*Transmon) Name() string {
	return "transmon"
}

func (*Transmon) ExpectedParams() []string {
	return []string{"Ej", "Ec", "ng", "ncut", "N_max"}
}

func (*Transmon) BuildOps(p Params) (OperatorTable, error) {
	n, err := p.Int("N_max")
	if err != nil {
		return nil, err
	}
	ncut, err := p.Int("ncut")
	if err != nil {
		return nil, err
	}
	if ncut < 1 {
		return nil, fmt.Errorf("%w: ncut = %d", ErrInvalidTruncation, ncut)
	}
	dim := 2*ncut + 1
	if dim < n {
		return nil, fmt.Errorf("%w: charge basis dimension %d cannot supply %d levels", ErrHamiltonianDimension, dim, n)
	}

	// Charge number operator, diagonal -ncut..+ncut.
	charge := cmat.New(dim, dim)
	for k := 0; k < dim; k++ {
		charge.Set(k, k, complex(float64(k-ncut), 0))
	}

	// cos φ couples neighboring charge states with amplitude ½.
	cosPhi := cmat.New(dim, dim)
	for k := 0; k < dim-1; k++ {
		cosPhi.Set(k+1, k, 0.5)
		cosPhi.Set(k, k+1, 0.5)
	}

	return OperatorTable{"n": charge, "cos_phi": cosPhi}, nil
}

func (*Transmon) Hamiltonian(p Params, ops OperatorTable) (*cmat.Dense, error) {
	ej := p.Get("Ej")
	ec := p.Get("Ec")
	ng := p.Get("ng")
	if ec <= 0 {
		return nil, fmt.Errorf("qubit: transmon requires Ec > 0, got %v", ec)
	}

	charge, cosPhi := ops["n"], ops["cos_phi"]
	dim, _ := charge.Dims()

	shifted := charge.Sub(cmat.Identity(dim).Scale(complex(ng, 0)))
	kinetic := shifted.Mul(shifted).Scale(complex(4*ec, 0))
	return kinetic.Sub(cosPhi.Scale(complex(ej, 0))), nil
}
