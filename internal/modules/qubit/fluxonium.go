package qubit

import (
	"fmt"
	"math"

	"github.com/shoumikdc/practical-floquet/internal/cmat"
)

// Fluxonium models the fluxonium circuit in the harmonic basis of its linear
// part:
//
//	H = 4·Ec·n² + ½·El·φ² - Ej·cos(φ - φ_ext)
//
// with φ = (φ_osc/√2)·(a + a†), n = i/(√2·φ_osc)·(a† - a) and
// φ_osc = (8·Ec/El)^¼. The cosine is evaluated through the Hermitian
// function calculus on the shifted flux operator. An optional "cutoff"
// parameter enlarges the working dimension beyond N_max for accuracy; the
// eigensystem truncates back to N_max levels.
type Fluxonium struct{}

// NewFluxonium returns the fluxonium variant.
func NewFluxonium() *Fluxonium {
	return &Fluxonium{}
}

func (*Fluxonium) Name() string {
	return "fluxonium"
}

func (*Fluxonium) ExpectedParams() []string {
	return []string{"Ej", "Ec", "El", "phi_ext", "N_max"}
}

func (*Fluxonium) BuildOps(p Params) (OperatorTable, error) {
	n, err := p.Int("N_max")
	if err != nil {
		return nil, err
	}
	dim := n
	if _, ok := p.Lookup("cutoff"); ok {
		cutoff, err := p.Int("cutoff")
		if err != nil {
			return nil, err
		}
		if cutoff < n {
			return nil, fmt.Errorf("%w: cutoff %d cannot supply %d levels", ErrHamiltonianDimension, cutoff, n)
		}
		dim = cutoff
	}

	ec := p.Get("Ec")
	el := p.Get("El")
	if ec <= 0 || el <= 0 {
		return nil, fmt.Errorf("qubit: fluxonium requires Ec > 0 and El > 0, got Ec=%v El=%v", ec, el)
	}

	ops, err := BaseOps(dim)
	if err != nil {
		return nil, err
	}

	phiOsc := math.Pow(8*ec/el, 0.25)
	phi, err := Position(dim, phiOsc/math.Sqrt2)
	if err != nil {
		return nil, err
	}
	charge, err := Momentum(dim, 1/(math.Sqrt2*phiOsc))
	if err != nil {
		return nil, err
	}
	ops["phi"] = phi
	ops["n"] = charge
	return ops, nil
}

func (*Fluxonium) Hamiltonian(p Params, ops OperatorTable) (*cmat.Dense, error) {
	ej := p.Get("Ej")
	ec := p.Get("Ec")
	el := p.Get("El")
	phiExt := p.Get("phi_ext")

	phi, charge := ops["phi"], ops["n"]
	dim, _ := phi.Dims()

	linear := charge.Mul(charge).Scale(complex(4*ec, 0)).
		Add(phi.Mul(phi).Scale(complex(el/2, 0)))

	shifted := phi.Sub(cmat.Identity(dim).Scale(complex(phiExt, 0)))
	cosine, err := cmat.FuncHerm(shifted, math.Cos)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate cos(φ - φ_ext): %w", err)
	}

	return linear.Sub(cosine.Scale(complex(ej, 0))), nil
}
