package qubit

import "github.com/shoumikdc/practical-floquet/internal/cmat"

// HarmonicOscillator models a linear resonator, H = ω·(a†a + ½). Its evenly
// spaced spectrum (zero anharmonicity) makes it the analytic anchor for the
// rest of the package.
type HarmonicOscillator struct{}

// NewHarmonicOscillator returns the harmonic oscillator variant.
func NewHarmonicOscillator() *HarmonicOscillator {
	return &HarmonicOscillator{}
}

func (*HarmonicOscillator) Name() string {
	return "harmonic_oscillator"
}

func (*HarmonicOscillator) ExpectedParams() []string {
	return []string{"omega", "N_max"}
}

func (*HarmonicOscillator) BuildOps(p Params) (OperatorTable, error) {
	n, err := p.Int("N_max")
	if err != nil {
		return nil, err
	}
	return BaseOps(n)
}

func (*HarmonicOscillator) Hamiltonian(p Params, ops OperatorTable) (*cmat.Dense, error) {
	omega := p.Get("omega")
	aDag, a := ops["a_dag"], ops["a"]
	n, _ := a.Dims()

	h := aDag.Mul(a).Add(cmat.Identity(n).Scale(0.5))
	return h.Scale(complex(omega, 0)), nil
}
