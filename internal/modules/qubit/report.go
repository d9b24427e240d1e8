package qubit

import "fmt"

// Report holds the headline spectral quantities of a qubit, both in GHz.
type Report struct {
	Omega01       float64
	Anharmonicity float64
}

// Report computes the 0→1 transition frequency ω01 = E1 − E0 and the
// anharmonicity α = E2 + E0 − 2·E1 from the cached eigenvalues and logs
// them. At least three retained levels are required; N_max below that fails
// with ErrInsufficientSpectrum without touching the instance.
func (q *Qubit) Report() (Report, error) {
	eig, err := q.EigSystem()
	if err != nil {
		return Report{}, err
	}
	if len(eig.Vals) < 3 {
		return Report{}, fmt.Errorf("%w: have %d", ErrInsufficientSpectrum, len(eig.Vals))
	}

	omega01 := eig.Vals[1] - eig.Vals[0]
	anharm := eig.Vals[2] + eig.Vals[0] - 2*eig.Vals[1]

	q.log.Info().
		Float64("omega01_ghz", omega01/GHz).
		Float64("anharmonicity_mhz", anharm/MHz).
		Msg("Qubit report")
	return Report{Omega01: omega01, Anharmonicity: anharm}, nil
}
