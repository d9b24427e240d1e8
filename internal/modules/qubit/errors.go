package qubit

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientSpectrum is returned by Report when fewer than three
	// eigenvalues are retained; the call fails, the instance stays usable.
	ErrInsufficientSpectrum = errors.New("qubit: spectral report needs at least 3 retained eigenvalues")

	// ErrInvalidTruncation is returned when an integer-valued truncation
	// parameter is fractional, non-positive or otherwise unusable.
	ErrInvalidTruncation = errors.New("qubit: truncation parameter must be a positive integer")

	// ErrHamiltonianDimension is returned when the Hamiltonian working
	// dimension cannot supply N_max levels. Oversized working spaces are
	// fine and truncate; undersized ones fail instead of silently
	// shortening the spectrum.
	ErrHamiltonianDimension = errors.New("qubit: hamiltonian dimension is below the truncation size")
)

// MissingParameterError reports a required parameter that was absent when a
// qubit or driven system was constructed. Validation walks the declared
// parameter list in order and names the first missing key.
type MissingParameterError struct {
	Model string
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q for model %s", e.Param, e.Model)
}

// DimensionMismatchError reports an operator whose shape is incompatible
// with the change-of-basis matrix.
type DimensionMismatchError struct {
	Rows int
	Cols int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("operator is %dx%d but the eigenbasis transform needs %dx%d", e.Rows, e.Cols, e.Want, e.Want)
}
