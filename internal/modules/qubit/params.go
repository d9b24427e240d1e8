package qubit

import (
	"fmt"
	"math"
)

// Unit scale factors. Every energy and frequency in this package is a plain
// number in GHz; multiply by MHz or KHz to express smaller scales.
const (
	GHz = 1.0
	MHz = 1e-3
	KHz = 1e-6
)

// Params maps parameter names to numeric values. Which keys are required is
// declared per Model; extra keys are allowed and preserved.
type Params map[string]float64

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Has reports whether name is present.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Get returns the value of name, or zero when absent. Use after required-key
// validation, or Lookup for optional parameters.
func (p Params) Get(name string) float64 {
	return p[name]
}

// Lookup returns the value of name and whether it was present.
func (p Params) Lookup(name string) (float64, bool) {
	v, ok := p[name]
	return v, ok
}

// Int extracts an integer-valued parameter such as a truncation size.
// Fractional, NaN or infinite values fail with ErrInvalidTruncation.
func (p Params) Int(name string) (int, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("qubit: parameter %q is not set", name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s = %v", ErrInvalidTruncation, name, v)
	}
	return int(v), nil
}
