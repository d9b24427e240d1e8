// Package qubit models static superconducting qubits: operator construction
// on a truncated Hilbert space, Hamiltonian assembly per concrete variant,
// eigensystem computation with deterministic ordering and truncation, and
// spectral analysis in the resulting eigenbasis.
//
// A Model supplies the variant-specific pieces: its required parameters, its
// operator table and its static Hamiltonian. A Qubit owns the mutable state
// around a Model: the validated parameter copy, the operator table and the
// memoized eigensystem. The eigensystem is computed once per instance and
// reused until Invalidate, Reset or SetParam drops it; parameter mutation
// always goes through those methods, so the cache cannot silently go stale.
//
// Instances are single-writer. There is no internal locking and no
// cross-instance sharing; concurrent mutation of one instance is a caller
// bug.
//
// All energies and frequencies are in GHz unless scaled with the MHz and KHz
// constants.
package qubit
