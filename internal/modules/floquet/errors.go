package floquet

import (
	"errors"
	"fmt"
)

// ErrMissingBareBasis is returned when a driven model's state table lacks
// the mandatory "bare_basis" collection.
var ErrMissingBareBasis = errors.New(`floquet: state table has no "bare_basis" collection`)

// BareBasisCollisionError reports two bare-basis states resolving to the
// same eigenstate index. Only surfaced when the uniqueness check is
// enabled; by default the classifier passes collisions through silently.
type BareBasisCollisionError struct {
	First      int
	Second     int
	Eigenstate int
}

func (e *BareBasisCollisionError) Error() string {
	return fmt.Sprintf("bare states %d and %d both map to eigenstate %d", e.First, e.Second, e.Eigenstate)
}
