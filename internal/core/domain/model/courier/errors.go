package courier

import (
	"errors"
	"fmt"
)

// Sentinel errors for state machine violations. Callers classify with
// errors.Is; the concrete types carry the offending states for display.
var (
	ErrIllegalTransition = errors.New("illegal courier status transition")
	ErrAlreadyAssigned   = errors.New("order is already assigned to a courier")
)

// IllegalTransitionError reports an inbound event whose target state is not
// reachable from the current state.
type IllegalTransitionError struct {
	From Status
	To   Status
}

// NewIllegalTransitionError creates an IllegalTransitionError for the given pair.
func NewIllegalTransitionError(from, to Status) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}
