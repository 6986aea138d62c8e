package courier

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the delivery lifecycle state of a courier assignment.
// See the package documentation for the full transition diagram.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// NotAssigned is the initial status before any courier is chosen.
	NotAssigned

	// Requested means a booking was confirmed by the courier network
	// and a tracking identifier exists.
	Requested

	// PickedUp means the rider collected the parcel.
	PickedUp

	// InTransit means the parcel is moving through the courier network.
	InTransit

	// Delivered is the terminal success state.
	Delivered

	// Returned is the terminal failure state: the parcel came back.
	Returned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		NotAssigned:   "Not Assigned",
		Requested:     "Requested",
		PickedUp:      "Picked Up",
		InTransit:     "In Transit",
		Delivered:     "Delivered",
		Returned:      "Returned",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		NotAssigned: "Not Assigned",
		Requested:   "Requested",
		PickedUp:    "Picked Up",
		InTransit:   "In Transit",
		Delivered:   "Delivered",
		Returned:    "Returned",
	}
}

// StatusFromString parses the storefront/API representation of a status.
// An empty string maps to NotAssigned, matching records that predate
// courier integration.
func StatusFromString(s string) (Status, error) {
	if s == "" {
		return NotAssigned, nil
	}
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("courier status",
		fmt.Errorf("%q is not a known courier status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("courier status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Returned
}

// rank orders the forward delivery chain. Returned shares the terminal rank
// with Delivered: both end the lifecycle.
func (s Status) rank() int {
	switch s {
	case NotAssigned:
		return 0
	case Requested:
		return 1
	case PickedUp:
		return 2
	case InTransit:
		return 3
	case Delivered, Returned:
		return 4
	default:
		return -1
	}
}

// CanApply decides how an inbound status event targeting the given state is
// handled from the current state:
//
//   - (true, nil): the transition is legal and should be applied. Forward
//     moves may skip intermediate states, since a status poll can miss them.
//   - (false, nil): stale, duplicate, or post-terminal event; a no-op because
//     courier networks redeliver webhooks.
//   - (false, err): the event is illegal (unknown target, an event that
//     would unassign, or an event for an order that was never assigned).
func (s Status) CanApply(target Status) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}
	if target == NotAssigned {
		return false, NewIllegalTransitionError(s, target)
	}
	if s == NotAssigned {
		return false, NewIllegalTransitionError(s, target)
	}
	if s.IsTerminal() || target == s {
		return false, nil
	}
	if target == Returned {
		return true, nil
	}
	if target.rank() > s.rank() {
		return true, nil
	}
	return false, nil
}
