package courier

import (
	"fulfillment/internal/pkg/errs"
)

// Assignment is the courier side of an order: which network carries the
// parcel and how far the delivery has progressed. It is embedded 1:1 in the
// order aggregate and starts out unassigned.
//
// Assignment is a value object with immutable semantics: Book and Apply
// return a new Assignment rather than mutating the receiver, so a failed
// transition can never leave a partially-updated value behind.
type Assignment struct {
	provider   Provider
	trackingID string
	status     Status
	riderName  string
	riderPhone string
	riderNote  string
}

// NewUnassigned creates the initial assignment state for a freshly
// ingested order.
func NewUnassigned() Assignment {
	return Assignment{provider: None, status: NotAssigned}
}

// RestoreAssignment reconstructs an Assignment from persistence.
func RestoreAssignment(
	provider Provider,
	trackingID string,
	status Status,
	riderName, riderPhone, riderNote string,
) (Assignment, error) {
	if err := provider.Validate(); err != nil {
		return Assignment{}, err
	}
	if err := status.Validate(); err != nil {
		return Assignment{}, err
	}
	if status != NotAssigned && provider == None {
		return Assignment{}, errs.NewValueIsInvalidError("assignment without provider")
	}

	return Assignment{
		provider:   provider,
		trackingID: trackingID,
		status:     status,
		riderName:  riderName,
		riderPhone: riderPhone,
		riderNote:  riderNote,
	}, nil
}

// Provider returns the courier network carrying the parcel, or None.
func (a Assignment) Provider() Provider { return a.provider }

// TrackingID returns the tracking identifier issued at booking time.
func (a Assignment) TrackingID() string { return a.trackingID }

// Status returns the current delivery status.
func (a Assignment) Status() Status { return a.status }

// RiderName returns the rider name from the latest event, possibly empty.
func (a Assignment) RiderName() string { return a.riderName }

// RiderPhone returns the rider phone from the latest event, possibly empty.
func (a Assignment) RiderPhone() string { return a.riderPhone }

// RiderNote returns the free-text rider note, possibly empty.
func (a Assignment) RiderNote() string { return a.riderNote }

// IsAssigned reports whether a courier has been chosen for the order.
func (a Assignment) IsAssigned() bool { return a.status != NotAssigned }

// Book records a confirmed booking with the given provider. The booking call
// to the courier network happens before this method: Book only commits the
// result, so the precondition must be re-checked here under the store lock.
//
// Returns ErrAlreadyAssigned when the order already has a courier.
func (a Assignment) Book(provider Provider, trackingID string) (Assignment, error) {
	if a.status != NotAssigned {
		return Assignment{}, ErrAlreadyAssigned
	}
	if err := provider.Validate(); err != nil {
		return Assignment{}, err
	}
	if provider == None {
		return Assignment{}, errs.NewValueIsRequiredError("provider")
	}
	if trackingID == "" {
		return Assignment{}, errs.NewValueIsRequiredError("trackingID")
	}

	booked := a
	booked.provider = provider
	booked.trackingID = trackingID
	booked.status = Requested
	return booked, nil
}

// Apply advances the assignment with an inbound status event.
//
// The returned bool reports whether the assignment changed: stale,
// duplicate, and post-terminal events return (a, false, nil) so webhook
// redelivery is harmless. Illegal events (see Status.CanApply) return an
// error and leave the assignment untouched.
func (a Assignment) Apply(event StatusEvent) (Assignment, bool, error) {
	if err := event.Validate(); err != nil {
		return a, false, err
	}

	ok, err := a.status.CanApply(event.Target)
	if err != nil {
		return a, false, err
	}
	if !ok {
		return a, false, nil
	}

	next := a
	next.status = event.Target
	if event.RiderName != "" {
		next.riderName = event.RiderName
	}
	if event.RiderPhone != "" {
		next.riderPhone = event.RiderPhone
	}
	if event.RiderNote != "" {
		next.riderNote = event.RiderNote
	}
	return next, true, nil
}
