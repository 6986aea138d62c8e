package courier

import (
	"time"

	"fulfillment/internal/pkg/errs"
)

// StatusEvent is a point update from a courier network, delivered by webhook
// or produced by diffing a tracking poll. Rider fields are optional: they are
// written through to the assignment only when present.
type StatusEvent struct {
	Target     Status
	TrackingID string
	RiderName  string
	RiderPhone string
	RiderNote  string
	OccurredAt time.Time
}

// Validate checks the event carries a status an adapter may legally report.
// NotAssigned is not a reportable status: courier networks cannot unassign.
func (e StatusEvent) Validate() error {
	if err := e.Target.Validate(); err != nil {
		return err
	}
	if e.Target == NotAssigned {
		return errs.NewValueIsInvalidError("event target status")
	}
	return nil
}
