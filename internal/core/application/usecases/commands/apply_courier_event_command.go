package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrApplyCourierEventCommandIsNotConstructed = errors.New(
	"ApplyCourierEventCommand must be created via NewApplyCourierEventCommand constructor",
)

// ApplyCourierEventCommand carries one inbound courier status event for one
// order, decoded from a webhook or produced by a tracking poll.
type ApplyCourierEventCommand struct {
	orderID string
	event   courier.StatusEvent

	guard guard.ConstructorGuard
}

// NewApplyCourierEventCommand creates a command to apply a status event.
func NewApplyCourierEventCommand(orderID string, event courier.StatusEvent) (ApplyCourierEventCommand, error) {
	if orderID == "" {
		return ApplyCourierEventCommand{}, errs.NewValueIsRequiredError("order id")
	}
	if err := event.Validate(); err != nil {
		return ApplyCourierEventCommand{}, err
	}

	return ApplyCourierEventCommand{
		orderID: orderID,
		event:   event,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApplyCourierEventCommandIsNotConstructed if validation fails.
func (c ApplyCourierEventCommand) Validate() error {
	return c.guard.Validate(ErrApplyCourierEventCommandIsNotConstructed)
}

// OrderID returns the external order number the event belongs to.
func (c ApplyCourierEventCommand) OrderID() string {
	return c.orderID
}

// Event returns the status event to apply.
func (c ApplyCourierEventCommand) Event() courier.StatusEvent {
	return c.event
}
