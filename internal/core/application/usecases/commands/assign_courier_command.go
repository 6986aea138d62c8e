package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand requests handing one order to a courier network for
// delivery.
//
// Example:
//
//	cmd, err := NewAssignCourierCommand("#WC-59201", courier.Pathao)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); errors.Is(err, courier.ErrAlreadyAssigned) {
//	    // the order already has a courier
//	}
type AssignCourierCommand struct {
	orderID  string
	provider courier.Provider

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand creates a command to assign the given order to the
// given provider. The provider must be a concrete network, not None.
func NewAssignCourierCommand(orderID string, provider courier.Provider) (AssignCourierCommand, error) {
	if orderID == "" {
		return AssignCourierCommand{}, errs.NewValueIsRequiredError("order id")
	}
	if err := provider.Validate(); err != nil {
		return AssignCourierCommand{}, err
	}
	if provider == courier.None {
		return AssignCourierCommand{}, errs.NewValueIsRequiredError("provider")
	}

	return AssignCourierCommand{
		orderID:  orderID,
		provider: provider,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignCourierCommandIsNotConstructed if validation fails.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

// OrderID returns the external order number to assign.
func (c AssignCourierCommand) OrderID() string {
	return c.orderID
}

// Provider returns the chosen courier network.
func (c AssignCourierCommand) Provider() courier.Provider {
	return c.provider
}
