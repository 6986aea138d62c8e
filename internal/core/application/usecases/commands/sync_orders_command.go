package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrSyncOrdersCommandIsNotConstructed = errors.New(
	"SyncOrdersCommand must be created via NewSyncOrdersCommand constructor",
)

// SyncOrdersCommand triggers one reconciliation pass: pull the current order
// batch from the storefront and merge it into the order store. The command
// is parameterless; the storefront adapter decides the fetch window.
//
// Example:
//
//	cmd := NewSyncOrdersCommand()
//	report, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrSyncInProgress) {
//	    log.Println("another sync is running")
//	}
type SyncOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewSyncOrdersCommand creates a command to trigger order reconciliation.
func NewSyncOrdersCommand() SyncOrdersCommand {
	return SyncOrdersCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
// Returns ErrSyncOrdersCommandIsNotConstructed if validation fails.
func (c SyncOrdersCommand) Validate() error {
	return c.guard.Validate(ErrSyncOrdersCommandIsNotConstructed)
}
