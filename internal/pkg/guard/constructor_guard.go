// Package guard implements the constructor-guard pattern used by commands,
// queries, and value objects to reject zero-value instances that bypassed
// their designated constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is provided for a zero-value guard.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its
// constructor function. A zero-value guard fails validation, which lets
// domain objects detect direct struct initialization.
//
// Example:
//
//	type SyncOrdersCommand struct {
//	    guard guard.ConstructorGuard
//	}
//
//	func NewSyncOrdersCommand() SyncOrdersCommand {
//	    return SyncOrdersCommand{guard: guard.NewConstructorGuard()}
//	}
//
//	func (c SyncOrdersCommand) Validate() error {
//	    return c.guard.Validate(ErrSyncOrdersCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
