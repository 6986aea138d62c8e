package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each operation.
// This ensures proper isolation between concurrent operations: the sync
// loop, the assignment handler, and webhook consumers each work in their
// own transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Client code must
// explicitly manage the transaction lifecycle, and must never hold an open
// transaction across an external adapter call.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current
	// transaction. Row locks taken via GetForUpdate are held until
	// Commit or Rollback.
	OrderRepository() OrderRepository
}
