package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions.
// Repositories called with the ctx passed to fn join the transaction.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

// Store bundles one storage backend's repositories
type Store struct {
	Cabinets    CabinetRepository
	Memberships DocumentCabinetRepository
	Documents   DocumentRepository
	Access      AccessRepository
	Events      EventRepository
	Tx          TransactionManager

	// Migrate creates the schema (idempotent)
	Migrate func(ctx context.Context) error

	// Reset drops every table of the backend
	Reset func(ctx context.Context) error

	// Close releases the backend's connections
	Close func()
}
