package repository

import "context"

// Store groups the repositories that share a database handle.
// Repositories obtained inside WithinTransaction are bound to that transaction.
type Store interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	Activities() ActivityRepository
	Users() UserRepository
	Notifications() NotificationRepository
	Results() ResultRepository

	// WithinTransaction runs fn in a database transaction, committing when fn returns nil
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}
