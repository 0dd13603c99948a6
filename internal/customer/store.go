package customer

import (
	"context"
	"time"
)

// Store is the port for customer persistence.
type Store interface {
	List(ctx context.Context, opts ListOptions) (customers []Customer, total int, err error)
	Get(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Update(ctx context.Context, id string, upd Update) (*Customer, error)
	AddAddress(ctx context.Context, id string, addr Address) (*Customer, error)

	// RecordOrder is the upsert the checkout workflow runs: an existing
	// customer (by email) gets totalOrders+1, totalSpent+total, and the
	// order ref appended; a new one is created from the contact block
	// with the delivery address marked default.
	RecordOrder(ctx context.Context, contact Contact, orderID string, total float64) (*Customer, error)

	// RevertOrder is RecordOrder's compensation: it removes the order
	// ref and subtracts the counters. A record created by the reverted
	// order is left in place.
	RevertOrder(ctx context.Context, email, orderID string, total float64) error

	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	TopBySpend(ctx context.Context, n int) ([]TopCustomer, error)
}
