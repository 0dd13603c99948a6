package order

import (
	"context"
	"time"
)

// Store is the port for order persistence plus the read aggregations the
// analytics module derives from it.
type Store interface {
	// Create persists the order and assigns its id, order number, and
	// timestamps. A preset CreatedAt is respected so fixtures can
	// backdate orders.
	Create(ctx context.Context, o *Order) error

	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, opts ListOptions) (orders []Order, total int, err error)
	ListByEmail(ctx context.Context, email string) ([]Order, error)

	// UpdateStatus sets the fulfillment status, optionally attaching a
	// tracking number. Moving to delivered stamps DeliveredAt.
	UpdateStatus(ctx context.Context, id string, status Status, trackingNumber string) (*Order, error)

	// Delete removes an order outright. Only the checkout saga's
	// compensation path uses it; there is no HTTP surface for it.
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
	CountBetween(ctx context.Context, from, to time.Time) (int, error)

	// Revenue sums order totals excluding cancelled orders. A zero
	// since means all time.
	Revenue(ctx context.Context, since time.Time) (float64, error)

	TopProducts(ctx context.Context, n int) ([]ProductSales, error)
	Recent(ctx context.Context, n int) ([]Order, error)

	// SalesByDay buckets non-cancelled orders by calendar day (UTC)
	// from since onward, sorted chronologically.
	SalesByDay(ctx context.Context, since time.Time) ([]DailySales, error)
}
