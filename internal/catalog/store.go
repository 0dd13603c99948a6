package catalog

import "context"

// LowStockThreshold is the stock level at or below which a product is
// flagged on dashboards and alert emails.
const LowStockThreshold = 10

// Store is the port for product persistence. The Postgres implementation
// backs the running service; the memory implementation backs tests and
// the seed tooling.
type Store interface {
	List(ctx context.Context, opts ListOptions) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, upd Update) (*Product, error)

	// Deactivate soft-deletes: the record stays resolvable for past
	// orders but disappears from catalog reads.
	Deactivate(ctx context.Context, id string) error

	// SetStock replaces the absolute stock level and recomputes InStock.
	SetStock(ctx context.Context, id string, stock int) (*Product, error)

	// AddStock applies a relative restock and recomputes InStock.
	AddStock(ctx context.Context, id string, qty int) (*Product, error)

	// RemoveStock decrements stock by qty only if qty units are on hand,
	// returning ErrInsufficientStock otherwise. The check and the
	// decrement are a single atomic operation.
	RemoveStock(ctx context.Context, id string, qty int) error

	LowStock(ctx context.Context, threshold int) ([]Product, error)
	CountActive(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context, threshold int) (int, error)
}
