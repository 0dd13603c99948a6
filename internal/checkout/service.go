// Package checkout implements the order-creation workflow: stock
// validation, total computation, and the saga that keeps the order
// insert, stock decrement, and customer upsert consistent.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/customer"
	"github.com/srrfarms/storefront/internal/order"
	"github.com/srrfarms/storefront/internal/pkg/cache"
	"github.com/srrfarms/storefront/internal/saga"
	"github.com/srrfarms/storefront/internal/saga/sagalog"
)

// ValidationError rejects a checkout request before any write happens.
// The message names the offending product or field and is surfaced
// verbatim to the client.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a request-validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ItemRequest is one requested line: a product and a quantity.
type ItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Request is a checkout submission.
type Request struct {
	Customer order.Contact `json:"customer"`
	Items    []ItemRequest `json:"items"`
	Notes    string        `json:"notes,omitempty"`
}

// Service runs checkouts against the three stores. Log and Cache may be
// nil: a nil Log skips the saga audit trail, a nil Cache disables
// idempotency-key replay.
type Service struct {
	Catalog   catalog.Store
	Customers customer.Store
	Orders    order.Store
	Log       sagalog.Repository
	Cache     cache.Cache
}

// CreateOrder validates the request, computes totals at current catalog
// prices, and runs the persist/decrement/upsert saga. Any validation
// failure aborts before a single write; any step failure compensates
// the steps already done, so the stores never hold a partial checkout.
//
// idemKey, when non-empty, replays a previously completed checkout
// instead of creating a duplicate order.
func (s *Service) CreateOrder(ctx context.Context, req Request, idemKey string) (*order.Order, error) {
	if existing, ok := s.replay(ctx, idemKey); ok {
		return existing, nil
	}

	if err := validateContact(req.Customer); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, validationf("at least one item is required")
	}

	// Validation pass: resolve every product and check stock before
	// anything is written. Prices are captured here, at order time.
	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, validationf("quantity must be at least 1 for product %s", it.ProductID)
		}
		p, err := s.Catalog.Get(ctx, it.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, validationf("Product not found: %s", it.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("checkout: resolve product %s: %w", it.ProductID, err)
		}
		if p.Stock < it.Quantity {
			return nil, validationf("Insufficient stock for %s", p.Name)
		}
		items = append(items, order.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			Price:     p.Price,
			Total:     p.Price * float64(it.Quantity),
		})
	}

	o := &order.Order{
		ID:       uuid.NewString(),
		Customer: req.Customer,
		Items:    items,
		Notes:    req.Notes,
	}

	steps := []saga.Step{
		&persistOrderStep{orders: s.Orders, order: o},
		&decrementStockStep{catalog: s.Catalog, items: items},
		&upsertCustomerStep{customers: s.Customers, order: o},
	}

	// The order id doubles as the saga id so the log joins with
	// business data and the trace.
	if err := saga.NewOrchestrator(o.ID, steps, s.Log).Start(ctx, req); err != nil {
		return nil, err
	}

	s.remember(ctx, idemKey, o.ID)
	return o, nil
}

// replay resolves an idempotency key to the order it created, if any.
func (s *Service) replay(ctx context.Context, idemKey string) (*order.Order, bool) {
	if idemKey == "" || s.Cache == nil {
		return nil, false
	}
	orderID, err := s.Cache.Get(ctx, s.Cache.GenerateKey("checkout", idemKey))
	if err != nil || orderID == "" {
		return nil, false
	}
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, false
	}
	slog.InfoContext(ctx, "checkout replayed from idempotency key", "order_id", orderID)
	return o, true
}

func (s *Service) remember(ctx context.Context, idemKey, orderID string) {
	if idemKey == "" || s.Cache == nil {
		return
	}
	key := s.Cache.GenerateKey("checkout", idemKey)
	if err := s.Cache.Set(ctx, key, orderID, cache.TTLIdempotency); err != nil {
		slog.WarnContext(ctx, "idempotency key store failed", "error", err)
	}
}

func validateContact(c order.Contact) error {
	switch {
	case c.Name == "":
		return validationf("customer name is required")
	case c.Email == "":
		return validationf("customer email is required")
	case c.Phone == "":
		return validationf("customer phone is required")
	case c.Address == "":
		return validationf("customer address is required")
	}
	return nil
}
