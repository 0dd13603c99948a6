package checkout

import (
	"context"
	"fmt"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/customer"
	"github.com/srrfarms/storefront/internal/order"
)

// --- persistOrderStep ---

// persistOrderStep durably stores the order, which also assigns the
// sequential order number and the final totals.
type persistOrderStep struct {
	orders order.Store
	order  *order.Order
}

func (s *persistOrderStep) Name() string { return "Persist_Order_Step" }

func (s *persistOrderStep) Execute(ctx context.Context) error {
	if err := s.orders.Create(ctx, s.order); err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	return nil
}

func (s *persistOrderStep) Compensate(ctx context.Context) error {
	return s.orders.Delete(ctx, s.order.ID)
}

// --- decrementStockStep ---

// decrementStockStep removes the ordered quantity from every product.
// Each decrement is conditional on sufficient stock, so a concurrent
// checkout that drained a product between validation and here surfaces
// as ErrInsufficientStock rather than negative stock.
type decrementStockStep struct {
	catalog catalog.Store
	items   []order.Item

	// done tracks lines already decremented, so a failure partway
	// through Execute restores exactly those.
	done []order.Item
}

func (s *decrementStockStep) Name() string { return "Decrement_Stock_Step" }

func (s *decrementStockStep) Execute(ctx context.Context) error {
	for _, it := range s.items {
		if err := s.catalog.RemoveStock(ctx, it.ProductID, it.Quantity); err != nil {
			// Undo this step's own partial work before reporting: the
			// orchestrator only compensates steps that completed.
			restoreErr := s.restore(ctx)
			if restoreErr != nil {
				return fmt.Errorf("decrement stock for %s: %w (restore also failed: %v)", it.Name, err, restoreErr)
			}
			return fmt.Errorf("decrement stock for %s: %w", it.Name, err)
		}
		s.done = append(s.done, it)
	}
	return nil
}

func (s *decrementStockStep) Compensate(ctx context.Context) error {
	return s.restore(ctx)
}

func (s *decrementStockStep) restore(ctx context.Context) error {
	var firstErr error
	for _, it := range s.done {
		if _, err := s.catalog.AddStock(ctx, it.ProductID, it.Quantity); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("restore stock for %s: %w", it.Name, err)
		}
	}
	s.done = nil
	return firstErr
}

// --- upsertCustomerStep ---

// upsertCustomerStep applies the order to the customer record keyed by
// email: existing customers get their counters bumped and the order ref
// appended, new ones are created from the order's contact snapshot.
// The computed order total is used, not the raw subtotal.
type upsertCustomerStep struct {
	customers customer.Store
	order     *order.Order
}

func (s *upsertCustomerStep) Name() string { return "Upsert_Customer_Step" }

func (s *upsertCustomerStep) Execute(ctx context.Context) error {
	_, err := s.customers.RecordOrder(ctx, customer.Contact{
		Name:    s.order.Customer.Name,
		Email:   s.order.Customer.Email,
		Phone:   s.order.Customer.Phone,
		Address: s.order.Customer.Address,
	}, s.order.ID, s.order.Total)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

func (s *upsertCustomerStep) Compensate(ctx context.Context) error {
	return s.customers.RevertOrder(ctx, s.order.Customer.Email, s.order.ID, s.order.Total)
}
