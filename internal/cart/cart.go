// Package cart is the platform-agnostic cart state module shared by
// client frontends: a tagged command set, a pure transition function,
// and pluggable persistence.
package cart

import (
	"fmt"

	"github.com/srrfarms/storefront/internal/catalog"
)

// Item is one cart line: a product snapshot and a quantity. The
// snapshot keeps the cart renderable without refetching the catalog;
// the server re-prices everything at checkout.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// State is the cart contents. Items keep insertion order.
type State struct {
	Items []Item `json:"items"`
}

// TotalItems is the sum of line quantities.
func (s State) TotalItems() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the sum of quantity times snapshot price per line.
func (s State) TotalPrice() float64 {
	total := 0.0
	for _, it := range s.Items {
		total += float64(it.Quantity) * it.Product.Price
	}
	return total
}

// Action is one cart mutation command. Exactly one concrete type per
// operation; Apply dispatches on the dynamic type.
type Action interface {
	isAction()
}

// AddItem inserts the product with quantity 1, or bumps the quantity
// if the product is already in the cart.
type AddItem struct {
	Product catalog.Product
}

// RemoveItem drops the line for a product id. Unknown ids are a no-op.
type RemoveItem struct {
	ProductID string
}

// SetQuantity replaces a line's quantity. Zero or negative removes the
// line.
type SetQuantity struct {
	ProductID string
	Quantity  int
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isAction()     {}
func (RemoveItem) isAction()  {}
func (SetQuantity) isAction() {}
func (Clear) isAction()       {}

// Apply returns the state after one action. The input state is never
// mutated; line order is preserved across quantity changes.
func Apply(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		next := cloneItems(s.Items)
		for i := range next {
			if next[i].Product.ID == a.Product.ID {
				next[i].Quantity++
				return State{Items: next}
			}
		}
		next = append(next, Item{Product: a.Product, Quantity: 1})
		return State{Items: next}
	case RemoveItem:
		return State{Items: withoutProduct(s.Items, a.ProductID)}
	case SetQuantity:
		if a.Quantity <= 0 {
			return State{Items: withoutProduct(s.Items, a.ProductID)}
		}
		next := cloneItems(s.Items)
		for i := range next {
			if next[i].Product.ID == a.ProductID {
				next[i].Quantity = a.Quantity
			}
		}
		return State{Items: next}
	case Clear:
		return State{}
	}
	panic(fmt.Sprintf("cart: unknown action %T", a))
}

func cloneItems(items []Item) []Item {
	next := make([]Item, len(items))
	copy(next, items)
	return next
}

func withoutProduct(items []Item, productID string) []Item {
	next := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Product.ID != productID {
			next = append(next, it)
		}
	}
	return next
}
