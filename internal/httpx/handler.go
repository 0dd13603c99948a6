// Package httpx is the HTTP surface of the storefront: the JSON API
// for catalog, orders, customers, inventory, analytics, and outbound
// notifications.
package httpx

import (
	"github.com/srrfarms/storefront/internal/analytics"
	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/checkout"
	"github.com/srrfarms/storefront/internal/customer"
	"github.com/srrfarms/storefront/internal/inventory"
	"github.com/srrfarms/storefront/internal/notify"
	"github.com/srrfarms/storefront/internal/order"
)

// Handler holds every domain dependency the API routes need.
type Handler struct {
	Catalog   catalog.Store
	Customers customer.Store
	Orders    order.Store
	Checkout  *checkout.Service
	Analytics *analytics.Service
	Inventory *inventory.Service
	Notify    *notify.Service
}

func NewHandler(
	cat catalog.Store,
	cust customer.Store,
	ord order.Store,
	chk *checkout.Service,
	ana *analytics.Service,
	inv *inventory.Service,
	not *notify.Service,
) *Handler {
	return &Handler{
		Catalog:   cat,
		Customers: cust,
		Orders:    ord,
		Checkout:  chk,
		Analytics: ana,
		Inventory: inv,
		Notify:    not,
	}
}
