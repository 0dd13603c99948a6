package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/srrfarms/storefront/internal/httpx/middlewares"
)

// NewRouter wires the full API under /api.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.AttachMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", handler.ListProducts)
			r.Post("/", handler.CreateProduct)
			r.Get("/{id}", handler.GetProduct)
			r.Put("/{id}", handler.UpdateProduct)
			r.Delete("/{id}", handler.DeleteProduct)
			r.Put("/{id}/stock", handler.SetProductStock)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", handler.CreateOrder)
			r.Get("/", handler.ListOrders)
			r.Get("/{id}", handler.GetOrder)
			r.Put("/{id}/status", handler.UpdateOrderStatus)
			r.Get("/customer/{email}", handler.ListOrdersByCustomer)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", handler.ListCustomers)
			// The stats route is registered before {id} so "stats"
			// never resolves as a customer id.
			r.Get("/stats/overview", handler.CustomerStats)
			r.Get("/email/{email}", handler.GetCustomerByEmail)
			r.Get("/{id}", handler.GetCustomer)
			r.Put("/{id}", handler.UpdateCustomer)
			r.Post("/{id}/addresses", handler.AddCustomerAddress)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", handler.InventoryOverview)
			r.Get("/alerts", handler.InventoryAlerts)
			r.Put("/{id}/restock", handler.RestockProduct)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", handler.AnalyticsDashboard)
			r.Get("/sales", handler.AnalyticsSales)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/order-confirmation", handler.SendOrderConfirmation)
			r.Post("/status-update", handler.SendStatusUpdate)
			r.Post("/low-stock", handler.SendLowStockAlert)
		})
	})

	return r
}
