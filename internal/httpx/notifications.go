package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/order"
)

// SendOrderConfirmation emails the confirmation for an order looked up
// by id. The server resolves the order itself rather than trusting an
// order payload from the client.
func (h *Handler) SendOrderConfirmation(w http.ResponseWriter, r *http.Request) {
	o, ok := h.loadNotifyOrder(w, r)
	if !ok {
		return
	}
	if err := h.Notify.OrderConfirmation(r.Context(), o); err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondMessage(w, http.StatusOK, "Order confirmation sent")
}

// SendStatusUpdate emails the customer about a status change. The
// status in the body may differ from the stored one so an update can
// be announced before or after the transition is applied.
func (h *Handler) SendStatusUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID string       `json:"orderId"`
		Status  order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	if body.OrderID == "" {
		respondBadRequest(w, "orderId is required")
		return
	}

	o, err := h.Orders.Get(r.Context(), body.OrderID)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	status := body.Status
	if status == "" {
		status = o.Status
	}
	if !status.Valid() {
		respondBadRequest(w, "Invalid status")
		return
	}

	if err := h.Notify.StatusUpdate(r.Context(), o, status); err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondMessage(w, http.StatusOK, "Status update sent")
}

// SendLowStockAlert emails the admin the current low-stock list.
func (h *Handler) SendLowStockAlert(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.LowStock(r.Context(), catalog.LowStockThreshold)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	if len(products) == 0 {
		respondMessage(w, http.StatusOK, "No products below threshold")
		return
	}
	if err := h.Notify.LowStock(r.Context(), products); err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondMessage(w, http.StatusOK, "Low stock alert sent")
}

func (h *Handler) loadNotifyOrder(w http.ResponseWriter, r *http.Request) (*order.Order, bool) {
	var body struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return nil, false
	}
	if body.OrderID == "" {
		respondBadRequest(w, "orderId is required")
		return nil, false
	}
	o, err := h.Orders.Get(r.Context(), body.OrderID)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return nil, false
	}
	return o, true
}
