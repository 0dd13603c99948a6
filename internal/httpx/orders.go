package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/srrfarms/storefront/internal/checkout"
	"github.com/srrfarms/storefront/internal/httpx/middlewares"
	"github.com/srrfarms/storefront/internal/order"
)

// CreateOrder runs the checkout workflow. Validation and stock failures
// come back 400 with the reason; success is 201 with the stored order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}

	idemKey := middlewares.IdempotencyKey(r.Context())
	requestID := middlewares.RequestID(r.Context())
	slog.InfoContext(r.Context(), "creating order", "request_id", requestID, "customer_email", req.Customer.Email)

	o, err := h.Checkout.CreateOrder(r.Context(), req, idemKey)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	if h.Notify != nil {
		// Detached from the request context so the response is not
		// held up by SMTP; a failed email never fails the order.
		notifyCtx := context.WithoutCancel(r.Context())
		go func() {
			if err := h.Notify.OrderConfirmation(notifyCtx, o); err != nil {
				slog.WarnContext(notifyCtx, "order confirmation email failed", "order_id", o.ID, "error", err)
			}
		}()
	}

	respondData(w, http.StatusCreated, o)
}

// ListOrders is the admin order list with status filter and pagination.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := order.ListOptions{
		Status: order.Status(q.Get("status")),
		Limit:  50,
		Page:   1,
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondBadRequest(w, "invalid limit")
			return
		}
		opts.Limit = n
	}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondBadRequest(w, "invalid page")
			return
		}
		opts.Page = n
	}
	if opts.Status != "" && !opts.Status.Valid() {
		respondBadRequest(w, "Invalid status")
		return
	}

	orders, total, err := h.Orders.List(r.Context(), opts)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	respondPage(w, orders, len(orders), total, opts.Page, opts.Limit)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondData(w, http.StatusOK, o)
}

// UpdateOrderStatus moves an order through fulfillment, optionally
// attaching a tracking number. A status-update email goes out on
// success.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status         order.Status `json:"status"`
		TrackingNumber string       `json:"trackingNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	if !body.Status.Valid() {
		respondBadRequest(w, "Invalid status")
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status, body.TrackingNumber)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	if h.Notify != nil {
		notifyCtx := context.WithoutCancel(r.Context())
		go func() {
			if err := h.Notify.StatusUpdate(notifyCtx, o, o.Status); err != nil {
				slog.WarnContext(notifyCtx, "status update email failed", "order_id", o.ID, "error", err)
			}
		}()
	}

	respondData(w, http.StatusOK, o)
}

// ListOrdersByCustomer returns every order placed under an email.
func (h *Handler) ListOrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	respondCount(w, http.StatusOK, orders, len(orders))
}
