package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/srrfarms/storefront/internal/customer"
)

// ListCustomers is the admin customer list with free-text search over
// name, email, and phone.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := customer.ListOptions{
		Search: q.Get("search"),
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

	customers, total, err := h.Customers.List(r.Context(), opts)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	if customers == nil {
		customers = []customer.Customer{}
	}
	respondPage(w, customers, len(customers), total, opts.Page, opts.Limit)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.Customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondData(w, http.StatusOK, c)
}

func (h *Handler) GetCustomerByEmail(w http.ResponseWriter, r *http.Request) {
	c, err := h.Customers.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondData(w, http.StatusOK, c)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var upd customer.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	c, err := h.Customers.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondData(w, http.StatusOK, c)
}

func (h *Handler) AddCustomerAddress(w http.ResponseWriter, r *http.Request) {
	var addr customer.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	c, err := h.Customers.AddAddress(r.Context(), chi.URLParam(r, "id"), addr)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondData(w, http.StatusOK, c)
}

// CustomerStats is the admin overview block: counts plus the top ten
// customers by lifetime spend.
func (h *Handler) CustomerStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.Customers.Count(ctx)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	active, err := h.Customers.CountActive(ctx)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	newThisMonth, err := h.Customers.CountCreatedSince(ctx, startOfMonth())
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	top, err := h.Customers.TopBySpend(ctx, 10)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	if top == nil {
		top = []customer.TopCustomer{}
	}

	respondData(w, http.StatusOK, map[string]any{
		"totalCustomers":        total,
		"activeCustomers":       active,
		"newCustomersThisMonth": newThisMonth,
		"topCustomers":          top,
	})
}
