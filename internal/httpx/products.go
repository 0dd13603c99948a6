package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/srrfarms/storefront/internal/catalog"
)

// ListProducts serves the public catalog with optional category,
// in-stock, sort, and limit filters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := catalog.ListOptions{
		Category: catalog.Category(q.Get("category")),
		InStock:  q.Get("inStock") == "true",
		SortBy:   q.Get("sortBy"),
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(w, "invalid limit")
			return
		}
		opts.Limit = n
	}

	products, err := h.Catalog.List(r.Context(), opts)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	respondCount(w, http.StatusOK, products, len(products))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondData(w, http.StatusOK, p)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	if err := p.Validate(); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if err := h.Catalog.Create(r.Context(), &p); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondData(w, http.StatusCreated, &p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var upd catalog.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	p, err := h.Catalog.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondData(w, http.StatusOK, p)
}

// DeleteProduct soft-deletes: past orders keep resolving the product,
// catalog listings stop including it.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondMessage(w, http.StatusOK, "Product deactivated successfully")
}

// SetProductStock replaces the absolute stock level.
func (h *Handler) SetProductStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	p, err := h.Catalog.SetStock(r.Context(), chi.URLParam(r, "id"), body.Stock)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondData(w, http.StatusOK, p)
}
