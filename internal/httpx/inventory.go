package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/srrfarms/storefront/internal/inventory"
)

func (h *Handler) InventoryOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Inventory.Overview(r.Context())
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondData(w, http.StatusOK, ov)
}

func (h *Handler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	p, err := h.Inventory.Restock(r.Context(), chi.URLParam(r, "id"), body.Quantity)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondDataMessage(w, http.StatusOK, p, fmt.Sprintf("Restocked %d units", body.Quantity))
}

func (h *Handler) InventoryAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Inventory.Alerts(r.Context())
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []inventory.Alert{}
	}
	respondCount(w, http.StatusOK, alerts, len(alerts))
}
