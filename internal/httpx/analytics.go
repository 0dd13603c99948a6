package httpx

import (
	"net/http"
	"time"

	"github.com/srrfarms/storefront/internal/analytics"
)

func (h *Handler) AnalyticsDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Analytics.Dashboard(r.Context())
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondData(w, http.StatusOK, d)
}

func (h *Handler) AnalyticsSales(w http.ResponseWriter, r *http.Request) {
	period := analytics.Period(r.URL.Query().Get("period"))
	report, err := h.Analytics.Sales(r.Context(), period)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondData(w, http.StatusOK, report)
}

// startOfMonth is the UTC first-of-month boundary the monthly counters
// share.
func startOfMonth() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
