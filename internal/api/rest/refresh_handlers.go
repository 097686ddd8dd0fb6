package rest

import (
	"net/http"

	"github.com/fortuna/athena/internal/cache"
	"github.com/fortuna/athena/internal/service"
)

// RefreshHandler exposes the on-demand refresh endpoint and scheduler status.
type RefreshHandler struct {
	refresher Refresher
	cache     *cache.RedisCache
}

// NewRefreshHandler creates a refresh handler. cache may be nil.
func NewRefreshHandler(refresher Refresher, c *cache.RedisCache) *RefreshHandler {
	return &RefreshHandler{refresher: refresher, cache: c}
}

// HandleRefresh triggers a synchronous refresh of the current (or requested)
// season's feeds. The call blocks until the feeds land so callers can see
// the row counts.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondError(w, http.StatusServiceUnavailable, "Refresh not available", nil)
		return
	}

	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	summary, err := h.refresher.RefreshNow(r.Context(), year)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Refresh failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Refresh completed",
		"summary": summary,
	})
}

// HandleSchedulerStatus handles GET /api/v1/scheduler/status
func (h *RefreshHandler) HandleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not available", nil)
		return
	}

	status := h.refresher.GetStatus()
	if h.cache != nil {
		if last, err := h.cache.Get(r.Context(), service.LastRefreshKey); err == nil {
			status["last_refresh"] = last
		}
	}

	respondJSON(w, http.StatusOK, status)
}
