package handlers

import (
	"context"
	"net/http"

	"tavolo-order-service/internal/analytics"
	"tavolo-order-service/pkg/response"
)

// LoadReport returns the current dashboard report, computing it from a
// fresh store snapshot on cache miss. The websocket server shares this
// path.
func (h *Handler) LoadReport(ctx context.Context) (*analytics.Report, error) {
	if cached, ok, err := h.Cache.Get(ctx, reportCacheKey); err == nil && ok {
		return cached, nil
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	report := analytics.ComputeDashboardReport(snap.Orders, snap.ManualOrders, snap.Payments, snap.Users)
	if err := h.Cache.Set(ctx, reportCacheKey, &report, h.Config.ReportCacheTTL); err != nil {
		h.Logger.Warn("report cache write failed", zapError(err))
	}
	return &report, nil
}

func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	report, err := h.LoadReport(r.Context())
	if err != nil {
		h.Logger.Error("dashboard snapshot failed", zapError(err))
		response.Error(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "Dashboard data could not be loaded")
		return
	}
	response.Success(w, report)
}
