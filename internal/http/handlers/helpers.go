package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tavolo-order-service/internal/store"
	"tavolo-order-service/pkg/response"
)

// reportCacheKey is the single key under which the dashboard report is
// cached; every record write invalidates it.
const reportCacheKey = "dashboard_report"

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// recordChanged invalidates the local report cache and fans the change out
// to other replicas over the event exchange. Both are best-effort: the
// report is recomputed from the store on every cache miss anyway.
func (h *Handler) recordChanged(ctx context.Context, collection, action, recordID string) {
	if err := h.Cache.Invalidate(ctx, reportCacheKey); err != nil {
		h.Logger.Warn("report cache invalidation failed", zapError(err))
	}
	if err := h.Events.RecordChanged(ctx, collection, action, recordID); err != nil {
		h.Logger.Warn("record event publish failed", zapError(err))
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, store.ErrDuplicate):
		response.Error(w, http.StatusConflict, "DUPLICATE", "Record already exists")
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Storage operation failed")
	}
}
