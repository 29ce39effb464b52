package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/utils"
	"tavolo-order-service/pkg/response"
)

type recordManualOrderRequest struct {
	Email  string             `json:"email"`
	Items  []domain.OrderItem `json:"items"`
	Total  float64            `json:"total"`
	Status string             `json:"status"`
	Date   *time.Time         `json:"date"`
}

func (h *Handler) AdminListManualOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListManualOrders(r.Context())
	if err != nil {
		h.Logger.Error("manual orders list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list manual orders")
		return
	}
	response.Success(w, orders)
}

// AdminRecordManualOrder captures an offline sale. Unsettled records stay
// out of the dashboard until their status flips to paid.
func (h *Handler) AdminRecordManualOrder(w http.ResponseWriter, r *http.Request) {
	var req recordManualOrderRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	status := defaultString(req.Status, domain.ManualOrderPaid)
	if status != domain.ManualOrderPaid && status != domain.ManualOrderCanceled {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Manual order status must be paid or canceled")
		return
	}
	if req.Total < 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Total must not be negative")
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	order := domain.ManualOrder{
		ID:     utils.NewID("man"),
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Items:  req.Items,
		Total:  req.Total,
		Status: status,
		Date:   date,
	}
	if err := h.Store.CreateManualOrder(r.Context(), order); err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "manual_order", "created", order.ID)

	response.Created(w, order)
}

func (h *Handler) AdminUpdateManualOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.Status != domain.ManualOrderPaid && req.Status != domain.ManualOrderCanceled {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Manual order status must be paid or canceled")
		return
	}

	order, err := h.Store.UpdateManualOrderStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "manual_order", "status.updated", order.ID)

	response.Success(w, order)
}
