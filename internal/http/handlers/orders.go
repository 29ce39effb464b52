package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/middleware"
	"tavolo-order-service/internal/utils"
	"tavolo-order-service/pkg/response"
)

type createOrderRequest struct {
	Items []domain.OrderItem `json:"items"`
	Total float64            `json:"total"`
}

var orderStatuses = map[string]bool{
	domain.OrderStatusPending:    true,
	domain.OrderStatusPreparing:  true,
	domain.OrderStatusDelivering: true,
	domain.OrderStatusDelivered:  true,
	domain.OrderStatusCancelled:  true,
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
		return
	}

	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Order needs at least one item")
		return
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity < 1 || item.UnitPrice < 0 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order item")
			return
		}
	}

	// The stored total is authoritative from creation onward; it is derived
	// here once and never recomputed by the dashboard.
	total := req.Total
	if total <= 0 {
		for _, item := range req.Items {
			total += float64(item.Quantity) * item.UnitPrice
		}
	}

	order := domain.Order{
		ID:     utils.NewID("ord"),
		Email:  authCtx.Email,
		Items:  req.Items,
		Total:  total,
		Status: domain.OrderStatusPending,
		Date:   time.Now(),
	}
	if err := h.Store.CreateOrder(r.Context(), order); err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "order", "created", order.ID)

	response.Created(w, order)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
		return
	}

	orders, err := h.Store.ListOrdersByEmail(r.Context(), authCtx.Email)
	if err != nil {
		h.Logger.Error("orders list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list orders")
		return
	}
	response.Success(w, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
		return
	}

	order, err := h.Store.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if order.Email != authCtx.Email && authCtx.Role != domain.RoleAdmin {
		response.Error(w, http.StatusForbidden, "FORBIDDEN", "Not your order")
		return
	}
	response.Success(w, order)
}

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListOrders(r.Context())
	if err != nil {
		h.Logger.Error("orders list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list orders")
		return
	}
	response.Success(w, orders)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if !orderStatuses[req.Status] {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown order status")
		return
	}

	order, err := h.Store.UpdateOrderStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "order", "status.updated", order.ID)

	response.Success(w, order)
}
