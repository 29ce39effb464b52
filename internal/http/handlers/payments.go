package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/middleware"
	"tavolo-order-service/internal/utils"
	"tavolo-order-service/pkg/response"
)

var paymentStatuses = map[string]bool{
	domain.PaymentStatusPending:   true,
	domain.PaymentStatusCompleted: true,
	domain.PaymentStatusFailed:    true,
	domain.PaymentStatusRefunded:  true,
}

type createPaymentRequest struct {
	AmountPaid float64 `json:"amountPaid"`
}

// CreatePayment records a customer payment attempt; it starts pending and
// is settled by the payment provider callback or by an admin.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
		return
	}

	var req createPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.AmountPaid <= 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive")
		return
	}

	payment := domain.Payment{
		PaymentID:  utils.NewID("pay"),
		Status:     domain.PaymentStatusPending,
		AmountPaid: req.AmountPaid,
		Email:      strings.ToLower(authCtx.Email),
	}
	if err := h.Store.CreatePayment(r.Context(), payment); err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "payment", "created", payment.PaymentID)

	response.Created(w, payment)
}

func (h *Handler) AdminListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Store.ListPayments(r.Context())
	if err != nil {
		h.Logger.Error("payments list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments")
		return
	}
	response.Success(w, payments)
}

func (h *Handler) AdminUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if !paymentStatuses[req.Status] {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown payment status")
		return
	}

	payment, err := h.Store.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "paymentID"), req.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "payment", "status.updated", payment.PaymentID)

	response.Success(w, payment)
}
