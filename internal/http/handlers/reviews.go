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

type createReviewRequest struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *Handler) PublicListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Store.ListReviews(r.Context())
	if err != nil {
		h.Logger.Error("reviews list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews")
		return
	}
	response.Success(w, reviews)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req createReviewRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5")
		return
	}
	if strings.TrimSpace(req.ProductID) != "" {
		if _, err := h.Store.GetProduct(r.Context(), strings.TrimSpace(req.ProductID)); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	review := domain.Review{
		ID:        utils.NewID("rev"),
		Email:     authCtx.Email,
		ProductID: strings.TrimSpace(req.ProductID),
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		Date:      time.Now(),
	}
	if err := h.Store.CreateReview(r.Context(), review); err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "review", "created", review.ID)

	response.Created(w, review)
}

func (h *Handler) AdminDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")
	if err := h.Store.DeleteReview(r.Context(), reviewID); err != nil {
		writeStoreError(w, err)
		return
	}
	h.recordChanged(r.Context(), "review", "deleted", reviewID)

	response.Success(w, map[string]any{"deleted": true})
}
